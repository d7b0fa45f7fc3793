package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"spotprice/backend-go/internal/cli"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
