package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spotprice/backend-go/internal/config"
	"spotprice/backend-go/internal/handlers"
	internalhttp "spotprice/backend-go/internal/http"
	"spotprice/backend-go/internal/services"
)

func main() {
	_ = godotenv.Load(
		".env",
		".env.local",
		"../.env",
		"../.env.local",
	)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	limiter := services.NewRateLimiter(cfg)
	api, err := handlers.New(cfg, services.NewPriceClient(cfg), services.NewHealthcheckClient(cfg), limiter)
	if err != nil {
		log.Fatal(err)
	}
	h := internalhttp.NewRouter(cfg, api, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		log.Printf("spotprice backend listening on %s (dates %s..%s, limiter %s)", srv.Addr, cfg.MinDate, cfg.MaxDate, limiter.Backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-done
	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
