package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var commodityNames = map[string]string{
	"brent":       "Brent",
	"wti":         "WTI",
	"natural-gas": "Natural Gas",
}

var commodityOrder = []string{"brent", "wti", "natural-gas"}

// NewRootCmd builds the pricectl command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pricectl",
		Short:         "Look up commodity spot prices through the price backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("PRICECTL_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().String("server", server, "Price backend base URL")
	rootCmd.PersistentFlags().Duration("timeout", 20*time.Second, "Request timeout")

	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newHealthcheckCmd())
	return rootCmd
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [COMMODITY]",
		Short: "Fetch the spot price of brent, wti or natural-gas for a date",
		Long: `Fetch the spot price for one commodity, or all of them with --all.
Example: pricectl lookup brent --date=2025-05-12`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			all, _ := cmd.Flags().GetBool("all")
			client, ctx, cancel := clientFromFlags(cmd)
			defer cancel()

			if all {
				if len(args) > 0 {
					return errors.New("pass a commodity or --all, not both")
				}
				return runLookupAll(ctx, cmd, client, date)
			}
			if len(args) != 1 {
				return errors.New("commodity is required unless --all is set")
			}
			commodity := strings.ToLower(args[0])
			res, err := client.Lookup(ctx, commodity, date)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), RenderError(err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderResult(displayName(commodity), res))
			return nil
		},
	}
	cmd.Flags().String("date", "", "Date in YYYY-MM-DD format")
	cmd.Flags().Bool("all", false, "Look up every commodity concurrently")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func runLookupAll(ctx context.Context, cmd *cobra.Command, client *Client, date string) error {
	var failed int
	for _, r := range client.LookupAll(ctx, commodityOrder, date) {
		if r.Err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), displayName(r.Commodity)+": "+RenderError(r.Err))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), RenderResult(displayName(r.Commodity), r.Result))
	}
	if failed == len(commodityOrder) {
		return errors.New("all lookups failed")
	}
	return nil
}

func newHealthcheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Call the backend health-check proxy and print the relayed response",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString("url")
			client, ctx, cancel := clientFromFlags(cmd)
			defer cancel()

			status, body, err := client.Healthcheck(ctx, target)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), RenderError(err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(fmt.Sprintf("Healthcheck (HTTP %d)", status)))
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
	cmd.Flags().String("url", "", "Target URL overriding the backend's HEALTHCHECK_URL")
	return cmd
}

func clientFromFlags(cmd *cobra.Command) (*Client, context.Context, context.CancelFunc) {
	server, _ := cmd.Flags().GetString("server")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	return NewClient(server, timeout), ctx, cancel
}

func displayName(slug string) string {
	if name, ok := commodityNames[slug]; ok {
		return name
	}
	return slug
}
