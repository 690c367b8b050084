package commands

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/spf13/cobra"
)

func newRateCommand(open Opener) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "rate FROM TO",
		Short: "Resolve the exchange rate of a currency pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				quote, err := svc.Converter.GetRate(ctx, args[0], args[1], refresh)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !quote.Available() {
					fmt.Fprintf(out, "%s/%s: no rate available\n", quote.FromCurrencyCode, quote.ToCurrencyCode)
					return nil
				}
				fmt.Fprintf(out, "%s/%s = %s (%s)\n", quote.FromCurrencyCode, quote.ToCurrencyCode, quote.Rate.String(), quote.Source)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and ask the provider")

	return cmd
}
