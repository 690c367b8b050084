package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/spf13/cobra"
)

func newHistoryCommand(open Opener) *cobra.Command {
	var (
		limit     int
		nextToken string
	)

	cmd := &cobra.Command{
		Use:   "history FROM TO",
		Short: "List recorded observations of a currency pair, newest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				var token *string
				if nextToken != "" {
					token = &nextToken
				}
				observations, next, err := svc.ExchangeRate.ListObservations(ctx, args[0], args[1], limit, token)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "FETCHED AT\tRATE\tSOURCE\tOVERRIDDEN BY")
				for _, obs := range observations {
					by := "-"
					if obs.OverriddenBy != nil {
						by = *obs.OverriddenBy
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", obs.FetchedAt.Format(time.RFC3339), obs.Rate.String(), obs.Source, by)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				if next != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "next page: --next-token %s\n", *next)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of observations")
	cmd.Flags().StringVar(&nextToken, "next-token", "", "resume after a previous page")

	return cmd
}
