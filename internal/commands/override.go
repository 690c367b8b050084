package commands

import (
	"context"
	"fmt"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newOverrideCommand(open Opener) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "override FROM TO RATE",
		Short: "Pin a manual rate for a currency pair",
		Long:  "Records a manual rate. It is served until a newer observation of the pair is recorded.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("%w: invalid rate %q", apperrors.ErrValidation, args[2])
			}
			return withServices(cmd, open, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				obs, err := svc.ExchangeRate.RecordManualOverride(ctx, args[0], args[1], rate, actor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recorded %s/%s = %s by %s (%s)\n",
					obs.FromCurrencyCode, obs.ToCurrencyCode, obs.Rate.String(), actor, obs.ObservationID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "ID of the user making the override (required)")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}
