package commands

import (
	"context"
	"fmt"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newConvertCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert AMOUNT FROM TO",
		Short: "Convert an amount between currencies",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, args[0])
			}
			return withServices(cmd, open, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				result, err := svc.Converter.Convert(ctx, amount, args[1], args[2])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				original := utils.FormatMoney(result.Original, svc.Currency.PrecisionFor(ctx, result.Original.CurrencyCode))
				if !result.Available() {
					fmt.Fprintf(out, "%s: no rate available\n", original)
					return nil
				}
				converted := utils.FormatMoney(result.Converted, svc.Currency.PrecisionFor(ctx, result.Converted.CurrencyCode))
				fmt.Fprintf(out, "%s = %s (%s)\n", original, converted, result.Source)
				return nil
			})
		},
	}

	return cmd
}
