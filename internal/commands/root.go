package commands

import (
	"context"
	"time"

	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/spf13/cobra"
)

// defaultTimeout bounds a single CLI invocation, provider calls included.
const defaultTimeout = 30 * time.Second

// Opener builds the services a command runs against. The returned func
// releases them.
type Opener func(ctx context.Context) (*portssvc.ServiceContainer, func(), error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fxctl",
		Short: "Inspect and manage exchange rates",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRateCommand(open),
		newConvertCommand(open),
		newOverrideCommand(open),
		newHistoryCommand(open),
	)

	return rootCmd
}

// withServices opens the services for the duration of fn.
func withServices(cmd *cobra.Command, open Opener, fn func(ctx context.Context, svc *portssvc.ServiceContainer) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), defaultTimeout)
	defer cancel()

	svc, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, svc)
}
