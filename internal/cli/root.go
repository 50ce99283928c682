// Package cli implements marketctl, the operator command line for the order
// status table, status changes and the delivery window.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"minimarket/internal/backend"
	"minimarket/internal/orders/models"
	ordersService "minimarket/internal/orders/service"
	"minimarket/internal/platform/config"
	id "minimarket/pkg/domain"
)

// Orders is what set-status needs from the orders module.
type Orders interface {
	Get(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	ApplyTransition(ctx context.Context, orderID id.OrderID, lastKnown, target models.Status) (*models.Order, error)
}

// RootOptions holds global flags and the injectable collaborators.
type RootOptions struct {
	Format       string // "text" | "json"
	BackendURL   string
	BackendToken string
	Timeout      time.Duration

	// Now and NewOrders are replaced in tests.
	Now       func() time.Time
	NewOrders func(opts *RootOptions) (Orders, error)
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand builds marketctl with the production collaborators.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{Now: time.Now, NewOrders: backendOrders})
}

// NewRootCommandWith builds marketctl around opts; nil collaborators fall back
// to the production ones.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewOrders == nil {
		opts.NewOrders = backendOrders
	}

	cmd := &cobra.Command{
		Use:   "marketctl",
		Short: "Minimarket operator tool",
		Long:  "Inspect the order status table, move orders through it and check the delivery window.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.BackendURL, "backend-url", envOr("BACKEND_URL", "http://localhost:3000/api"), "backend base URL")
	cmd.PersistentFlags().StringVar(&opts.BackendToken, "token", os.Getenv("BACKEND_TOKEN"), "backend service token")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "backend call timeout")

	cmd.AddCommand(NewStatusesCommand(opts))
	cmd.AddCommand(NewAllowedCommand(opts))
	cmd.AddCommand(NewSetStatusCommand(opts))
	cmd.AddCommand(NewWindowCommand(opts))
	return cmd
}

func backendOrders(opts *RootOptions) (Orders, error) {
	client, err := backend.New(config.BackendConfig{
		BaseURL:          opts.BackendURL,
		Token:            opts.BackendToken,
		Timeout:          opts.Timeout,
		FailureThreshold: 1,
	})
	if err != nil {
		return nil, err
	}
	svc, err := ordersService.New(client)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
