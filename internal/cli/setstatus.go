package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"minimarket/internal/orders/models"
	id "minimarket/pkg/domain"
)

type transitionResult struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// NewSetStatusCommand reads the order for its current status, then applies the
// transition through the same checks the admin console uses.
func NewSetStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <order-id> <target-status>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := id.ParseOrderID(args[0])
			if err != nil {
				return err
			}
			target, err := models.ParseStatus(args[1])
			if err != nil {
				return err
			}
			orders, err := opts.NewOrders(opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()
			current, err := orders.Get(ctx, orderID)
			if err != nil {
				return err
			}
			updated, err := orders.ApplyTransition(ctx, orderID, current.Status, target)
			if err != nil {
				return err
			}

			res := transitionResult{OrderID: string(orderID), From: string(current.Status), To: string(updated.Status)}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "order %s: %s -> %s\n", res.OrderID, res.From, res.To)
			return err
		},
	}
}
