package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"minimarket/internal/checkout"
)

type windowOptions struct {
	Timezone     string
	MaxDaysAhead int
	OpenHour     int
	CloseHour    int
	At           string
}

type windowResult struct {
	checkout.Window
	At            *time.Time `json:"at,omitempty"`
	SubmitEnabled *bool      `json:"submit_enabled,omitempty"`
	Accepted      *bool      `json:"accepted,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

func NewWindowCommand(opts *RootOptions) *cobra.Command {
	wopts := &windowOptions{}
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Print the current delivery window",
		Long: `Print the delivery window customers can choose from right now.

With --at, also report whether that delivery time would be accepted right now
and, if not, which rule it breaks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(wopts.Timezone)
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}
			v, err := checkout.NewValidator(loc, wopts.MaxDaysAhead, wopts.OpenHour, wopts.CloseHour)
			if err != nil {
				return err
			}
			now := opts.Now()
			res := windowResult{Window: v.Window(now)}
			if wopts.At != "" {
				at, err := v.ParseTimestamp(wopts.At)
				if err != nil {
					return err
				}
				at = at.In(loc)
				enabled := v.SubmitEnabled(at)
				res.Reason = v.CheckDeliveryAt(at, now)
				accepted := res.Reason == ""
				res.At = &at
				res.SubmitEnabled = &enabled
				res.Accepted = &accepted
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			rows := [][]string{
				{"timezone", res.Timezone},
				{"earliest", res.Earliest.Format(checkout.LocalTimestampLayout)},
				{"latest", res.Latest.Format(checkout.LocalTimestampLayout)},
				{"hours", fmt.Sprintf("%02d:00-%02d:00", res.OpenHour, res.CloseHour)},
			}
			if res.At != nil {
				verdict := "accepted"
				if !*res.Accepted {
					verdict = "rejected: " + res.Reason
				}
				rows = append(rows, []string{"at", res.At.Format(checkout.LocalTimestampLayout) + " " + verdict})
			}
			return writeTable(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&wopts.Timezone, "timezone", "America/Lima", "store timezone")
	cmd.Flags().IntVar(&wopts.MaxDaysAhead, "max-days", 5, "days ahead a delivery may be scheduled")
	cmd.Flags().IntVar(&wopts.OpenHour, "open", 9, "first delivery hour")
	cmd.Flags().IntVar(&wopts.CloseHour, "close", 22, "delivery hours end (exclusive)")
	cmd.Flags().StringVar(&wopts.At, "at", "", "delivery time to check (RFC 3339 or YYYY-MM-DDTHH:MM)")
	return cmd
}
