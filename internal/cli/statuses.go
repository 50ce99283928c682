package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"minimarket/internal/orders/models"
)

type statusRow struct {
	Status      string   `json:"status"`
	Label       string   `json:"label"`
	Terminal    bool     `json:"terminal"`
	Transitions []string `json:"transitions"`
}

func statusRows() []statusRow {
	var rows []statusRow
	for _, st := range models.AllStatuses() {
		rows = append(rows, statusRow{
			Status:      string(st),
			Label:       st.Label(),
			Terminal:    st.IsTerminal(),
			Transitions: statusNames(models.AllowedTransitions(st)),
		})
	}
	return rows
}

func NewStatusesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "Print the order status transition table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := statusRows()
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			table := [][]string{{"STATUS", "LABEL", "NEXT"}}
			for _, r := range rows {
				table = append(table, []string{r.Status, r.Label, nextColumn(r.Transitions)})
			}
			return writeTable(cmd.OutOrStdout(), table)
		},
	}
}

func NewAllowedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "allowed <status>",
		Short: "List the statuses an order may move to next",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := models.ParseStatus(args[0])
			if err != nil {
				return err
			}
			next := statusNames(models.AllowedTransitions(st))
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"status": st, "transitions": next})
			}
			if len(next) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is terminal\n", st)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(next, "\n"))
			return err
		},
	}
}

func statusNames(statuses []models.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, string(st))
	}
	return out
}

func nextColumn(next []string) string {
	if len(next) == 0 {
		return "(terminal)"
	}
	return strings.Join(next, ", ")
}
