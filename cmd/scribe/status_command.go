package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon health and task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.client().Status(cmd.Context())
			if err != nil {
				return wrapDaemonError(err)
			}

			if jsonOutput {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Daemon: running at %s\n", ctx.serverAddress())
			if status.DatabasePath != "" {
				fmt.Fprintf(out, "Database: %s\n", status.DatabasePath)
			}
			if !status.ExtractionConfigured {
				fmt.Fprintln(out, "Warning: no LLM API key configured; enrichment will fail.")
			}
			fmt.Fprintln(out)

			headers := []string{"Status", "Count"}
			rows := make([][]string, 0, 4)
			for _, name := range []string{"pending", "processing", "completed", "failed"} {
				rows = append(rows, []string{name, fmt.Sprintf("%d", status.Counts[name])})
			}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight}))

			fmt.Fprintf(out, "Total: %d\n", status.Total)
			if status.NeedsAttention > 0 {
				fmt.Fprintf(out, "Needs attention: %d (run `scribe list --lane needs_attention`)\n", status.NeedsAttention)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
