package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "retry <task-id>",
		Short: "Send a failed or attention-flagged task back through enrichment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := ctx.client().RetryTask(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapDaemonError(err)
			}

			if jsonOutput {
				return writeJSON(cmd, view)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Task %s queued for re-enrichment (attempt %d)\n", shortID(view.ID), view.RetryCount+1)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
