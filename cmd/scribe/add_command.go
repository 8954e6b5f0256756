package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Capture a task from free text",
		Long: `Capture a task from free text. The daemon stores it immediately and
enriches it in the background; use "scribe show" to watch the result.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			view, err := ctx.client().CreateTask(cmd.Context(), text)
			if err != nil {
				return wrapDaemonError(err)
			}

			if jsonOutput {
				return writeJSON(cmd, view)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Captured task %s\n", shortID(view.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", view.RawInput)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
