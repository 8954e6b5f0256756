package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCancelCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cancel <task-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task from the workflow",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if err := ctx.client().CancelTask(cmd.Context(), id); err != nil {
				return wrapDaemonError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled task %s\n", shortID(id))
			return nil
		},
	}
	return cmd
}
