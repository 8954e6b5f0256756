package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/api"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var laneFilter string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List captured tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []string
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				statuses = strings.Split(trimmed, ",")
			}

			views, err := ctx.client().ListTasks(cmd.Context(), statuses...)
			if err != nil {
				return wrapDaemonError(err)
			}

			if lane := strings.TrimSpace(laneFilter); lane != "" {
				views = filterByLane(views, lane)
			}

			if jsonOutput {
				return writeJSON(cmd, api.TaskListResponse{Tasks: views})
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}

			colorize := shouldColorize(out)
			headers := []string{"ID", "Lane", "Task", "Project", "Deadline", "Age"}
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				deadline := view.DeadlineParsed
				if deadline == "" {
					deadline = view.DeadlineText
				}
				rows = append(rows, []string{
					shortID(view.ID),
					laneLabel(view.Lane, colorize),
					truncate(displayText(view), 48),
					view.Project,
					deadline,
					formatAge(view.CreatedAt),
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (comma separated: pending, processing, completed, failed)")
	cmd.Flags().StringVar(&laneFilter, "lane", "", "Filter by lane (pending, ready, needs_attention, error)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func filterByLane(views []api.TaskView, lane string) []api.TaskView {
	want := strings.ToLower(lane)
	filtered := make([]api.TaskView, 0, len(views))
	for _, view := range views {
		if view.Lane == want {
			filtered = append(filtered, view)
		}
	}
	return filtered
}
