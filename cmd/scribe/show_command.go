package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/api"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := ctx.client().GetTask(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return wrapDaemonError(err)
			}

			if jsonOutput {
				return writeJSON(cmd, view)
			}

			renderTaskDetail(cmd, view)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderTaskDetail(cmd *cobra.Command, view *api.TaskView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Task %s\n", view.ID)
	writeDetail(out, "Lane", laneLabel(view.Lane, colorize))
	writeDetail(out, "Status", view.Status)
	writeDetail(out, "Input", view.RawInput)
	writeDetail(out, "Enriched", view.EnrichedText)
	writeDetail(out, "Project", view.Project)
	writeDetail(out, "Persons", strings.Join(view.Persons, ", "))
	writeDetail(out, "Type", view.TaskType)
	writeDetail(out, "Priority", view.Priority)
	if view.DeadlineText != "" {
		deadline := view.DeadlineText
		if view.DeadlineParsed != "" {
			deadline = fmt.Sprintf("%s (%s)", view.DeadlineText, view.DeadlineParsed)
		}
		writeDetail(out, "Deadline", deadline)
	}
	if view.EffortEstimate != nil {
		writeDetail(out, "Effort", fmt.Sprintf("%d min", *view.EffortEstimate))
	}
	writeDetail(out, "Depends on", strings.Join(view.Dependencies, ", "))
	writeDetail(out, "Tags", strings.Join(view.Tags, ", "))
	writeDetail(out, "Attention", yesNo(view.RequiresAttention))
	if view.RetryCount > 0 {
		writeDetail(out, "Retries", fmt.Sprintf("%d", view.RetryCount))
	}
	writeDetail(out, "Error", view.ErrorMessage)
	writeDetail(out, "Created", view.CreatedAt)
	writeDetail(out, "Updated", view.UpdatedAt)

	if len(view.Suggestions) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Suggestions (low confidence, confirm manually):")
		names := make([]string, 0, len(view.Suggestions))
		for name := range view.Suggestions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := view.Suggestions[name]
			fmt.Fprintf(out, "  %-16s %v (%.2f)\n", name, s.Value, s.Confidence)
		}
	}
}

func writeDetail(out io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(out, "  %-12s %s\n", label, value)
}
