package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"scribe/internal/api"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func laneLabel(lane string, colorize bool) string {
	label := strings.ToUpper(strings.ReplaceAll(lane, "_", " "))
	if !colorize {
		return label
	}
	switch lane {
	case "ready":
		return ansiGreen + label + ansiReset
	case "needs_attention":
		return ansiYellow + label + ansiReset
	case "error":
		return ansiRed + label + ansiReset
	default:
		return ansiBlue + label + ansiReset
	}
}

// displayText prefers the enriched rendering once available.
func displayText(view api.TaskView) string {
	if view.EnrichedText != "" {
		return view.EnrichedText
	}
	return view.RawInput
}

func truncate(value string, limit int) string {
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatAge(stamp string) string {
	if stamp == "" {
		return ""
	}
	when, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return ""
	}
	elapsed := time.Since(when)
	switch {
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd", int(elapsed.Hours()/24))
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
