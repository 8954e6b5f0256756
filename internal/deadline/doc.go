// Package deadline parses natural-language deadline phrases into timestamps.
//
// It understands relative dates ("tomorrow", "next week", "in 3 days"),
// weekday references ("next Friday"), end-of-period shorthand (eod, eow,
// eom), explicit times ("3pm", "15:00"), and a handful of absolute date
// layouts. When a phrase carries no time component, deadlines default to end
// of day.
package deadline
