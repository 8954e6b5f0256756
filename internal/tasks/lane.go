package tasks

// Lane is the display grouping the client renders tasks into. It is always
// derived on read so it can never drift from the stored status.
type Lane string

const (
	LanePending        Lane = "pending"
	LaneReady          Lane = "ready"
	LaneNeedsAttention Lane = "needs_attention"
	LaneError          Lane = "error"
)

// LaneFor maps a status and attention flag to a display lane.
func LaneFor(status Status, requiresAttention bool) Lane {
	switch status {
	case StatusFailed:
		return LaneError
	case StatusCompleted:
		if requiresAttention {
			return LaneNeedsAttention
		}
		return LaneReady
	default:
		return LanePending
	}
}

// Lane returns the task's derived display lane.
func (t *Task) Lane() Lane {
	return LaneFor(t.Status, t.RequiresAttention)
}
