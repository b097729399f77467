package lookup

// Status represents the current state of a task
type Status int

const (
	StatusPending Status = iota
	StatusFetching
	StatusRendering
	StatusTranslating
	StatusCompleted
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusFetching:
		return "Fetching"
	case StatusRendering:
		return "Rendering"
	case StatusTranslating:
		return "Translating"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Done reports whether s is a terminal state
func (s Status) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}
