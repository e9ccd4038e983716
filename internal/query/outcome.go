package query

// Status tags an Outcome.
type Status int

const (
	StatusPending Status = iota // evaluation debounced or in flight
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one evaluation attempt. Only the outcome
// whose revision matches the newest filter revision is authoritative for
// display; stale outcomes are discarded by the session even if they arrive
// later.
type Outcome struct {
	Revision uint64
	Status   Status
	Value    interface{} // set when Status == StatusSuccess
	Err      string      // set when Status == StatusError
}

// Pending returns the in-flight outcome for a revision.
func Pending(revision uint64) Outcome {
	return Outcome{Revision: revision, Status: StatusPending}
}

// Success returns a successful outcome carrying the evaluated value.
func Success(revision uint64, value interface{}) Outcome {
	return Outcome{Revision: revision, Status: StatusSuccess, Value: value}
}

// Failure returns an error outcome carrying the normalized message.
func Failure(revision uint64, msg string) Outcome {
	return Outcome{Revision: revision, Status: StatusError, Err: msg}
}
