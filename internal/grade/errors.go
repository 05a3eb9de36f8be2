package grade

import "fmt"

// StateErrorKind names the record-lifecycle violation.
type StateErrorKind string

const (
	// StateAlreadyCompleted: the record has already been evaluated.
	// Re-submission requires generating a new record.
	StateAlreadyCompleted StateErrorKind = "already_completed"

	// StateNotFound: no record with the given ID exists.
	StateNotFound StateErrorKind = "not_found"
)

// StateError indicates an operation invalid for the record's lifecycle
// phase.
type StateError struct {
	RecordID string
	Kind     StateErrorKind
}

func (e *StateError) Error() string {
	switch e.Kind {
	case StateAlreadyCompleted:
		return fmt.Sprintf("record %s is already completed", e.RecordID)
	case StateNotFound:
		return fmt.Sprintf("record %s not found", e.RecordID)
	default:
		return fmt.Sprintf("record %s: invalid state", e.RecordID)
	}
}
