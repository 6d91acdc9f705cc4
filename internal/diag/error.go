package diag

import (
	"fmt"
)

// Error wraps a fatal Diagnostic as a Go error so it can flow through
// ordinary (T, error) signatures without losing the span or code.
// Callers recover the full record via errors.As(err, &diagErr).
type Error struct {
	Diag Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

// AsError wraps the diagnostic. The severity is forced to SevError:
// only fatal findings travel as errors.
func AsError(d Diagnostic) *Error {
	d.Severity = SevError
	return &Error{Diag: d}
}

// FirstError returns the first SevError diagnostic in the bag wrapped as
// *Error, or nil when the bag carries no errors.
func FirstError(b *Bag) *Error {
	if b == nil {
		return nil
	}
	for _, d := range b.Items() {
		if d.Severity >= SevError {
			return &Error{Diag: d}
		}
	}
	return nil
}
