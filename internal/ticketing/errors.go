// Package ticketing implements the seat lifecycle engine: the four
// primitive operations (reserve, book, confirm/fail payment, cancel/extend)
// that run under a single database transaction and are safe to retry
// against the same terminal state.
package ticketing

import "fmt"

// Kind enumerates the error categories the engine raises, matching the
// error-handling table: each kind maps to exactly one HTTP status at the
// facade.
type Kind string

const (
	InvalidInput       Kind = "INVALID_INPUT"
	NotFound           Kind = "NOT_FOUND"
	WrongEvent         Kind = "WRONG_EVENT"
	Unavailable        Kind = "UNAVAILABLE"
	Forbidden          Kind = "FORBIDDEN"
	RetryableConflict  Kind = "RETRYABLE_CONFLICT"
	StateMismatch      Kind = "STATE_MISMATCH"
	InfraUnavailable   Kind = "INFRA_UNAVAILABLE"
)

// Error is the typed error the engine and immediate path return. Handlers
// map Kind to an HTTP status; the queued path writes Kind into the status
// registry instead of propagating it to an HTTP caller.
type Error struct {
	Kind    Kind
	Message string
	Labels  []string // offending seat labels, populated for Unavailable
}

func (e *Error) Error() string {
	if len(e.Labels) > 0 {
		return fmt.Sprintf("%s: %s %v", e.Kind, e.Message, e.Labels)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func unavailableErr(labels []string) error {
	return &Error{Kind: Unavailable, Message: "seat not available", Labels: labels}
}

// AsError unwraps err into *Error, returning ok=false for anything else
// (e.g. a raw database/sql error, which callers should treat as a 500).
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
