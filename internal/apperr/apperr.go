// Package apperr defines the typed error kinds the surveillance core uses
// to signal failures to callers, following the same Kind/Unwrap/sentinel
// shape as the platform's HTTP error type.
package apperr

import "fmt"

// Kind classifies an error into one of the four propagation policies
// described by the error-handling design: invalid input is rejected before
// processing, numerical failures leave state unchanged, insufficient data
// is a soft result rather than a thrown error, and construction violations
// abort a constructor that would otherwise hold an impossible invariant.
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindNumericalFailure      Kind = "numerical_failure"
	KindInsufficientData      Kind = "insufficient_data"
	KindConstructionViolation Kind = "construction_violation"
)

// Error is a typed error carrying a Kind alongside a human-readable message
// and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap wraps an existing error with a Kind and message.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Predeclared sentinels for the common construction-time violations named
// in spec: weights must sum to 1, probabilities must stay in [0,1], and the
// probability mass of a result must not exceed 1.
var (
	ErrWeightsNotNormalized   = New(KindConstructionViolation, "factor weights do not sum to 1")
	ErrProbabilityOutOfRange  = New(KindConstructionViolation, "probability outside [0,1]")
	ErrProbabilitySumExceeded = New(KindConstructionViolation, "probability sum exceeds 1")
	ErrSingularMatrix         = New(KindNumericalFailure, "innovation covariance is singular")
)
