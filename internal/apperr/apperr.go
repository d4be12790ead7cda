// Package apperr carries the business-rule error taxonomy. Every rejection is
// deterministic and reported synchronously; nothing here is retryable.
package apperr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	// KindInvalidTransition: operation attempted from a status that does not
	// permit it. Rejected before any mutation.
	KindInvalidTransition
	// KindValidation: malformed input, rejected at construction time.
	KindValidation
	// KindInsufficient: no freeze days / classes / guest passes remaining.
	KindInsufficient
	// KindNotFound: referenced entity missing.
	KindNotFound
	// KindConflict: duplicate in-flight workflow (pending cancellation,
	// pending scheduled change, survey already submitted).
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidTransition:
		return "invalid_state_transition"
	case KindValidation:
		return "validation_failure"
	case KindInsufficient:
		return "insufficient_resource"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf walks the unwrap chain and returns the first marked kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

func InvalidTransitionf(format string, args ...interface{}) error {
	return Newf(KindInvalidTransition, format, args...)
}

func Validationf(format string, args ...interface{}) error {
	return Newf(KindValidation, format, args...)
}

func Insufficientf(format string, args ...interface{}) error {
	return Newf(KindInsufficient, format, args...)
}

func NotFoundf(format string, args ...interface{}) error {
	return Newf(KindNotFound, format, args...)
}

func Conflictf(format string, args ...interface{}) error {
	return Newf(KindConflict, format, args...)
}
