package gerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Kind tags the failure class of a waitlist operation.
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindInvalidTransition     Kind = "invalid_transition"
	KindStorageFailure        Kind = "storage_failure"
	KindValidationComputation Kind = "validation_computation"
	KindInvalidRequest        Kind = "invalid_request"
)

// Error is an error carrying a Kind. Errors created with the same Kind match
// each other's sentinel through errors.Is.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrInvalidTransition     = &Error{Kind: KindInvalidTransition}
	ErrStorageFailure        = &Error{Kind: KindStorageFailure}
	ErrValidationComputation = &Error{Kind: KindValidationComputation}
	ErrInvalidRequest        = &Error{Kind: KindInvalidRequest}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = strings.ReplaceAll(string(e.Kind), "_", " ")
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// New returns an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind. A nil err stays nil.
func Wrap(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// NotFound builds the not found error used for entries and products.
func NotFound(what, id string) error {
	return New(KindNotFound, "%s not found: %s", what, id)
}

// KindOf classifies err. Missing rows count as not found, anything
// unclassified is treated as a storage failure. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}
	return KindStorageFailure
}
