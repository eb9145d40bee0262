package identification

import (
	"errors"
	"fmt"
)

// Kind discriminates workflow failures so callers can render them without
// inspecting lower-level error internals.
type Kind string

const (
	// KindValidation covers requests outside the permitted slot set or
	// against an account that may no longer submit. Returned before any
	// mutation.
	KindValidation Kind = "validation"
	// KindStorage means the attachment store rejected a file. Nothing was
	// persisted.
	KindStorage Kind = "storage"
	// KindPersistence means the identification record write (or a required
	// read) failed. Nothing was persisted.
	KindPersistence Kind = "persistence"
	// KindStatusTransition means the record was saved but the account status
	// update failed. The record write is kept; the submission is retryable.
	KindStatusTransition Kind = "status_transition"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf returns the failure kind carried by err, or "" if err did not
// originate from the workflow.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func IsStorage(err error) bool {
	return KindOf(err) == KindStorage
}

func IsPersistence(err error) bool {
	return KindOf(err) == KindPersistence
}

func IsStatusTransition(err error) bool {
	return KindOf(err) == KindStatusTransition
}
