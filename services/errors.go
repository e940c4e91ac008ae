package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an engine operation did not succeed.
type ErrorKind int

const (
	// KindInternal covers store failures and anything unexpected.
	KindInternal ErrorKind = iota
	// KindValidation is a caller-correctable input problem.
	KindValidation
	// KindConflict means current state forbids the requested change.
	KindConflict
	// KindNotFound means a referenced reservation, table or waiter is missing.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// RejectionError is an expected business rejection. Its message is safe to
// show to the receptionist or waiter.
type RejectionError struct {
	Kind    ErrorKind
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

func reject(kind ErrorKind, format string, args ...interface{}) error {
	return &RejectionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err. Errors that are not rejections are internal.
func KindOf(err error) ErrorKind {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Kind
	}
	return KindInternal
}

// IsRejection reports whether err is a business rejection of the given kind.
func IsRejection(err error, kind ErrorKind) bool {
	var rej *RejectionError
	return errors.As(err, &rej) && rej.Kind == kind
}
