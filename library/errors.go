package library

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes every failure an engine operation can surface. The
// set is closed: callers can switch on the kind without worrying about
// unlisted cases, and the gateway maps each kind to a transport status.
type ErrorKind string

const (
	// InvalidArgument means the request failed validation (blank title,
	// malformed email, ...). Deterministic for the same input.
	InvalidArgument ErrorKind = "INVALID_ARGUMENT"

	// NotFound means the referenced record does not exist.
	NotFound ErrorKind = "NOT_FOUND"

	// AlreadyExists means a uniqueness reservation (isbn, email) is held by
	// another live record.
	AlreadyExists ErrorKind = "ALREADY_EXISTS"

	// FailedPrecondition means the record exists but its current state
	// forbids the operation (book already borrowed, borrowing already
	// returned, delete while borrowed).
	FailedPrecondition ErrorKind = "FAILED_PRECONDITION"

	// Internal means a storage failure. The only unrecoverable kind; any
	// partial mutation has been rolled back before it is returned.
	Internal ErrorKind = "INTERNAL"
)

// Error is the typed outcome of a failed operation.
type Error struct {
	Kind    ErrorKind
	Op      string // engine operation, e.g. "BorrowBook"
	Message string
	Err     error // underlying cause, set for Internal only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from err, or Internal if err is not a typed
// library error.
func KindOf(err error) ErrorKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return Internal
}

// IsNotFound reports whether err is a NotFound outcome.
func IsNotFound(err error) bool { return hasKind(err, NotFound) }

// IsAlreadyExists reports whether err is an AlreadyExists outcome.
func IsAlreadyExists(err error) bool { return hasKind(err, AlreadyExists) }

// IsInvalidArgument reports whether err is an InvalidArgument outcome.
func IsInvalidArgument(err error) bool { return hasKind(err, InvalidArgument) }

// IsFailedPrecondition reports whether err is a FailedPrecondition outcome.
func IsFailedPrecondition(err error) bool { return hasKind(err, FailedPrecondition) }

func hasKind(err error, kind ErrorKind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == kind
}

func invalidArgf(op, format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(op, format string, args ...any) *Error {
	return &Error{Kind: NotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

func alreadyExistsf(op, format string, args ...any) *Error {
	return &Error{Kind: AlreadyExists, Op: op, Message: fmt.Sprintf(format, args...)}
}

func preconditionf(op, format string, args ...any) *Error {
	return &Error{Kind: FailedPrecondition, Op: op, Message: fmt.Sprintf(format, args...)}
}

func internalErr(op, msg string, err error) *Error {
	return &Error{Kind: Internal, Op: op, Message: msg, Err: err}
}
