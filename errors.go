package tagproc

import (
	"errors"
	"fmt"
)

// Category sentinels for structural parse faults. They are carried inside
// an *Error and can be matched with errors.Is on the record handed to the
// error handler.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrSelfNesting     = errors.New("tag cannot be nested within itself")
	ErrOrphanClosing   = errors.New("closing tag found but no open tags")
	ErrMismatchedClose = errors.New("mismatched closing tag")
	ErrCallbackPanic   = errors.New("panic in callback")
)

// Error is the record routed to the error handler for every fault that
// occurs during processing. Message describes the fault, Context carries
// open-ended fields such as the tag name or the offending fragment, and
// the wrapped cause (a category sentinel, or the recovered value of a
// callback panic) is available through Unwrap.
type Error struct {
	Message string
	Context map[string]any

	err error
}

func newError(cause error, message string, context map[string]any) *Error {
	return &Error{Message: message, Context: context, err: cause}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// ErrorHandler is the sink for *Error records. Handlers must not call
// back into the processor that invoked them.
type ErrorHandler func(*Error)
