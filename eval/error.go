/*
File    : gosetl/eval/error.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package eval

import (
	"fmt"

	"github.com/akashmaji946/gosetl/ast"
)

// Error is a runtime error: a message and the span it should be blamed
// on. Errors raised deep inside the object package carry no span of
// their own — Eval backfills the span of the expression it was
// evaluating the first time such an error crosses its boundary, exactly
// once, so the innermost (most specific) expression wins.
type Error struct {
	Span    ast.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Start, e.Span.End, e.Message)
}

// hasSpan reports whether span has already been assigned a real range,
// as opposed to the unset zero value.
func hasSpan(span ast.Span) bool {
	return span != ast.Span{}
}

// attachSpan wraps err as an *Error blamed on span, unless it is already
// an *Error with a span of its own — in which case that span wins.
func attachSpan(span ast.Span, err error) error {
	if err == nil {
		return nil
	}
	if evErr, ok := err.(*Error); ok {
		if !hasSpan(evErr.Span) {
			evErr.Span = span
		}
		return evErr
	}
	return &Error{Span: span, Message: err.Error()}
}
