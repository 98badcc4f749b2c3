/*
File    : gosetl/parser/error.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package parser

import (
	"fmt"

	"github.com/akashmaji946/gosetl/ast"
)

// Kind distinguishes the three ways a parse can fail.
type Kind int

const (
	Incomplete Kind = iota
	InvalidToken
	UnexpectedToken
)

func (k Kind) String() string {
	switch k {
	case Incomplete:
		return "incomplete input"
	case InvalidToken:
		return "invalid token"
	default:
		return "unexpected token"
	}
}

// Error is a parse error: an offending span, a message, and the Kind that
// distinguishes "ran out of input" from "a malformed token" from "a token
// in the wrong place".
type Error struct {
	Kind    Kind
	Span    ast.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Span.Start, e.Span.End, e.Message)
}
