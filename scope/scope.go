/*
File    : gosetl/scope/scope.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package scope implements the environment: a chain of frames mapping
// names to Objects, each linking to an outer frame.
package scope

import "github.com/akashmaji946/gosetl/object"

// Scope is one frame of the environment. Lookup walks from this frame
// outward through Parent; Define always writes to this frame — there is
// no implicit upward assignment, so a plain `x = 1` inside a set-op's
// child frame never touches the caller's binding of x.
type Scope struct {
	vars   map[string]object.Object
	Parent *Scope
}

// New creates a top-level scope with no parent — the session's global
// frame.
func New() *Scope {
	return &Scope{vars: make(map[string]object.Object)}
}

// Child creates a new frame linked to s as its outer frame.
func (s *Scope) Child() *Scope {
	return &Scope{vars: make(map[string]object.Object), Parent: s}
}

// Lookup searches this frame, then each outer frame in turn.
func (s *Scope) Lookup(name string) (object.Object, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name to value in this frame only.
func (s *Scope) Define(name string, value object.Object) {
	s.vars[name] = value
}
