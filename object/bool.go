package object

import (
	"fmt"
	"io"
)

// MakeBool wraps a Go bool as an Object.
func MakeBool(v bool) Object {
	return &Cell{Rc: 1, Typ: BoolType, Data: v}
}

// AsBool unwraps obj as a bool, reporting whether it was actually a bool.
func AsBool(obj Object) (bool, bool) {
	if obj == nil || obj.Typ != BoolType {
		return false, false
	}
	return obj.Data.(bool), true
}

func formatBool(self Object, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%t", self.Data.(bool))
	return err
}

// compareBool orders false before true, so bool participates in Eq/Ne
// (and, incidentally, Lt/Le/Gt/Ge) like any other total-ordered scalar.
func compareBool(self, other Object) (Ordering, bool) {
	x := self.Data.(bool)
	y, ok := AsBool(other)
	if !ok {
		return 0, false
	}
	switch {
	case x == y:
		return Equal, true
	case !x && y:
		return Less, true
	default:
		return Greater, true
	}
}
