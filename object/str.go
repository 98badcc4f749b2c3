package object

import (
	"fmt"
	"io"
	"strings"
)

// MakeStr wraps a Go string as an Object.
func MakeStr(v string) Object {
	return &Cell{Rc: 1, Typ: StrType, Data: v}
}

// AsStr unwraps obj as a string, reporting whether it was actually str.
func AsStr(obj Object) (string, bool) {
	if obj == nil || obj.Typ != StrType {
		return "", false
	}
	return obj.Data.(string), true
}

func formatStr(self Object, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%q", self.Data.(string))
	return err
}

func compareStr(self, other Object) (Ordering, bool) {
	x := self.Data.(string)
	y, ok := AsStr(other)
	if !ok {
		return 0, false
	}
	switch {
	case x < y:
		return Less, true
	case x > y:
		return Greater, true
	default:
		return Equal, true
	}
}

func containsStr(self, other Object) (bool, error) {
	needle, ok := AsStr(other)
	if !ok {
		return false, fmt.Errorf("'str' containment needle must be 'str', not '%s'", TypeName(other))
	}
	return strings.Contains(self.Data.(string), needle), nil
}
