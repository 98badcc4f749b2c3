package object

import (
	"fmt"
	"io"
)

// MakeList wraps a slice of Objects as a list Object. The slice is owned
// by the returned Object afterward — callers should not keep mutating it
// through the original reference.
func MakeList(elems []Object) Object {
	return &Cell{Rc: 1, Typ: ListType, Data: elems}
}

// AsList unwraps obj as its backing slice, reporting whether it was
// actually a list.
func AsList(obj Object) ([]Object, bool) {
	if obj == nil || obj.Typ != ListType {
		return nil, false
	}
	return obj.Data.([]Object), true
}

func formatList(self Object, w io.Writer) error {
	list := self.Data.([]Object)
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, item := range list {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if err := Format(item, w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

func listIndex(key Object, length int) (int, error) {
	i, ok := AsI64(key)
	if !ok {
		return 0, fmt.Errorf("list index must be 'i64', not '%s'", TypeName(key))
	}
	idx := int(i)
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, fmt.Errorf("index '%d' out of bounds", i)
	}
	return idx, nil
}

func indexList(self, key Object) (Object, error) {
	list := self.Data.([]Object)
	i, err := listIndex(key, len(list))
	if err != nil {
		return nil, err
	}
	return list[i], nil
}

func setIndexList(self, key, value Object) error {
	list := self.Data.([]Object)
	i, err := listIndex(key, len(list))
	if err != nil {
		return err
	}
	list[i] = value
	return nil
}

func iterList(self Object) (*Iterator, error) {
	list := self.Data.([]Object)
	return &Iterator{
		Len: len(list),
		Get: func(i int) Object { return list[i] },
	}, nil
}

func iterMutList(self Object) (*MutIterator, error) {
	list := self.Data.([]Object)
	return &MutIterator{
		Len: len(list),
		Get: func(i int) Object { return list[i] },
		Set: func(i int, v Object) error {
			list[i] = v
			return nil
		},
	}, nil
}

func insertList(self, value Object) error {
	list := self.Data.([]Object)
	self.Data = append(list, value)
	return nil
}

func replaceList(self, value Object) error {
	other, ok := AsList(value)
	if !ok {
		return fmt.Errorf("cannot replace 'list' with '%s'", TypeName(value))
	}
	self.Data = other
	return nil
}

func containsList(self, other Object) (bool, error) {
	for _, item := range self.Data.([]Object) {
		if Equals(item, other) {
			return true, nil
		}
	}
	return false, nil
}
