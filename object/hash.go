package object

import (
	"fmt"
	"io"
)

// hashData backs a hash Object: a string-keyed map plus an insertion-
// order key list. Order isn't required by the language (format's order
// is explicitly unspecified) but keeping it makes rendering deterministic
// for tests and REPL output.
type hashData struct {
	pairs map[string]Object
	keys  []string
}

func (h *hashData) get(key string) (Object, bool) {
	v, ok := h.pairs[key]
	return v, ok
}

func (h *hashData) set(key string, value Object) {
	if _, exists := h.pairs[key]; !exists {
		h.keys = append(h.keys, key)
	}
	h.pairs[key] = value
}

// MakeHash wraps field pairs (in the given order) as a hash Object.
func MakeHash(fields []HashField) Object {
	h := &hashData{pairs: make(map[string]Object, len(fields))}
	for _, f := range fields {
		h.set(f.Name, f.Value)
	}
	return &Cell{Rc: 1, Typ: HashType, Data: h}
}

// HashField is one name/value pair used to build a hash Object.
type HashField struct {
	Name  string
	Value Object
}

// AsHash unwraps obj's backing data, reporting whether it was a hash.
func AsHash(obj Object) (pairs map[string]Object, keys []string, ok bool) {
	if obj == nil || obj.Typ != HashType {
		return nil, nil, false
	}
	h := obj.Data.(*hashData)
	return h.pairs, h.keys, true
}

func formatHash(self Object, w io.Writer) error {
	h := self.Data.(*hashData)
	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	for i, k := range h.keys {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s: ", k); err != nil {
			return err
		}
		if err := Format(h.pairs[k], w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}")
	return err
}

func hashKey(key Object) (string, error) {
	k, ok := AsStr(key)
	if !ok {
		return "", fmt.Errorf("hash index must be 'str', not '%s'", TypeName(key))
	}
	return k, nil
}

func indexHash(self, key Object) (Object, error) {
	k, err := hashKey(key)
	if err != nil {
		return nil, err
	}
	return fieldHash(self, k)
}

func setIndexHash(self, key, value Object) error {
	k, err := hashKey(key)
	if err != nil {
		return err
	}
	return setFieldHash(self, k, value)
}

func fieldHash(self Object, name string) (Object, error) {
	h := self.Data.(*hashData)
	v, ok := h.get(name)
	if !ok {
		return nil, fmt.Errorf("field '%s' is not found", name)
	}
	return v, nil
}

func setFieldHash(self Object, name string, value Object) error {
	self.Data.(*hashData).set(name, value)
	return nil
}

func containsHash(self, other Object) (bool, error) {
	h := self.Data.(*hashData)
	key, ok := AsStr(other)
	if !ok {
		return false, nil
	}
	_, found := h.get(key)
	return found, nil
}
