// Package object implements the language's uniform value representation:
// a reference-counted handle to a heap cell carrying a type and a payload,
// dynamic dispatch through a per-type method table, and the built-in
// types (null, bool, i64, f64, str, list, hash, func, type).
package object

import (
	"fmt"
	"io"
)

// Cell is the heap cell an Object handle points at. Object is simply
// *Cell: cloning a handle bumps Rc, dropping it releases — Go's own GC
// still owns the memory, Rc exists so the type-type fixed point and the
// "rc >= 1 while live" invariant remain assertable, as the language
// surface cannot construct reference cycles (no user closures, no
// mutable back-edges).
type Cell struct {
	Rc   int
	Typ  *Cell
	Data any
}

// Object is a shared handle to a Cell.
type Object = *Cell

// Retain increments the reference count and returns obj, mirroring
// Object::clone in the source this model is grounded on.
func Retain(obj Object) Object {
	if obj != nil {
		obj.Rc++
	}
	return obj
}

// Release decrements the reference count. It never frees anything —
// Go's collector does that — but it keeps the invariant checkable.
func Release(obj Object) {
	if obj != nil {
		obj.Rc--
	}
}

// Iterator is a read-only, length-bounded view produced by a type's Iter
// slot.
type Iterator struct {
	Len int
	Get func(i int) Object
}

// MutIterator additionally allows writing a slot back, produced by a
// type's IterMut slot.
type MutIterator struct {
	Len int
	Get func(i int) Object
	Set func(i int, v Object) error
}

// Ordering is the result of a successful Compare: -1, 0, or 1.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// Arithmetic is the sub-table of numeric/bitwise operators. A nil slot
// means the type doesn't support that operator.
type Arithmetic struct {
	Not func(self Object) (Object, error)
	Or  func(self, other Object) (Object, error)
	Xor func(self, other Object) (Object, error)
	And func(self, other Object) (Object, error)
	Shl func(self, other Object) (Object, error)
	Shr func(self, other Object) (Object, error)
	Neg func(self Object) (Object, error)
	Add func(self, other Object) (Object, error)
	Sub func(self, other Object) (Object, error)
	Mul func(self, other Object) (Object, error)
	Div func(self, other Object) (Object, error)
	Rem func(self, other Object) (Object, error)
}

// Type is a type's method table. Every type is itself an Object whose
// Data is a *Type.
type Type struct {
	Name       string
	Format     func(self Object, w io.Writer) error
	Call       func(self Object, args []Object) (Object, error)
	Index      func(self Object, key Object) (Object, error)
	SetIndex   func(self Object, key, value Object) error
	Field      func(self Object, name string) (Object, error)
	SetField   func(self Object, name string, value Object) error
	Compare    func(self, other Object) (Ordering, bool)
	Contains   func(self, other Object) (bool, error)
	Iter       func(self Object) (*Iterator, error)
	IterMut    func(self Object) (*MutIterator, error)
	Insert     func(self Object, value Object) error
	Replace    func(self Object, value Object) error
	Arithmetic Arithmetic
}

// TypeName returns the name of obj's type.
func TypeName(obj Object) string {
	return typeData(obj.Typ).Name
}

func typeData(typ Object) *Type {
	return typ.Data.(*Type)
}

// errNotSupported is the uniform "method table slot absent" error, worded
// per the operation it stands in for.
func errNotSupported(obj Object, op string) error {
	return fmt.Errorf("'%s' does not support '%s' operation", TypeName(obj), op)
}

// Format writes obj's display form to w, using its type's Format slot
// (or the default "<typename>" rendering when absent).
func Format(obj Object, w io.Writer) error {
	t := typeData(obj.Typ)
	if t.Format != nil {
		return t.Format(obj, w)
	}
	_, err := fmt.Fprintf(w, "<%s>", t.Name)
	return err
}

// String renders obj via Format into a string, for convenience at call
// sites that don't need a writer (error messages, REPL output).
func String(obj Object) string {
	var sb stringsBuilder
	_ = Format(obj, &sb)
	return sb.String()
}

// Call invokes obj as a callable, passing obj itself as the receiver.
func Call(obj Object, args []Object) (Object, error) {
	t := typeData(obj.Typ)
	if t.Call == nil {
		return nil, fmt.Errorf("'%s' is not callable", t.Name)
	}
	return t.Call(obj, args)
}

// Index reads obj[key].
func Index(obj, key Object) (Object, error) {
	t := typeData(obj.Typ)
	if t.Index == nil {
		return nil, fmt.Errorf("'%s' does not support indexing", t.Name)
	}
	return t.Index(obj, key)
}

// SetIndex writes obj[key] = value.
func SetIndex(obj, key, value Object) error {
	t := typeData(obj.Typ)
	if t.SetIndex == nil {
		return fmt.Errorf("'%s' does not support indexed assignment", t.Name)
	}
	return t.SetIndex(obj, key, value)
}

// Field reads obj.name.
func Field(obj Object, name string) (Object, error) {
	t := typeData(obj.Typ)
	if t.Field == nil {
		return nil, fmt.Errorf("'%s' has no field '%s'", t.Name, name)
	}
	return t.Field(obj, name)
}

// SetField writes obj.name = value.
func SetField(obj Object, name string, value Object) error {
	t := typeData(obj.Typ)
	if t.SetField == nil {
		return fmt.Errorf("'%s' does not support field assignment", t.Name)
	}
	return t.SetField(obj, name, value)
}

// Compare orders obj against other. ok is false when the types aren't
// comparable against each other.
func Compare(obj, other Object) (Ordering, bool) {
	t := typeData(obj.Typ)
	if t.Compare == nil {
		return 0, false
	}
	return t.Compare(obj, other)
}

// Contains tests whether obj (a container) contains other.
func Contains(obj, other Object) (bool, error) {
	t := typeData(obj.Typ)
	if t.Contains == nil {
		return false, fmt.Errorf("'%s' does not support membership testing", t.Name)
	}
	return t.Contains(obj, other)
}

// Iter returns a read-only iterator over obj.
func Iter(obj Object) (*Iterator, error) {
	t := typeData(obj.Typ)
	if t.Iter == nil {
		return nil, fmt.Errorf("'%s' is not iterable", t.Name)
	}
	return t.Iter(obj)
}

// IterMut returns a mutable iterator over obj.
func IterMut(obj Object) (*MutIterator, error) {
	t := typeData(obj.Typ)
	if t.IterMut == nil {
		return nil, fmt.Errorf("'%s' is not mutably iterable", t.Name)
	}
	return t.IterMut(obj)
}

// Insert appends value into the container obj.
func Insert(obj, value Object) error {
	t := typeData(obj.Typ)
	if t.Insert == nil {
		return fmt.Errorf("'%s' does not support insertion", t.Name)
	}
	return t.Insert(obj, value)
}

// Replace overwrites obj's entire payload with value's.
func Replace(obj, value Object) error {
	t := typeData(obj.Typ)
	if t.Replace == nil {
		return fmt.Errorf("'%s' does not support replacement", t.Name)
	}
	return t.Replace(obj, value)
}

// Equals is the equality relation used by RelOp::Eq/Ne and by list
// membership: two Objects are equal when their types agree on an Equal
// ordering. Containers without a defined ordering of their own (list,
// hash) fall back to recursive structural equality.
func Equals(a, b Object) bool {
	if ord, ok := Compare(a, b); ok {
		return ord == Equal
	}
	if a.Typ == ListType && b.Typ == ListType {
		as, bs := a.Data.([]Object), b.Data.([]Object)
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equals(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if a.Typ == HashType && b.Typ == HashType {
		am, bm := a.Data.(*hashData), b.Data.(*hashData)
		if len(am.keys) != len(bm.keys) {
			return false
		}
		for _, k := range am.keys {
			bv, ok := bm.get(k)
			if !ok || !Equals(am.pairs[k], bv) {
				return false
			}
		}
		return true
	}
	return a == b
}

func arith(obj Object) Arithmetic { return typeData(obj.Typ).Arithmetic }

func UnNot(obj Object) (Object, error) {
	if f := arith(obj).Not; f != nil {
		return f(obj)
	}
	return nil, errNotSupported(obj, "!")
}

func Neg(obj Object) (Object, error) {
	if f := arith(obj).Neg; f != nil {
		return f(obj)
	}
	return nil, errNotSupported(obj, "-")
}

func binArith(obj, other Object, name string, f func(self, other Object) (Object, error)) (Object, error) {
	if f != nil {
		return f(obj, other)
	}
	return nil, errNotSupported(obj, name)
}

func Or(obj, other Object) (Object, error)  { return binArith(obj, other, "|", arith(obj).Or) }
func Xor(obj, other Object) (Object, error) { return binArith(obj, other, "^", arith(obj).Xor) }
func And(obj, other Object) (Object, error) { return binArith(obj, other, "&", arith(obj).And) }
func Shl(obj, other Object) (Object, error) { return binArith(obj, other, "<<", arith(obj).Shl) }
func Shr(obj, other Object) (Object, error) { return binArith(obj, other, ">>", arith(obj).Shr) }
func Add(obj, other Object) (Object, error) { return binArith(obj, other, "+", arith(obj).Add) }
func Sub(obj, other Object) (Object, error) { return binArith(obj, other, "-", arith(obj).Sub) }
func Mul(obj, other Object) (Object, error) { return binArith(obj, other, "*", arith(obj).Mul) }
func Div(obj, other Object) (Object, error) { return binArith(obj, other, "/", arith(obj).Div) }
func Rem(obj, other Object) (Object, error) { return binArith(obj, other, "%", arith(obj).Rem) }

// stringsBuilder is a tiny io.Writer adapter so Format can be used both
// with a real writer and to build a string, without importing
// strings.Builder into every per-type file's signature.
type stringsBuilder struct {
	buf []byte
}

func (b *stringsBuilder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *stringsBuilder) String() string { return string(b.buf) }
