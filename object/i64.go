package object

import (
	"fmt"
	"io"
)

// MakeI64 wraps a Go int64 as an Object.
func MakeI64(v int64) Object {
	return &Cell{Rc: 1, Typ: I64Type, Data: v}
}

// AsI64 unwraps obj as an int64, reporting whether it was actually i64.
func AsI64(obj Object) (int64, bool) {
	if obj == nil || obj.Typ != I64Type {
		return 0, false
	}
	return obj.Data.(int64), true
}

func formatI64(self Object, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d", self.Data.(int64))
	return err
}

func compareI64(self, other Object) (Ordering, bool) {
	x := self.Data.(int64)
	y, ok := AsI64(other)
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

var i64Arithmetic = Arithmetic{
	Neg: func(self Object) (Object, error) {
		return MakeI64(-self.Data.(int64)), nil
	},
	Not: func(self Object) (Object, error) {
		return MakeI64(^self.Data.(int64)), nil
	},
	Add: i64BinOp("+", func(a, b int64) (int64, error) { return a + b, nil }),
	Sub: i64BinOp("-", func(a, b int64) (int64, error) { return a - b, nil }),
	Mul: i64BinOp("*", func(a, b int64) (int64, error) { return a * b, nil }),
	Div: i64BinOp("/", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	}),
	Rem: i64BinOp("%", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a % b, nil
	}),
	Or:  i64BinOp("|", func(a, b int64) (int64, error) { return a | b, nil }),
	Xor: i64BinOp("^", func(a, b int64) (int64, error) { return a ^ b, nil }),
	And: i64BinOp("&", func(a, b int64) (int64, error) { return a & b, nil }),
	Shl: i64BinOp("<<", func(a, b int64) (int64, error) { return a << uint64(b), nil }),
	Shr: i64BinOp(">>", func(a, b int64) (int64, error) { return a >> uint64(b), nil }),
}

func i64BinOp(op string, f func(a, b int64) (int64, error)) func(self, other Object) (Object, error) {
	return func(self, other Object) (Object, error) {
		a := self.Data.(int64)
		b, ok := AsI64(other)
		if !ok {
			return nil, fmt.Errorf("invalid operands for operator '%s': '%s' and '%s'", op, TypeName(self), TypeName(other))
		}
		v, err := f(a, b)
		if err != nil {
			return nil, err
		}
		return MakeI64(v), nil
	}
}
