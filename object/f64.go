package object

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// MakeF64 wraps a Go float64 as an Object.
func MakeF64(v float64) Object {
	return &Cell{Rc: 1, Typ: F64Type, Data: v}
}

// AsF64 unwraps obj as a float64, reporting whether it was actually f64.
func AsF64(obj Object) (float64, bool) {
	if obj == nil || obj.Typ != F64Type {
		return 0, false
	}
	return obj.Data.(float64), true
}

func formatF64(self Object, w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatFloat(self.Data.(float64), 'g', -1, 64))
	return err
}

func compareF64(self, other Object) (Ordering, bool) {
	x := self.Data.(float64)
	y, ok := AsF64(other)
	if !ok || math.IsNaN(x) || math.IsNaN(y) {
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

var f64Arithmetic = Arithmetic{
	Neg: func(self Object) (Object, error) {
		return MakeF64(-self.Data.(float64)), nil
	},
	Add: f64BinOp("+", func(a, b float64) float64 { return a + b }),
	Sub: f64BinOp("-", func(a, b float64) float64 { return a - b }),
	Mul: f64BinOp("*", func(a, b float64) float64 { return a * b }),
	Div: f64BinOp("/", func(a, b float64) float64 { return a / b }),
	Rem: f64BinOp("%", func(a, b float64) float64 { return math.Mod(a, b) }),
}

func f64BinOp(op string, f func(a, b float64) float64) func(self, other Object) (Object, error) {
	return func(self, other Object) (Object, error) {
		a := self.Data.(float64)
		b, ok := AsF64(other)
		if !ok {
			return nil, fmt.Errorf("invalid operands for operator '%s': '%s' and '%s'", op, TypeName(self), TypeName(other))
		}
		return MakeF64(f(a, b)), nil
	}
}
