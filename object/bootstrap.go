package object

import (
	"fmt"
	"io"
)

// TypeType is the type whose type is itself: type.type = type. It is
// allocated with a temporarily dangling Typ pointer and patched to point
// at itself before any other type is created, the same two-step fixed
// point the reference implementation uses (allocate, then fix up).
var TypeType = newTypeType()

func newTypeType() Object {
	cell := &Cell{Rc: 1}
	cell.Data = &Type{
		Name: "type",
		Format: func(self Object, w io.Writer) error {
			_, err := fmt.Fprint(w, typeData(self).Name)
			return err
		},
	}
	cell.Typ = cell // the fixed point
	return cell
}

// newType allocates a type Object with the given method table.
func newType(t *Type) Object {
	return &Cell{Rc: 1, Typ: TypeType, Data: t}
}

var (
	NullType Object
	BoolType Object
	I64Type  Object
	F64Type  Object
	StrType  Object
	ListType Object
	HashType Object
	FuncType Object
)

// init populates the built-in types after all package-level declarations
// exist. This is required because the method tables below reference
// functions (compareBool, AsBool, ...) that in turn refer back to these
// same type variables, which would otherwise be an initialization cycle.
func init() {
	NullType = newType(&Type{Name: "null", Format: formatNull})
	BoolType = newType(&Type{Name: "bool", Format: formatBool, Compare: compareBool})
	I64Type = newType(&Type{
		Name:       "i64",
		Format:     formatI64,
		Compare:    compareI64,
		Arithmetic: i64Arithmetic,
	})
	F64Type = newType(&Type{
		Name:       "f64",
		Format:     formatF64,
		Compare:    compareF64,
		Arithmetic: f64Arithmetic,
	})
	StrType = newType(&Type{
		Name:     "str",
		Format:   formatStr,
		Compare:  compareStr,
		Contains: containsStr,
	})
	ListType = newType(&Type{
		Name:     "list",
		Format:   formatList,
		Index:    indexList,
		SetIndex: setIndexList,
		Iter:     iterList,
		IterMut:  iterMutList,
		Insert:   insertList,
		Replace:  replaceList,
		Contains: containsList,
	})
	HashType = newType(&Type{
		Name:     "hash",
		Format:   formatHash,
		Index:    indexHash,
		SetIndex: setIndexHash,
		Field:    fieldHash,
		SetField: setFieldHash,
		Contains: containsHash,
	})
	FuncType = newType(&Type{Name: "func", Call: callFunc})
	Null = &Cell{Rc: 1, Typ: NullType, Data: nil}
}

// Null is the single shared null value. It is built in init, after
// NullType exists.
var Null Object
