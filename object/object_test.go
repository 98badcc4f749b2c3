package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeTypeFixedPoint(t *testing.T) {
	assert.Same(t, TypeType, TypeType.Typ)
	assert.Equal(t, "type", TypeName(TypeType))
}

func TestBuiltinTypesAreTypeTyped(t *testing.T) {
	for _, typ := range []Object{NullType, BoolType, I64Type, F64Type, StrType, ListType, HashType, FuncType} {
		assert.Same(t, TypeType, typ.Typ)
	}
}

func TestI64Arithmetic(t *testing.T) {
	sum, err := Add(MakeI64(2), MakeI64(3))
	require.NoError(t, err)
	v, ok := AsI64(sum)
	require.True(t, ok)
	assert.Equal(t, int64(5), v)
}

func TestI64DivisionByZero(t *testing.T) {
	_, err := Div(MakeI64(1), MakeI64(0))
	assert.Error(t, err)
}

func TestStrDoesNotSupportAdd(t *testing.T) {
	_, err := Add(MakeStr("hi "), MakeStr("there"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'str' does not support '+' operation")
}

func TestListIndexNegative(t *testing.T) {
	list := MakeList([]Object{MakeI64(1), MakeI64(2), MakeI64(3)})
	v, err := Index(list, MakeI64(-1))
	require.NoError(t, err)
	n, _ := AsI64(v)
	assert.Equal(t, int64(3), n)
}

func TestListIndexOutOfBounds(t *testing.T) {
	list := MakeList([]Object{MakeI64(1)})
	_, err := Index(list, MakeI64(5))
	assert.Error(t, err)
}

func TestHashFieldAndIndex(t *testing.T) {
	h := MakeHash([]HashField{{Name: "v", Value: MakeI64(1)}})
	v, err := Field(h, "v")
	require.NoError(t, err)
	n, _ := AsI64(v)
	assert.Equal(t, int64(1), n)

	require.NoError(t, SetIndex(h, MakeStr("v"), MakeI64(9)))
	v2, _ := Field(h, "v")
	n2, _ := AsI64(v2)
	assert.Equal(t, int64(9), n2)
}

func TestContainsListAndStr(t *testing.T) {
	list := MakeList([]Object{MakeStr("a"), MakeStr("b"), MakeStr("c")})
	ok, err := Contains(list, MakeStr("b"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok2, err := Contains(MakeStr("hello"), MakeStr("ell"))
	require.NoError(t, err)
	assert.True(t, ok2)
}

func TestEqualsStructural(t *testing.T) {
	a := MakeList([]Object{MakeI64(1), MakeI64(2)})
	b := MakeList([]Object{MakeI64(1), MakeI64(2)})
	assert.True(t, Equals(a, b))
}
