package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/gosetl/object"
)

func TestLookupWalksOutward(t *testing.T) {
	global := New()
	global.Define("x", object.MakeI64(1))
	child := global.Child()

	v, ok := child.Lookup("x")
	require.True(t, ok)
	n, _ := object.AsI64(v)
	assert.Equal(t, int64(1), n)
}

func TestDefineNeverWritesOuterFrame(t *testing.T) {
	global := New()
	global.Define("x", object.MakeI64(1))
	child := global.Child()
	child.Define("x", object.MakeI64(2))

	outerVal, _ := global.Lookup("x")
	n, _ := object.AsI64(outerVal)
	assert.Equal(t, int64(1), n, "writing in the child frame must not mutate the global binding")
}

func TestLookupMissing(t *testing.T) {
	s := New()
	_, ok := s.Lookup("nope")
	assert.False(t, ok)
}
