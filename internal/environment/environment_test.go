/*
File    : easyscript/internal/environment/environment_test.go
Grounded on go-mix's scope/scope_test.go table-driven/testify style.
*/
package environment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/easyscript/internal/heap"
)

func TestDefineAndGet(t *testing.T) {
	h := heap.New()
	f := NewRoot()
	f.Define("x", h.NewNumber(1))

	v, ok := f.Get("x")
	require.True(t, ok)
	require.Equal(t, 1.0, v.AsNumber())
}

func TestGet_FallsThroughToParent(t *testing.T) {
	h := heap.New()
	parent := NewRoot()
	parent.Define("x", h.NewNumber(1))
	child := NewChild(parent)

	v, ok := child.Get("x")
	require.True(t, ok)
	require.Equal(t, 1.0, v.AsNumber())
}

func TestDefine_ShadowsParent(t *testing.T) {
	h := heap.New()
	parent := NewRoot()
	parent.Define("x", h.NewNumber(1))
	child := NewChild(parent)
	child.Define("x", h.NewNumber(2))

	v, _ := child.Get("x")
	require.Equal(t, 2.0, v.AsNumber())
	pv, _ := parent.Get("x")
	require.Equal(t, 1.0, pv.AsNumber())
}

func TestAssign_MutatesDefiningFrame(t *testing.T) {
	h := heap.New()
	parent := NewRoot()
	parent.Define("x", h.NewNumber(1))
	child := NewChild(parent)

	require.NoError(t, child.Assign("x", h.NewNumber(9)))

	pv, _ := parent.Get("x")
	require.Equal(t, 9.0, pv.AsNumber())
}

func TestAssign_UndeclaredIsError(t *testing.T) {
	f := NewRoot()
	err := f.Assign("nope", nil)
	require.Error(t, err)
}

func TestClosureSharesLiveFrame(t *testing.T) {
	// Regression guard for the "reference, not snapshot" closure rule:
	// a child frame created after a value changes in the parent must see
	// the latest value, proving NewChild does not copy bindings.
	h := heap.New()
	parent := NewRoot()
	parent.Define("x", h.NewNumber(1))

	closureFrame := NewChild(parent)
	require.NoError(t, parent.Assign("x", h.NewNumber(2)))

	v, ok := closureFrame.Get("x")
	require.True(t, ok)
	require.Equal(t, 2.0, v.AsNumber())
}

func TestGet_MissingReturnsFalse(t *testing.T) {
	f := NewRoot()
	_, ok := f.Get("missing")
	require.False(t, ok)
}
