/*
File    : easyscript/internal/heap/heap_test.go
Table-driven/testify style grounded on go-mix's objects/objects_test.go.
*/
package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqual_NumberBitPattern(t *testing.T) {
	h := New()
	a := h.NewNumber(1.5)
	b := h.NewNumber(1.5)
	require.True(t, Equal(a, b))

	nan1 := h.NewNumber(nan())
	nan2 := h.NewNumber(nan())
	require.True(t, Equal(nan1, nan2), "NaN equals NaN under bit-pattern equality")
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestEqual_StringByteIdentical(t *testing.T) {
	h := New()
	require.True(t, Equal(h.NewString("abc"), h.NewString("abc")))
	require.False(t, Equal(h.NewString("abc"), h.NewString("abd")))
}

func TestEqual_ListStructural(t *testing.T) {
	h := New()
	a := h.NewList([]Value{h.NewNumber(1), h.NewString("x")})
	b := h.NewList([]Value{h.NewNumber(1), h.NewString("x")})
	require.True(t, Equal(a, b))

	c := h.NewList([]Value{h.NewNumber(1), h.NewString("y")})
	require.False(t, Equal(a, c))
}

func TestEqual_FunctionIdentityOnly(t *testing.T) {
	h := New()
	f1 := h.NewNativeFunction("f", nil, func(Runtime, []Value) (Value, error) { return nil, nil })
	f2 := h.NewNativeFunction("f", nil, func(Runtime, []Value) (Value, error) { return nil, nil })
	require.False(t, Equal(f1, f2))
	require.True(t, Equal(f1, f1))
}

func TestTruthy(t *testing.T) {
	h := New()
	require.False(t, Truthy(h.NewNil()))
	require.False(t, Truthy(h.NewBool(false)))
	require.True(t, Truthy(h.NewBool(true)))
	require.False(t, Truthy(h.NewNumber(0)))
	require.False(t, Truthy(h.NewString("")))
	require.False(t, Truthy(h.NewList(nil)))
}

func TestMap_SetGetHasKeyOrder(t *testing.T) {
	h := New()
	m := h.NewEmptyMap()
	require.NoError(t, MapSet(m, h.NewString("b"), h.NewNumber(2)))
	require.NoError(t, MapSet(m, h.NewString("a"), h.NewNumber(1)))
	require.NoError(t, MapSet(m, h.NewString("b"), h.NewNumber(22))) // overwrite, no reorder

	require.Equal(t, 2, MapLen(m))
	v, ok := MapGet(m, h.NewString("a"))
	require.True(t, ok)
	require.Equal(t, 1.0, v.AsNumber())

	v, ok = MapGet(m, h.NewString("b"))
	require.True(t, ok)
	require.Equal(t, 22.0, v.AsNumber())

	keys := MapKeys(m)
	require.Len(t, keys, 2)
	require.Equal(t, "b", keys[0].AsString())
	require.Equal(t, "a", keys[1].AsString())

	require.True(t, MapHasKey(m, h.NewString("a")))
	require.False(t, MapHasKey(m, h.NewString("z")))
}

func TestMap_UnhashableKeyRejected(t *testing.T) {
	h := New()
	m := h.NewEmptyMap()
	err := MapSet(m, h.NewList(nil), h.NewNumber(1))
	require.Error(t, err)
}

func TestDisplay_TopLevelStringUnquotedNestedQuoted(t *testing.T) {
	h := New()
	s := h.NewString("hi")
	require.Equal(t, "hi", Display(s))
	require.Equal(t, `"hi"`, Repr(s))

	list := h.NewList([]Value{h.NewString("hi"), h.NewNumber(5)})
	require.Equal(t, `["hi", 5]`, Display(list))
	require.Equal(t, `["hi", 5]`, Repr(list))
}

func TestFormatNumber_IntegralTrimsFraction(t *testing.T) {
	require.Equal(t, "5", FormatNumber(5.0))
	require.Equal(t, "-3", FormatNumber(-3.0))
	require.Equal(t, "3.14", FormatNumber(3.14))
}

func TestCollect_FreesUnreachable(t *testing.T) {
	h := New()
	root := h.NewString("kept")
	_ = h.NewString("garbage")
	require.Equal(t, 2, h.Live())

	freed := h.Collect([]Value{root})
	require.Equal(t, 1, freed)
	require.Equal(t, 1, h.Live())
}

func TestCollect_TracesListChildren(t *testing.T) {
	h := New()
	inner := h.NewString("inner")
	list := h.NewList([]Value{inner})
	_ = h.NewString("garbage")

	freed := h.Collect([]Value{list})
	require.Equal(t, 1, freed)
	require.Equal(t, 2, h.Live()) // list + inner survive
}

func TestCollect_NoRootsFreesEverything(t *testing.T) {
	h := New()
	h.NewString("a")
	h.NewString("b")
	freed := h.Collect(nil)
	require.Equal(t, 2, freed)
	require.Equal(t, 0, h.Live())
}

func TestAllocate_ReusesFreelistSlot(t *testing.T) {
	h := New()
	g := h.NewString("garbage")
	h.Collect(nil)
	require.Equal(t, 0, h.Live())

	v := h.NewNumber(42)
	require.Same(t, g, v)
	require.Equal(t, TagNumber, v.Tag())
	require.Equal(t, 42.0, v.AsNumber())
}

type fakeFrame struct {
	values []Value
	parent *fakeFrame
}

func (f *fakeFrame) TraceValues() []Value { return f.values }
func (f *fakeFrame) TraceParent() FrameTracer {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func TestCollect_TracesClosureEnvironment(t *testing.T) {
	h := New()
	captured := h.NewString("captured")
	env := &fakeFrame{values: []Value{captured}}
	fn := h.NewUserFunction("f", []string{"x"}, nil, env)
	_ = h.NewString("garbage")

	freed := h.Collect([]Value{fn})
	require.Equal(t, 1, freed)
	require.Equal(t, 2, h.Live()) // fn + captured survive
}
