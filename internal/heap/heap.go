/*
File    : easyscript/internal/heap/heap.go
The uniform tagged-object idiom is grounded on go-mix's objects/objects.go
(a GoMixType tag per concrete Go struct); the allocate/reuse idiom is
grounded on CWBudde-go-dws's internal/interp/runtime/pool.go (a sync.Pool
per primitive kind, get/put with allocation counters) adapted here into a
single free-list shared by every tag, since EasyScript's heap is the
language's own collector rather than a latency optimization over Go's GC:
swept objects are recycled so the interpreter's allocation count reflects
the program's behavior, not Go's.
*/

// Package heap implements EasyScript's uniform value heap: every runtime
// value, including primitives, is an *Object reached only through the
// opaque Value handle, and the heap performs mark-and-sweep collection
// against a caller-supplied root set (spec.md §4.5).
package heap

import "github.com/akashmaji946/easyscript/internal/ast"

// Tag identifies the payload kind carried by an Object.
type Tag int

const (
	TagNil Tag = iota
	TagBool
	TagNumber
	TagString
	TagList
	TagMap
	TagFunction
	TagBoundMethod
)

// TypeName returns the built-in type() string for a tag, per spec.md §4.6.
func (t Tag) TypeName() string {
	switch t {
	case TagNil:
		return "nil"
	case TagBool:
		return "boolean"
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	case TagList:
		return "list"
	case TagMap:
		return "map"
	case TagFunction:
		return "function"
	case TagBoundMethod:
		return "method"
	default:
		return "unknown"
	}
}

// FrameTracer is the narrow interface the heap uses to trace a captured
// closure environment during mark without importing the environment
// package (which itself imports heap for the Value type).
type FrameTracer interface {
	TraceValues() []Value
	TraceParent() FrameTracer
}

// NativeFunc is the signature of a builtin implementation: it receives the
// Runtime (heap access for allocating results, GC, call-back) and the
// evaluated arguments. It is not given an environment frame.
type NativeFunc func(rt Runtime, args []Value) (Value, error)

// Runtime is the narrow slice of evaluator state a native function needs:
// heap access for allocation and GC, and the ability to call a Function or
// BoundMethod value. No builtin in this module calls CallValue.
type Runtime interface {
	Heap() *Heap
	CallValue(fn Value, args []Value) (Value, error)
	// GC runs a collection cycle rooted at whatever environment chain is
	// active for the in-flight call (spec.md §4.6's gc_collect builtin).
	GC() int
}

// mapKey is the canonical hashable projection of a primitive Value, used
// as the Go map key backing a Map object. Only string/number/boolean
// values admit one (spec.md §3.3's "restricted hashable subset").
type mapKey struct {
	tag  Tag
	bits uint64 // Number: math.Float64bits(n); Bool: 0/1
	str  string // String: the value itself
}

// mapData is a Map object's payload: parallel insertion-ordered key/value
// storage plus the canonical-key index used for lookup.
type mapData struct {
	order []mapKey
	keys  map[mapKey]Value
	vals  map[mapKey]Value
}

// functionData is shared by user-defined and native Function objects.
type functionData struct {
	name   string
	params []string
	body   *ast.Block
	env    FrameTracer // nil for native functions
	native NativeFunc  // nil for user functions
}

// boundMethodData pairs a receiver with the method name to dispatch at
// call time (spec.md §3.3).
type boundMethodData struct {
	receiver Value
	method   string
}

// Object is the payload every Value handle points to. Exactly one of the
// typed fields is meaningful, selected by Tag — this is Go's answer to a
// tagged union, following the one-struct-per-type idiom of go-mix's
// objects.go collapsed into a single reusable struct so the free-list can
// recycle any Object regardless of its previous tag.
type Object struct {
	marked bool
	tag    Tag

	num    float64
	str    string
	b      bool
	list   []Value
	mp     *mapData
	fn     *functionData
	bound  *boundMethodData
}

// Value is an opaque handle to a heap Object. Two Values are the same
// object iff they are the same pointer; structural equality/hashing goes
// through Equal and the map-key machinery below, not pointer identity.
type Value = *Object

// Tag reports the payload kind of v.
func (v *Object) Tag() Tag { return v.tag }

// AsNumber returns the Number payload. Callers must check Tag() == TagNumber.
func (v *Object) AsNumber() float64 { return v.num }

// AsString returns the String payload. Callers must check Tag() == TagString.
func (v *Object) AsString() string { return v.str }

// AsBool returns the Boolean payload. Callers must check Tag() == TagBool.
func (v *Object) AsBool() bool { return v.b }

// AsList returns the List payload slice directly (mutations through the
// returned slice header's backing array are visible to the object; use
// ListPush et al. to also handle growth correctly).
func (v *Object) AsList() []Value { return v.list }

// FunctionName returns a Function object's declared name, or "" if
// anonymous or native.
func (v *Object) FunctionName() string { return v.fn.name }

// FunctionParams returns a user Function's parameter names.
func (v *Object) FunctionParams() []string { return v.fn.params }

// FunctionBody returns a user Function's body block.
func (v *Object) FunctionBody() *ast.Block { return v.fn.body }

// FunctionEnv returns a user Function's captured environment, or nil for
// native functions.
func (v *Object) FunctionEnv() FrameTracer { return v.fn.env }

// IsNative reports whether a Function object wraps a Go implementation.
func (v *Object) IsNative() bool { return v.fn.native != nil }

// CallNative invokes a native Function's implementation directly.
func (v *Object) CallNative(rt Runtime, args []Value) (Value, error) {
	return v.fn.native(rt, args)
}

// BoundReceiver returns a BoundMethod's receiver.
func (v *Object) BoundReceiver() Value { return v.bound.receiver }

// BoundMethodName returns a BoundMethod's method name.
func (v *Object) BoundMethodName() string { return v.bound.method }

// Stats tracks allocation/collection counters; alloc and Collect update
// it, and nothing in the interpreter reads it.
type Stats struct {
	Allocations int
	Collections int
	LastFreed   int
	TotalFreed  int
}

// Heap owns every live Object and performs mark-and-sweep collection. It
// is not safe for concurrent use — EasyScript is single-threaded and
// cooperative by design (spec.md §5).
type Heap struct {
	objects  []*Object
	freelist []*Object
	Stats    Stats
}

// New creates an empty Heap.
func New() *Heap { return &Heap{} }

// alloc obtains a zeroed Object, reusing one from the free-list (left
// behind by the last Collect) when available, and tracks it for the next
// sweep.
func (h *Heap) alloc(tag Tag) *Object {
	var obj *Object
	if n := len(h.freelist); n > 0 {
		obj = h.freelist[n-1]
		h.freelist = h.freelist[:n-1]
		*obj = Object{}
	} else {
		obj = &Object{}
	}
	obj.tag = tag
	h.objects = append(h.objects, obj)
	h.Stats.Allocations++
	return obj
}

// NewNil allocates the nil value.
func (h *Heap) NewNil() Value { return h.alloc(TagNil) }

// NewBool allocates a boolean value.
func (h *Heap) NewBool(b bool) Value {
	v := h.alloc(TagBool)
	v.b = b
	return v
}

// NewNumber allocates a number value.
func (h *Heap) NewNumber(n float64) Value {
	v := h.alloc(TagNumber)
	v.num = n
	return v
}

// NewString allocates a string value.
func (h *Heap) NewString(s string) Value {
	v := h.alloc(TagString)
	v.str = s
	return v
}

// NewList allocates a list value from the given elements (copied; the
// caller's slice is not aliased).
func (h *Heap) NewList(elems []Value) Value {
	v := h.alloc(TagList)
	v.list = append([]Value(nil), elems...)
	return v
}

// NewEmptyMap allocates an empty map value.
func (h *Heap) NewEmptyMap() Value {
	v := h.alloc(TagMap)
	v.mp = &mapData{keys: make(map[mapKey]Value), vals: make(map[mapKey]Value)}
	return v
}

// NewUserFunction allocates a closure: a user-defined function together
// with the environment frame active at its definition.
func (h *Heap) NewUserFunction(name string, params []string, body *ast.Block, env FrameTracer) Value {
	v := h.alloc(TagFunction)
	v.fn = &functionData{name: name, params: params, body: body, env: env}
	return v
}

// NewNativeFunction allocates a builtin free function as a first-class
// Function value, so identifier lookup and Call dispatch treat builtins
// uniformly with user functions (spec.md §4.3's "Native function" case).
func (h *Heap) NewNativeFunction(name string, params []string, fn NativeFunc) Value {
	v := h.alloc(TagFunction)
	v.fn = &functionData{name: name, params: params, native: fn}
	return v
}

// NewBoundMethod allocates a BoundMethod bundling receiver and method name.
func (h *Heap) NewBoundMethod(receiver Value, method string) Value {
	v := h.alloc(TagBoundMethod)
	v.bound = &boundMethodData{receiver: receiver, method: method}
	return v
}

// Collect runs one mark-and-sweep cycle rooted at roots and returns the
// number of objects freed. Unreachable objects are reset and returned to
// the free-list for reuse by future allocations.
func (h *Heap) Collect(roots []Value) int {
	for _, obj := range h.objects {
		obj.marked = false
	}
	for _, r := range roots {
		mark(r)
	}

	kept := h.objects[:0]
	freed := 0
	for _, obj := range h.objects {
		if obj.marked {
			kept = append(kept, obj)
			continue
		}
		*obj = Object{}
		h.freelist = append(h.freelist, obj)
		freed++
	}
	h.objects = kept

	h.Stats.Collections++
	h.Stats.LastFreed = freed
	h.Stats.TotalFreed += freed
	return freed
}

// Live returns the number of objects currently tracked by the heap
// (marked or not — i.e. the set swept over by the next Collect).
func (h *Heap) Live() int { return len(h.objects) }

// mark marks v and recursively traces its children, stopping at anything
// already marked (this is what keeps tracing finite in the presence of
// environment reference cycles described in spec.md §3.3).
func mark(v Value) {
	if v == nil || v.marked {
		return
	}
	v.marked = true
	switch v.tag {
	case TagList:
		for _, e := range v.list {
			mark(e)
		}
	case TagMap:
		for _, k := range v.mp.order {
			mark(v.mp.keys[k])
			mark(v.mp.vals[k])
		}
	case TagFunction:
		if v.fn.env != nil {
			markFrame(v.fn.env)
		}
	case TagBoundMethod:
		mark(v.bound.receiver)
	}
}

// markFrame walks a captured environment frame chain, marking every bound
// value, parent-ward (spec.md §4.5 step 2).
func markFrame(f FrameTracer) {
	for f != nil {
		for _, v := range f.TraceValues() {
			mark(v)
		}
		f = f.TraceParent()
	}
}
