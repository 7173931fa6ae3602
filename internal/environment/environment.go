/*
File    : easyscript/internal/environment/environment.go
Frame shape (parent-linked map of bindings) is grounded on go-mix's
scope/scope.go Scope struct, but deliberately drops its Copy() method:
spec.md §3.4 requires a function literal's captured environment to be the
SAME frame chain the evaluator continues to mutate, not a snapshot, so
that a closure observes later writes to variables it captured. go-mix's
RegisterFunction comment ("Reference the current scope directly, not a
copy") already says as much; this package just never builds the copying
path in the first place.
*/

// Package environment implements EasyScript's lexical scope chain: a
// singly-parent-linked sequence of Frames holding heap.Value bindings.
package environment

import (
	"github.com/akashmaji946/easyscript/internal/errs"
	"github.com/akashmaji946/easyscript/internal/heap"
)

// Frame is one lexical scope: a block, function call, or for-loop iteration
// introduces a new child Frame. Frame implements heap.FrameTracer so the
// heap's collector can trace a closure's captured bindings without this
// package's Value type being anything but heap.Value.
type Frame struct {
	values map[string]heap.Value
	parent *Frame
}

// NewRoot creates the top-level Frame with no parent, for a program's
// global scope.
func NewRoot() *Frame {
	return &Frame{values: make(map[string]heap.Value)}
}

// NewChild creates a Frame whose lookups fall back to parent. parent is
// retained by reference — this is what gives closures live visibility
// into the frame they were defined in, per spec.md §3.4.
func NewChild(parent *Frame) *Frame {
	return &Frame{values: make(map[string]heap.Value), parent: parent}
}

// Define introduces name in this frame (shadowing any outer binding of the
// same name), per `let`'s semantics (spec.md §4.3).
func (f *Frame) Define(name string, v heap.Value) {
	f.values[name] = v
}

// Get looks up name starting at f and walking outward through parents.
func (f *Frame) Get(name string) (heap.Value, bool) {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign rebinds name in the nearest enclosing frame that already defines
// it (mutating in place, so closures sharing that frame observe the
// write), or returns a *errs.RuntimeError if name was never declared.
func (f *Frame) Assign(name string, v heap.Value) error {
	for fr := f; fr != nil; fr = fr.parent {
		if _, ok := fr.values[name]; ok {
			fr.values[name] = v
			return nil
		}
	}
	return errs.NewRuntimeError("undefined variable %q", name)
}

// TraceAll collects every Value bound anywhere in f's frame chain, for use
// as a GC root set (spec.md §4.5: "the caller's current environment
// chain — all frames from current to root").
func (f *Frame) TraceAll() []heap.Value {
	var out []heap.Value
	for fr := f; fr != nil; fr = fr.parent {
		for _, v := range fr.values {
			out = append(out, v)
		}
	}
	return out
}

// TraceValues implements heap.FrameTracer.
func (f *Frame) TraceValues() []heap.Value {
	out := make([]heap.Value, 0, len(f.values))
	for _, v := range f.values {
		out = append(out, v)
	}
	return out
}

// TraceParent implements heap.FrameTracer.
func (f *Frame) TraceParent() heap.FrameTracer {
	if f.parent == nil {
		return nil
	}
	return f.parent
}
