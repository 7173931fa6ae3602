/*
File    : easyscript/internal/builtins/builtins.go
Registry shape (free functions as a name-keyed table, each a Go closure
over *heap.Heap) is grounded on go-mix's std/builtins.go
(Builtin{Name,Callback}), adapted here so every builtin is itself a
first-class Function Value bound into the root environment frame, per
spec.md §4.3's "native function" Call case, rather than special-cased by
the evaluator.
*/

// Package builtins registers EasyScript's global free functions and its
// per-type method tables (string/list/map), both implemented as
// heap.NativeFunc closures.
package builtins

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/akashmaji946/easyscript/internal/environment"
	"github.com/akashmaji946/easyscript/internal/heap"
)

// argError is a plain error; the evaluator wraps it into a positioned
// *errs.RuntimeError at the call site.
func argError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

func checkArgc(name string, args []heap.Value, want int) error {
	if len(args) != want {
		return argError("%s() expects %d argument(s), got %d", name, want, len(args))
	}
	return nil
}

// RegisterGlobals binds every global builtin into root. stdout/stdin
// drive print()/input(); the CLI and REPL entry points pass os.Stdout and
// a buffered os.Stdin respectively.
func RegisterGlobals(h *heap.Heap, root *environment.Frame, stdout io.Writer, stdin *bufio.Reader) {
	def := func(name string, params []string, fn heap.NativeFunc) {
		root.Define(name, h.NewNativeFunction(name, params, fn))
	}

	def("print", nil, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = heap.Display(a)
		}
		fmt.Fprintln(stdout, strings.Join(parts, " "))
		return rt.Heap().NewNil(), nil
	})

	def("len", []string{"x"}, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if err := checkArgc("len", args, 1); err != nil {
			return nil, err
		}
		n, err := lengthOf(args[0])
		if err != nil {
			return nil, err
		}
		return rt.Heap().NewNumber(float64(n)), nil
	})

	def("type", []string{"x"}, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if err := checkArgc("type", args, 1); err != nil {
			return nil, err
		}
		return rt.Heap().NewString(args[0].Tag().TypeName()), nil
	})

	def("str", []string{"x"}, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if err := checkArgc("str", args, 1); err != nil {
			return nil, err
		}
		return rt.Heap().NewString(heap.Display(args[0])), nil
	})

	def("repr", []string{"x"}, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if err := checkArgc("repr", args, 1); err != nil {
			return nil, err
		}
		return rt.Heap().NewString(heap.Repr(args[0])), nil
	})

	def("num", []string{"x"}, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if err := checkArgc("num", args, 1); err != nil {
			return nil, err
		}
		return numOf(rt.Heap(), args[0])
	})

	def("bool", []string{"x"}, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if err := checkArgc("bool", args, 1); err != nil {
			return nil, err
		}
		return rt.Heap().NewBool(heap.Truthy(args[0])), nil
	})

	def("input", []string{"prompt"}, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if len(args) > 1 {
			return nil, argError("input() expects 0 or 1 argument(s), got %d", len(args))
		}
		if len(args) == 1 {
			fmt.Fprint(stdout, heap.Display(args[0]))
		}
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return nil, argError("input(): %s", err.Error())
		}
		return rt.Heap().NewString(strings.TrimRight(line, "\r\n")), nil
	})

	def("gc_collect", nil, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if err := checkArgc("gc_collect", args, 0); err != nil {
			return nil, err
		}
		return rt.Heap().NewNumber(float64(rt.GC())), nil
	})

	def("make_map", []string{"pairs"}, func(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
		if err := checkArgc("make_map", args, 1); err != nil {
			return nil, err
		}
		return makeMap(rt.Heap(), args[0])
	})
}

func lengthOf(v heap.Value) (int, error) {
	switch v.Tag() {
	case heap.TagString:
		return len(v.AsString()), nil
	case heap.TagList:
		return heap.ListLen(v), nil
	case heap.TagMap:
		return heap.MapLen(v), nil
	default:
		return 0, argError("len() requires a string, list, or map, got %s", v.Tag().TypeName())
	}
}

// numOf is total (spec.md §4.6, original_source/native.rs's num_fn):
// number returns itself, boolean becomes 0/1, nil becomes 0, a string
// parses or falls back to nil, and every other type is nil.
func numOf(h *heap.Heap, v heap.Value) (heap.Value, error) {
	switch v.Tag() {
	case heap.TagNumber:
		return v, nil
	case heap.TagBool:
		if v.AsBool() {
			return h.NewNumber(1), nil
		}
		return h.NewNumber(0), nil
	case heap.TagNil:
		return h.NewNumber(0), nil
	case heap.TagString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.AsString()), 64)
		if err != nil {
			return h.NewNil(), nil
		}
		return h.NewNumber(n), nil
	default:
		return h.NewNil(), nil
	}
}

// makeMap builds a Map from a list of two-element [key, value] lists
// (spec.md §4.6's make_map(list_of_two_element_lists)).
func makeMap(h *heap.Heap, pairs heap.Value) (heap.Value, error) {
	if pairs.Tag() != heap.TagList {
		return nil, argError("make_map() expects a list of two-element lists, got %s", pairs.Tag().TypeName())
	}
	m := h.NewEmptyMap()
	for i, pair := range pairs.AsList() {
		if pair.Tag() != heap.TagList || heap.ListLen(pair) != 2 {
			return nil, argError("make_map(): element %d is not a two-element list", i)
		}
		key, _ := heap.ListGet(pair, 0)
		val, _ := heap.ListGet(pair, 1)
		if err := heap.MapSet(m, key, val); err != nil {
			return nil, argError("make_map(): %s", err.Error())
		}
	}
	return m, nil
}

// LookupMethod resolves a bound-method call: tag is the receiver's type,
// name the method name. args[0] is always the receiver; args[1:] are the
// call's own arguments (spec.md's "bound method" dispatch).
func LookupMethod(tag heap.Tag, name string) (heap.NativeFunc, bool) {
	var table map[string]heap.NativeFunc
	switch tag {
	case heap.TagString:
		table = stringMethods
	case heap.TagList:
		table = listMethods
	case heap.TagMap:
		table = mapMethods
	default:
		return nil, false
	}
	fn, ok := table[name]
	return fn, ok
}
