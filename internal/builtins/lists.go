/*
File    : easyscript/internal/builtins/lists.go
push/pop/remove/insert as in-place-mutating methods (push returns the
list, pop and remove return the removed element, insert returns nil) and
join returning a new string, grounded on go-mix's objects/builtins.go commonMethods
idiom (a receiver-as-first-argument table) applied to EasyScript's list
value (spec.md §4.6).
*/

package builtins

import (
	"strings"

	"github.com/akashmaji946/easyscript/internal/heap"
)

var listMethods = map[string]heap.NativeFunc{
	"len":    listLen,
	"push":   listPush,
	"pop":    listPop,
	"remove": listRemove,
	"insert": listInsert,
	"join":   listJoin,
}

func receiverList(method string, args []heap.Value) (heap.Value, error) {
	if len(args) == 0 || args[0].Tag() != heap.TagList {
		return nil, argError("%s() receiver must be a list", method)
	}
	return args[0], nil
}

func indexArg(method string, v heap.Value) (int, error) {
	if v.Tag() != heap.TagNumber {
		return 0, argError("%s() index must be a number", method)
	}
	return int(v.AsNumber()), nil
}

func listLen(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	l, err := receiverList("len", args)
	if err != nil {
		return nil, err
	}
	return rt.Heap().NewNumber(float64(heap.ListLen(l))), nil
}

func listPush(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	l, err := receiverList("push", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("push", args[1:], 1); err != nil {
		return nil, err
	}
	heap.ListPush(l, args[1])
	return l, nil
}

func listPop(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	l, err := receiverList("pop", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("pop", args[1:], 0); err != nil {
		return nil, err
	}
	v, ok := heap.ListPop(l)
	if !ok {
		return nil, argError("pop() on an empty list")
	}
	return v, nil
}

func listRemove(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	l, err := receiverList("remove", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("remove", args[1:], 1); err != nil {
		return nil, err
	}
	idx, err := indexArg("remove", args[1])
	if err != nil {
		return nil, err
	}
	v, ok := heap.ListRemove(l, idx)
	if !ok {
		return nil, argError("remove(%d) out of range for a list of length %d", idx, heap.ListLen(l))
	}
	return v, nil
}

func listInsert(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	l, err := receiverList("insert", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("insert", args[1:], 2); err != nil {
		return nil, err
	}
	idx, err := indexArg("insert", args[1])
	if err != nil {
		return nil, err
	}
	if !heap.ListInsert(l, idx, args[2]) {
		return nil, argError("insert(%d) out of range for a list of length %d", idx, heap.ListLen(l))
	}
	return rt.Heap().NewNil(), nil
}

func listJoin(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	l, err := receiverList("join", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("join", args[1:], 1); err != nil {
		return nil, err
	}
	if args[1].Tag() != heap.TagString {
		return nil, argError("join() separator must be a string")
	}
	sep := args[1].AsString()
	elems := l.AsList()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = heap.Display(e)
	}
	return rt.Heap().NewString(strings.Join(parts, sep)), nil
}
