/*
File    : easyscript/internal/builtins/maps.go
keys/values/len/has_key as read-only methods over the heap package's
insertion-ordered Map payload (spec.md §4.6).
*/

package builtins

import "github.com/akashmaji946/easyscript/internal/heap"

var mapMethods = map[string]heap.NativeFunc{
	"keys":    mapKeysMethod,
	"values":  mapValuesMethod,
	"len":     mapLenMethod,
	"has_key": mapHasKeyMethod,
}

func receiverMap(method string, args []heap.Value) (heap.Value, error) {
	if len(args) == 0 || args[0].Tag() != heap.TagMap {
		return nil, argError("%s() receiver must be a map", method)
	}
	return args[0], nil
}

func mapKeysMethod(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	m, err := receiverMap("keys", args)
	if err != nil {
		return nil, err
	}
	return rt.Heap().NewList(heap.MapKeys(m)), nil
}

func mapValuesMethod(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	m, err := receiverMap("values", args)
	if err != nil {
		return nil, err
	}
	return rt.Heap().NewList(heap.MapValues(m)), nil
}

func mapLenMethod(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	m, err := receiverMap("len", args)
	if err != nil {
		return nil, err
	}
	return rt.Heap().NewNumber(float64(heap.MapLen(m))), nil
}

func mapHasKeyMethod(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	m, err := receiverMap("has_key", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("has_key", args[1:], 1); err != nil {
		return nil, err
	}
	return rt.Heap().NewBool(heap.MapHasKey(m, args[1])), nil
}
