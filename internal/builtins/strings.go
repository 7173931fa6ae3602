/*
File    : easyscript/internal/builtins/strings.go
Method-table-as-map idiom and the trim/starts_with/ends_with/split/
to_upper/to_lower method set are grounded on go-mix's std/strings.go,
trimmed to EasyScript's smaller string-method surface (spec.md §4.6).
*/

package builtins

import (
	"strings"

	"github.com/akashmaji946/easyscript/internal/heap"
)

var stringMethods = map[string]heap.NativeFunc{
	"trim":        stringTrim,
	"len":         stringLen,
	"starts_with": stringStartsWith,
	"ends_with":   stringEndsWith,
	"find":        stringFind,
	"contains":    stringContains,
	"replace":     stringReplace,
	"split":       stringSplit,
	"to_upper":    stringToUpper,
	"to_lower":    stringToLower,
	"substring":   stringSubstring,
}

// receiverString validates args[0] (the bound-method receiver) is a
// String and returns its Go value.
func receiverString(method string, args []heap.Value) (string, error) {
	if len(args) == 0 || args[0].Tag() != heap.TagString {
		return "", argError("%s() receiver must be a string", method)
	}
	return args[0].AsString(), nil
}

func stringTrim(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("trim", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("trim", args[1:], 0); err != nil {
		return nil, err
	}
	return rt.Heap().NewString(strings.TrimSpace(s)), nil
}

func stringLen(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("len", args)
	if err != nil {
		return nil, err
	}
	return rt.Heap().NewNumber(float64(len(s))), nil
}

func stringStartsWith(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("starts_with", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("starts_with", args[1:], 1); err != nil {
		return nil, err
	}
	prefix, err := receiverString("starts_with", args[1:2])
	if err != nil {
		return nil, argError("starts_with() argument must be a string")
	}
	return rt.Heap().NewBool(strings.HasPrefix(s, prefix)), nil
}

func stringEndsWith(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("ends_with", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("ends_with", args[1:], 1); err != nil {
		return nil, err
	}
	if args[1].Tag() != heap.TagString {
		return nil, argError("ends_with() argument must be a string")
	}
	return rt.Heap().NewBool(strings.HasSuffix(s, args[1].AsString())), nil
}

func stringFind(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("find", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("find", args[1:], 1); err != nil {
		return nil, err
	}
	if args[1].Tag() != heap.TagString {
		return nil, argError("find() argument must be a string")
	}
	return rt.Heap().NewNumber(float64(strings.Index(s, args[1].AsString()))), nil
}

func stringContains(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("contains", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("contains", args[1:], 1); err != nil {
		return nil, err
	}
	if args[1].Tag() != heap.TagString {
		return nil, argError("contains() argument must be a string")
	}
	return rt.Heap().NewBool(strings.Contains(s, args[1].AsString())), nil
}

func stringReplace(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("replace", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("replace", args[1:], 2); err != nil {
		return nil, err
	}
	if args[1].Tag() != heap.TagString || args[2].Tag() != heap.TagString {
		return nil, argError("replace() arguments must be strings")
	}
	return rt.Heap().NewString(strings.ReplaceAll(s, args[1].AsString(), args[2].AsString())), nil
}

func stringSplit(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("split", args)
	if err != nil {
		return nil, err
	}
	if err := checkArgc("split", args[1:], 1); err != nil {
		return nil, err
	}
	if args[1].Tag() != heap.TagString {
		return nil, argError("split() argument must be a string")
	}
	parts := strings.Split(s, args[1].AsString())
	out := make([]heap.Value, len(parts))
	for i, p := range parts {
		out[i] = rt.Heap().NewString(p)
	}
	return rt.Heap().NewList(out), nil
}

func stringToUpper(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("to_upper", args)
	if err != nil {
		return nil, err
	}
	return rt.Heap().NewString(strings.ToUpper(s)), nil
}

func stringToLower(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("to_lower", args)
	if err != nil {
		return nil, err
	}
	return rt.Heap().NewString(strings.ToLower(s)), nil
}

func stringSubstring(rt heap.Runtime, args []heap.Value) (heap.Value, error) {
	s, err := receiverString("substring", args)
	if err != nil {
		return nil, err
	}
	rest := args[1:]
	if len(rest) != 1 && len(rest) != 2 {
		return nil, argError("substring() expects 1 or 2 argument(s), got %d", len(rest))
	}
	if rest[0].Tag() != heap.TagNumber {
		return nil, argError("substring() start must be a number")
	}
	start := int(rest[0].AsNumber())
	end := len(s)
	if len(rest) == 2 {
		if rest[1].Tag() != heap.TagNumber {
			return nil, argError("substring() end must be a number")
		}
		end = int(rest[1].AsNumber())
	}
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return rt.Heap().NewString(""), nil
	}
	return rt.Heap().NewString(s[start:end]), nil
}
