/*
File    : easyscript/internal/heap/display.go
Number formatting (trim trailing ".0" for integral doubles) and the
quoted-inside-composites/unquoted-at-top-level split for str() vs repr()
are grounded on spec.md §4.6's display rules; the escaping-free string
rendering matches original_source/value.rs's Display impl, which writes
strings verbatim with no escape processing.
*/

package heap

import (
	"math"
	"strconv"
	"strings"
)

// Display renders v the way str() does: a top-level string is unquoted,
// but any string nested inside a list or map is quoted.
func Display(v Value) string { return render(v, false) }

// Repr renders v the way repr() does: even a top-level string is quoted.
func Repr(v Value) string { return render(v, true) }

func render(v Value, quoteTop bool) string {
	switch v.tag {
	case TagString:
		if quoteTop {
			return quote(v.str)
		}
		return v.str
	default:
		return renderNested(v)
	}
}

// renderNested always quotes strings, since spec.md §4.6 quotes string
// elements and string map keys/values inside composites regardless of
// which top-level form (str/repr) produced the outer call.
func renderNested(v Value) string {
	switch v.tag {
	case TagNil:
		return "nil"
	case TagBool:
		if v.b {
			return "true"
		}
		return "false"
	case TagNumber:
		return FormatNumber(v.num)
	case TagString:
		return quote(v.str)
	case TagList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = renderNested(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TagMap:
		parts := make([]string, 0, len(v.mp.order))
		for _, k := range v.mp.order {
			key := renderNested(v.mp.keys[k])
			val := renderNested(v.mp.vals[k])
			parts = append(parts, key+": "+val)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case TagFunction:
		if v.fn.name != "" {
			return "<function " + v.fn.name + ">"
		}
		return "<function>"
	case TagBoundMethod:
		return "<bound method " + v.bound.method + ">"
	default:
		return "<?>"
	}
}

func quote(s string) string { return `"` + s + `"` }

// FormatNumber renders a double per spec.md §4.6: integral values print
// without a fractional part, everything else prints with the minimal
// round-tripping number of digits.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
