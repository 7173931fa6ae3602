/*
File    : easyscript/internal/eval/eval_test.go
Grounded on go-mix's eval/evaluator_test.go table-driven/testify style,
end-to-end scenarios lifted directly from the specification's own
testable-properties examples.
*/
package eval

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/easyscript/internal/errs"
	"github.com/akashmaji946/easyscript/internal/heap"
	"github.com/akashmaji946/easyscript/internal/parser"
)

func run(t *testing.T, src string) heap.Value {
	t.Helper()
	h := heap.New()
	e := New(h)
	root := e.NewProgram(&bytes.Buffer{}, bufio.NewReader(strings.NewReader("")))
	block, err := parser.Parse(src)
	require.NoError(t, err)
	v, err := e.Eval(block, root)
	require.NoError(t, err)
	return v
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	h := heap.New()
	e := New(h)
	root := e.NewProgram(&bytes.Buffer{}, bufio.NewReader(strings.NewReader("")))
	block, err := parser.Parse(src)
	if err != nil {
		return err
	}
	_, err = e.Eval(block, root)
	require.Error(t, err)
	return err
}

func TestEval_ArithmeticFlattenedPrecedence(t *testing.T) {
	v := run(t, "1 + 2 * 3")
	require.Equal(t, 7.0, v.AsNumber())
}

func TestEval_StringConcatenation(t *testing.T) {
	v := run(t, `"foo" + "bar"`)
	require.Equal(t, "foobar", v.AsString())
}

func TestEval_LetAndAssignment(t *testing.T) {
	v := run(t, "let x = 1; x = x + 1; x")
	require.Equal(t, 2.0, v.AsNumber())
}

func TestEval_UndeclaredAssignmentIsRuntimeError(t *testing.T) {
	err := runErr(t, "x = 1")
	var rerr *errs.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestEval_ClosureCapturesByReference(t *testing.T) {
	v := run(t, `
		let x = 1;
		let f = fun() { x };
		x = 2;
		f()
	`)
	require.Equal(t, 2.0, v.AsNumber(), "closures observe later writes to captured bindings")
}

func TestEval_IfElse(t *testing.T) {
	v := run(t, `if 1 < 2 { "yes" } else { "no" }`)
	require.Equal(t, "yes", v.AsString())
}

func TestEval_IfFalseNoElseIsNil(t *testing.T) {
	v := run(t, `if false { 1 }`)
	require.Equal(t, heap.TagNil, v.Tag())
}

func TestEval_ForInCollectsResults(t *testing.T) {
	v := run(t, `for x in [1, 2, 3] { x * 2 }`)
	require.Equal(t, heap.TagList, v.Tag())
	require.Equal(t, 3, heap.ListLen(v))
	first, _ := heap.ListGet(v, 0)
	require.Equal(t, 2.0, first.AsNumber())
}

func TestEval_ForInWithFilter(t *testing.T) {
	v := run(t, `for x in [1, 2, 3, 4] if x > 2 { x }`)
	require.Equal(t, 2, heap.ListLen(v))
}

func TestEval_ListIndexAssignment(t *testing.T) {
	v := run(t, `let l = [1, 2, 3]; l[1] = 99; l[1]`)
	require.Equal(t, 99.0, v.AsNumber())
}

func TestEval_MapDotAssignmentAndAccess(t *testing.T) {
	v := run(t, `let m = {}; m.name = "eve"; m.name`)
	require.Equal(t, "eve", v.AsString())
}

func TestEval_MethodBeforePropertyOnDotAccess(t *testing.T) {
	v := run(t, `let m = {"len": 99}; m.len()`)
	// the bound method "len" wins over the map entry of the same name
	require.Equal(t, 1.0, v.AsNumber())
}

func TestEval_NestedAccessorAssignmentRejectedAtParse(t *testing.T) {
	err := runErr(t, `let m = {"a": {"b": 1}}; m.a.b = 2`)
	var perr *errs.ParserError
	require.ErrorAs(t, err, &perr)
}

func TestEval_FunctionCallArityMismatch(t *testing.T) {
	err := runErr(t, `let f = fun(a, b) { a + b }; f(1)`)
	var rerr *errs.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestEval_UnaryNegate(t *testing.T) {
	v := run(t, `-5 + 1`)
	require.Equal(t, -4.0, v.AsNumber())
}

func TestEval_LogicalAndOrReturnOperand(t *testing.T) {
	v := run(t, `0 || "fallback"`)
	require.Equal(t, "fallback", v.AsString())

	v = run(t, `5 && "second"`)
	require.Equal(t, "second", v.AsString())
}

func TestEval_NumberEqualityUsesBitPattern(t *testing.T) {
	v := run(t, `num("nan") == num("nan")`)
	require.True(t, v.AsBool(), "NaN equals itself under bit-pattern equality")
}

func TestEval_DivisionByZeroIsRuntimeError(t *testing.T) {
	err := runErr(t, "1 / 0")
	var rerr *errs.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestEval_BitwiseTruncatesToInteger(t *testing.T) {
	v := run(t, "5.9 & 3.2")
	require.Equal(t, 1.0, v.AsNumber())
}

func TestEval_NegativeShiftIsRuntimeError(t *testing.T) {
	err := runErr(t, "1 << -1")
	var rerr *errs.RuntimeError
	require.ErrorAs(t, err, &rerr)

	err = runErr(t, "1 >> -1")
	require.ErrorAs(t, err, &rerr)
}

func TestEval_MapMissingKeyYieldsNilOnIndexAndDot(t *testing.T) {
	v := run(t, `let m = {"a": 1}; m["b"]`)
	require.Equal(t, heap.TagNil, v.Tag())

	v = run(t, `let m = {"a": 1}; m.b`)
	require.Equal(t, heap.TagNil, v.Tag())
}

func TestEval_BuiltinPrintAndLen(t *testing.T) {
	h := heap.New()
	e := New(h)
	var out bytes.Buffer
	root := e.NewProgram(&out, bufio.NewReader(strings.NewReader("")))
	block, err := parser.Parse(`print("hello", len("abc"))`)
	require.NoError(t, err)
	_, err = e.Eval(block, root)
	require.NoError(t, err)
	require.Equal(t, "hello 3\n", out.String())
}

func TestEval_GCCollectReclaimsUnreachable(t *testing.T) {
	h := heap.New()
	e := New(h)
	root := e.NewProgram(&bytes.Buffer{}, bufio.NewReader(strings.NewReader("")))
	block, err := parser.Parse(`let x = "kept"; "garbage"; gc_collect()`)
	require.NoError(t, err)
	v, err := e.Eval(block, root)
	require.NoError(t, err)
	require.Greater(t, v.AsNumber(), 0.0)
}

func TestEval_RecursiveFunction(t *testing.T) {
	v := run(t, `
		let fact = fun(n) { if n <= 1 { 1 } else { n * fact(n - 1) } };
		fact(5)
	`)
	require.Equal(t, 120.0, v.AsNumber())
}

func TestEval_WhileStyleForCondition(t *testing.T) {
	v := run(t, `
		let i = 0;
		let last = for i < 3 { i = i + 1; i };
		last
	`)
	require.Equal(t, heap.TagList, v.Tag())
	require.Equal(t, 3, heap.ListLen(v))
}
