/*
File    : easyscript/internal/eval/eval.go
Evaluator struct shape (holds the heap, walks the AST recursively) and
the `[Runtime Error at line %d column %d]: ...` message convention are
grounded on go-mix's eval/evaluator.go (Evaluator{Scp,...}, CreateError).
Short-circuit && / || returning the deciding operand rather than a
coerced boolean, and integer bitwise/shift operators truncating their
double operands, are both called out explicitly in DESIGN.md as resolved
design-note behavior rather than invention.
*/

// Package eval implements EasyScript's tree-walking evaluator: it turns an
// ast.Expr plus an environment.Frame into a heap.Value, threading runtime
// errors back as *errs.RuntimeError.
package eval

import (
	"bufio"
	"io"
	"math"

	"github.com/akashmaji946/easyscript/internal/ast"
	"github.com/akashmaji946/easyscript/internal/builtins"
	"github.com/akashmaji946/easyscript/internal/environment"
	"github.com/akashmaji946/easyscript/internal/errs"
	"github.com/akashmaji946/easyscript/internal/heap"
)

// Evaluator walks an AST against a Heap. It implements heap.Runtime so
// native functions can allocate results and call back into user functions
// (e.g. bound-method dispatch).
type Evaluator struct {
	h *heap.Heap
	// curFrame is the environment chain active for the call currently
	// being dispatched to a native function, so gc_collect() can root a
	// collection at it without native functions needing a frame
	// parameter of their own.
	curFrame *environment.Frame
}

// New builds an Evaluator over h.
func New(h *heap.Heap) *Evaluator { return &Evaluator{h: h} }

// Heap implements heap.Runtime.
func (e *Evaluator) Heap() *heap.Heap { return e.h }

// CallValue implements heap.Runtime: invoke fn (a Function or BoundMethod
// Value) with args, for use by native functions that need to call back
// into EasyScript code.
func (e *Evaluator) CallValue(fn heap.Value, args []heap.Value) (heap.Value, error) {
	return e.callValue(fn, args, ast.Pos{})
}

// GC implements heap.Runtime for the gc_collect() builtin.
func (e *Evaluator) GC() int {
	if e.curFrame == nil {
		return e.h.Collect(nil)
	}
	return e.h.Collect(e.curFrame.TraceAll())
}

// NewProgram builds the root environment frame with every global builtin
// registered, ready to evaluate a parsed program's top-level Block.
// stdout/stdin back print() and input().
func (e *Evaluator) NewProgram(stdout io.Writer, stdin *bufio.Reader) *environment.Frame {
	root := environment.NewRoot()
	builtins.RegisterGlobals(e.h, root, stdout, stdin)
	return root
}

// EvalProgram evaluates a parsed top-level program's entries directly
// against frame, without introducing a further child frame the way the
// generic *ast.Block case does for a nested block. This is what lets a
// REPL's root frame accumulate `let` bindings across successive lines
// instead of losing them to a discarded per-line child frame.
func (e *Evaluator) EvalProgram(block *ast.Block, frame *environment.Frame) (heap.Value, error) {
	return e.evalBlock(block, frame)
}

// Eval evaluates expr against frame.
func (e *Evaluator) Eval(expr ast.Expr, frame *environment.Frame) (heap.Value, error) {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		return e.h.NewNumber(n.Value), nil
	case *ast.StringLiteral:
		return e.h.NewString(n.Value), nil
	case *ast.BoolLiteral:
		return e.h.NewBool(n.Value), nil
	case *ast.NilLiteral:
		return e.h.NewNil(), nil
	case *ast.ListLiteral:
		return e.evalListLiteral(n, frame)
	case *ast.MapLiteral:
		return e.evalMapLiteral(n, frame)
	case *ast.Identifier:
		return e.evalIdentifier(n, frame)
	case *ast.Block:
		return e.evalBlock(n, environment.NewChild(frame))
	case *ast.Let:
		return e.evalLet(n, frame)
	case *ast.Assignment:
		return e.evalAssignment(n, frame)
	case *ast.Accessor:
		return e.evalAccessor(n, frame)
	case *ast.If:
		return e.evalIf(n, frame)
	case *ast.ForIn:
		return e.evalForIn(n, frame)
	case *ast.ForCondition:
		return e.evalForCondition(n, frame)
	case *ast.FunctionDef:
		return e.h.NewUserFunction("", n.Params, n.Body, frame), nil
	case *ast.Call:
		return e.evalCall(n, frame)
	case *ast.Unary:
		return e.evalUnary(n, frame)
	case *ast.Binary:
		return e.evalBinary(n, frame)
	default:
		return nil, errs.NewRuntimeError("unsupported expression node %T", expr)
	}
}

func (e *Evaluator) evalListLiteral(n *ast.ListLiteral, frame *environment.Frame) (heap.Value, error) {
	elems := make([]heap.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, err := e.Eval(el, frame)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return e.h.NewList(elems), nil
}

func (e *Evaluator) evalMapLiteral(n *ast.MapLiteral, frame *environment.Frame) (heap.Value, error) {
	m := e.h.NewEmptyMap()
	for _, entry := range n.Entries {
		k, err := e.Eval(entry.Key, frame)
		if err != nil {
			return nil, err
		}
		v, err := e.Eval(entry.Value, frame)
		if err != nil {
			return nil, err
		}
		if err := heap.MapSet(m, k, v); err != nil {
			return nil, e.runtimeErr(n.At(), "%s", err.Error())
		}
	}
	return m, nil
}

func (e *Evaluator) evalIdentifier(n *ast.Identifier, frame *environment.Frame) (heap.Value, error) {
	v, ok := frame.Get(n.Name)
	if !ok {
		return nil, e.runtimeErr(n.At(), "undefined variable %q", n.Name)
	}
	return v, nil
}

// evalBlock evaluates entries in the frame it is given (callers that need
// a fresh scope pass a new child frame); the value is the last
// entry's value, or nil if that entry was semicolon-terminated or the
// block is empty.
func (e *Evaluator) evalBlock(n *ast.Block, frame *environment.Frame) (heap.Value, error) {
	var result heap.Value = e.h.NewNil()
	for _, entry := range n.Entries {
		v, err := e.Eval(entry.Expr, frame)
		if err != nil {
			return nil, err
		}
		if entry.HasTrailingSemi {
			result = e.h.NewNil()
		} else {
			result = v
		}
	}
	return result, nil
}

// evalLet binds Name to Init's value in the current frame and evaluates to
// that same value, so `x = (let y = 5)`-style chaining is well-defined.
func (e *Evaluator) evalLet(n *ast.Let, frame *environment.Frame) (heap.Value, error) {
	v, err := e.Eval(n.Init, frame)
	if err != nil {
		return nil, err
	}
	frame.Define(n.Name, v)
	return v, nil
}

func (e *Evaluator) evalAssignment(n *ast.Assignment, frame *environment.Frame) (heap.Value, error) {
	v, err := e.Eval(n.Value, frame)
	if err != nil {
		return nil, err
	}
	switch n.Target.Kind {
	case ast.LValueIdent:
		if err := frame.Assign(n.Target.Name, v); err != nil {
			return nil, e.runtimeErr(n.At(), "%s", err.Error())
		}
		return v, nil
	case ast.LValueIndex:
		recv, err := e.evalIdentifier(n.Target.Target.(*ast.Identifier), frame)
		if err != nil {
			return nil, err
		}
		key, err := e.Eval(n.Target.Key, frame)
		if err != nil {
			return nil, err
		}
		return v, e.assignIndex(n.At(), recv, key, v)
	default: // ast.LValueDot
		recv, err := e.evalIdentifier(n.Target.Target.(*ast.Identifier), frame)
		if err != nil {
			return nil, err
		}
		if recv.Tag() != heap.TagMap {
			return nil, e.runtimeErr(n.At(), "cannot assign property %q on a %s", n.Target.Name, recv.Tag().TypeName())
		}
		key := e.h.NewString(n.Target.Name)
		if err := heap.MapSet(recv, key, v); err != nil {
			return nil, e.runtimeErr(n.At(), "%s", err.Error())
		}
		return v, nil
	}
}

func (e *Evaluator) assignIndex(pos ast.Pos, recv, key, v heap.Value) error {
	switch recv.Tag() {
	case heap.TagList:
		if key.Tag() != heap.TagNumber {
			return e.runtimeErr(pos, "list index must be a number")
		}
		idx := int(key.AsNumber())
		if !heap.ListSet(recv, idx, v) {
			return e.runtimeErr(pos, "list index %d out of range", idx)
		}
		return nil
	case heap.TagMap:
		if err := heap.MapSet(recv, key, v); err != nil {
			return e.runtimeErr(pos, "%s", err.Error())
		}
		return nil
	default:
		return e.runtimeErr(pos, "cannot index-assign into a %s", recv.Tag().TypeName())
	}
}

// evalAccessor implements read access, with dot access trying a bound
// method before falling back to map-key lookup (spec.md's "method before
// property" rule).
func (e *Evaluator) evalAccessor(n *ast.Accessor, frame *environment.Frame) (heap.Value, error) {
	target, err := e.Eval(n.Target, frame)
	if err != nil {
		return nil, err
	}
	if n.Kind == ast.AccessIndex {
		key, err := e.Eval(n.Key, frame)
		if err != nil {
			return nil, err
		}
		return e.readIndex(n.At(), target, key)
	}

	if _, ok := builtins.LookupMethod(target.Tag(), n.Name); ok {
		return e.h.NewBoundMethod(target, n.Name), nil
	}
	if target.Tag() == heap.TagMap {
		key := e.h.NewString(n.Name)
		if v, ok := heap.MapGet(target, key); ok {
			return v, nil
		}
		return e.h.NewNil(), nil
	}
	return nil, e.runtimeErr(n.At(), "%s has no method or property %q", target.Tag().TypeName(), n.Name)
}

func (e *Evaluator) readIndex(pos ast.Pos, target, key heap.Value) (heap.Value, error) {
	switch target.Tag() {
	case heap.TagList:
		if key.Tag() != heap.TagNumber {
			return nil, e.runtimeErr(pos, "list index must be a number")
		}
		idx := int(key.AsNumber())
		v, ok := heap.ListGet(target, idx)
		if !ok {
			return nil, e.runtimeErr(pos, "list index %d out of range", idx)
		}
		return v, nil
	case heap.TagString:
		if key.Tag() != heap.TagNumber {
			return nil, e.runtimeErr(pos, "string index must be a number")
		}
		idx := int(key.AsNumber())
		s := target.AsString()
		if idx < 0 || idx >= len(s) {
			return nil, e.runtimeErr(pos, "string index %d out of range", idx)
		}
		return e.h.NewString(string(s[idx])), nil
	case heap.TagMap:
		if !heap.Hashable(key) {
			return nil, e.runtimeErr(pos, "value of type %s cannot be used as a map key", key.Tag().TypeName())
		}
		v, ok := heap.MapGet(target, key)
		if !ok {
			return e.h.NewNil(), nil
		}
		return v, nil
	default:
		return nil, e.runtimeErr(pos, "cannot index a %s", target.Tag().TypeName())
	}
}

func (e *Evaluator) evalIf(n *ast.If, frame *environment.Frame) (heap.Value, error) {
	cond, err := e.Eval(n.Cond, frame)
	if err != nil {
		return nil, err
	}
	if heap.Truthy(cond) {
		return e.evalBlock(n.Then, environment.NewChild(frame))
	}
	if n.Else == nil {
		return e.h.NewNil(), nil
	}
	return e.Eval(n.Else, frame)
}

// evalForIn iterates a List's elements or a Map's keys, binding Name to
// each in a fresh per-iteration child frame, and collects each
// non-filtered body value into a result List (spec.md's chosen
// for-expression return value: a comprehension, not a bare nil).
func (e *Evaluator) evalForIn(n *ast.ForIn, frame *environment.Frame) (heap.Value, error) {
	iterable, err := e.Eval(n.Iterable, frame)
	if err != nil {
		return nil, err
	}

	var items []heap.Value
	switch iterable.Tag() {
	case heap.TagList:
		items = iterable.AsList()
	case heap.TagMap:
		items = heap.MapKeys(iterable)
	default:
		return nil, e.runtimeErr(n.At(), "cannot iterate over a %s", iterable.Tag().TypeName())
	}

	var results []heap.Value
	for _, item := range items {
		iterFrame := environment.NewChild(frame)
		iterFrame.Define(n.Name, item)
		if n.Filter != nil {
			keep, err := e.Eval(n.Filter, iterFrame)
			if err != nil {
				return nil, err
			}
			if !heap.Truthy(keep) {
				continue
			}
		}
		v, err := e.evalBlock(n.Body, environment.NewChild(iterFrame))
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return e.h.NewList(results), nil
}

// evalForCondition is a while-style loop; it also collects a result List.
func (e *Evaluator) evalForCondition(n *ast.ForCondition, frame *environment.Frame) (heap.Value, error) {
	var results []heap.Value
	for {
		cond, err := e.Eval(n.Cond, frame)
		if err != nil {
			return nil, err
		}
		if !heap.Truthy(cond) {
			break
		}
		v, err := e.evalBlock(n.Body, environment.NewChild(frame))
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return e.h.NewList(results), nil
}

func (e *Evaluator) evalCall(n *ast.Call, frame *environment.Frame) (heap.Value, error) {
	callee, err := e.Eval(n.Callee, frame)
	if err != nil {
		return nil, err
	}
	args := make([]heap.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(a, frame)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	e.curFrame = frame
	return e.callValue(callee, args, n.At())
}

func (e *Evaluator) callValue(callee heap.Value, args []heap.Value, pos ast.Pos) (heap.Value, error) {
	switch callee.Tag() {
	case heap.TagFunction:
		if callee.IsNative() {
			v, err := callee.CallNative(e, args)
			if err != nil {
				if _, ok := err.(*errs.RuntimeError); ok {
					return nil, err
				}
				return nil, e.runtimeErr(pos, "%s", err.Error())
			}
			return v, nil
		}
		return e.callUserFunction(callee, args, pos)
	case heap.TagBoundMethod:
		recv := callee.BoundReceiver()
		name := callee.BoundMethodName()
		fn, ok := builtins.LookupMethod(recv.Tag(), name)
		if !ok {
			return nil, e.runtimeErr(pos, "%s has no method %q", recv.Tag().TypeName(), name)
		}
		full := append([]heap.Value{recv}, args...)
		v, err := fn(e, full)
		if err != nil {
			if rerr, ok := err.(*errs.RuntimeError); ok {
				return nil, rerr
			}
			return nil, e.runtimeErr(pos, "%s", err.Error())
		}
		return v, nil
	default:
		return nil, e.runtimeErr(pos, "cannot call a %s", callee.Tag().TypeName())
	}
}

func (e *Evaluator) callUserFunction(fn heap.Value, args []heap.Value, pos ast.Pos) (heap.Value, error) {
	params := fn.FunctionParams()
	if len(args) != len(params) {
		return nil, e.runtimeErr(pos, "function expects %d argument(s), got %d", len(params), len(args))
	}
	parentFrame, _ := fn.FunctionEnv().(*environment.Frame)
	callFrame := environment.NewChild(parentFrame)
	for i, p := range params {
		callFrame.Define(p, args[i])
	}
	return e.evalBlock(fn.FunctionBody(), callFrame)
}

func (e *Evaluator) evalUnary(n *ast.Unary, frame *environment.Frame) (heap.Value, error) {
	v, err := e.Eval(n.Operand, frame)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpNeg:
		if v.Tag() != heap.TagNumber {
			return nil, e.runtimeErr(n.At(), "unary '-' requires a number, got %s", v.Tag().TypeName())
		}
		return e.h.NewNumber(-v.AsNumber()), nil
	default:
		return nil, e.runtimeErr(n.At(), "unsupported unary operator")
	}
}

func (e *Evaluator) evalBinary(n *ast.Binary, frame *environment.Frame) (heap.Value, error) {
	// Logical operators short-circuit and evaluate to whichever operand
	// decided the result, not a coerced boolean.
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		left, err := e.Eval(n.Left, frame)
		if err != nil {
			return nil, err
		}
		if n.Op == ast.OpAnd && !heap.Truthy(left) {
			return left, nil
		}
		if n.Op == ast.OpOr && heap.Truthy(left) {
			return left, nil
		}
		return e.Eval(n.Right, frame)
	}

	left, err := e.Eval(n.Left, frame)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(n.Right, frame)
	if err != nil {
		return nil, err
	}

	if n.Op == ast.OpEq {
		return e.h.NewBool(heap.Equal(left, right)), nil
	}
	if n.Op == ast.OpNeq {
		return e.h.NewBool(!heap.Equal(left, right)), nil
	}

	switch n.Op {
	case ast.OpAdd:
		return e.evalAdd(n.At(), left, right)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return e.evalArith(n.At(), n.Op, left, right)
	case ast.OpShl, ast.OpShr, ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		return e.evalBitwise(n.At(), n.Op, left, right)
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return e.evalCompare(n.At(), n.Op, left, right)
	default:
		return nil, e.runtimeErr(n.At(), "unsupported binary operator")
	}
}

func (e *Evaluator) evalAdd(pos ast.Pos, left, right heap.Value) (heap.Value, error) {
	if left.Tag() == heap.TagNumber && right.Tag() == heap.TagNumber {
		return e.h.NewNumber(left.AsNumber() + right.AsNumber()), nil
	}
	if left.Tag() == heap.TagString && right.Tag() == heap.TagString {
		return e.h.NewString(left.AsString() + right.AsString()), nil
	}
	return nil, e.runtimeErr(pos, "'+' requires two numbers or two strings, got %s and %s",
		left.Tag().TypeName(), right.Tag().TypeName())
}

func (e *Evaluator) evalArith(pos ast.Pos, op ast.BinaryOp, left, right heap.Value) (heap.Value, error) {
	if left.Tag() != heap.TagNumber || right.Tag() != heap.TagNumber {
		return nil, e.runtimeErr(pos, "arithmetic requires two numbers, got %s and %s",
			left.Tag().TypeName(), right.Tag().TypeName())
	}
	a, b := left.AsNumber(), right.AsNumber()
	switch op {
	case ast.OpSub:
		return e.h.NewNumber(a - b), nil
	case ast.OpMul:
		return e.h.NewNumber(a * b), nil
	case ast.OpDiv:
		if b == 0 {
			return nil, e.runtimeErr(pos, "division by zero")
		}
		return e.h.NewNumber(a / b), nil
	case ast.OpMod:
		if b == 0 {
			return nil, e.runtimeErr(pos, "modulo by zero")
		}
		return e.h.NewNumber(math.Mod(a, b)), nil
	default:
		return nil, e.runtimeErr(pos, "unsupported arithmetic operator")
	}
}

// evalBitwise truncates both operands to int64 before operating, per
// spec.md's "integer operations on doubles" design note.
func (e *Evaluator) evalBitwise(pos ast.Pos, op ast.BinaryOp, left, right heap.Value) (heap.Value, error) {
	if left.Tag() != heap.TagNumber || right.Tag() != heap.TagNumber {
		return nil, e.runtimeErr(pos, "bitwise operators require two numbers, got %s and %s",
			left.Tag().TypeName(), right.Tag().TypeName())
	}
	a, b := int64(left.AsNumber()), int64(right.AsNumber())
	if (op == ast.OpShl || op == ast.OpShr) && b < 0 {
		return nil, e.runtimeErr(pos, "negative shift amount")
	}
	var result int64
	switch op {
	case ast.OpShl:
		result = a << uint64(b)
	case ast.OpShr:
		result = a >> uint64(b)
	case ast.OpBitAnd:
		result = a & b
	case ast.OpBitOr:
		result = a | b
	case ast.OpBitXor:
		result = a ^ b
	}
	return e.h.NewNumber(float64(result)), nil
}

func (e *Evaluator) evalCompare(pos ast.Pos, op ast.BinaryOp, left, right heap.Value) (heap.Value, error) {
	if left.Tag() == heap.TagNumber && right.Tag() == heap.TagNumber {
		a, b := left.AsNumber(), right.AsNumber()
		return e.h.NewBool(numCompare(op, a < b, a == b, a > b)), nil
	}
	if left.Tag() == heap.TagString && right.Tag() == heap.TagString {
		a, b := left.AsString(), right.AsString()
		return e.h.NewBool(numCompare(op, a < b, a == b, a > b)), nil
	}
	return nil, e.runtimeErr(pos, "comparison requires two numbers or two strings, got %s and %s",
		left.Tag().TypeName(), right.Tag().TypeName())
}

func numCompare(op ast.BinaryOp, lt, eq, gt bool) bool {
	switch op {
	case ast.OpLt:
		return lt
	case ast.OpLe:
		return lt || eq
	case ast.OpGt:
		return gt
	default: // ast.OpGe
		return gt || eq
	}
}

func (e *Evaluator) runtimeErr(pos ast.Pos, format string, args ...interface{}) error {
	return errs.NewRuntimeErrorAt(pos.Line, pos.Column, format, args...)
}

// Collect runs a GC cycle rooted at frame's full chain. The gc_collect()
// builtin goes through GC instead.
func (e *Evaluator) Collect(frame *environment.Frame) int {
	return e.h.Collect(frame.TraceAll())
}
