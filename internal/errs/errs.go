/*
File    : easyscript/internal/errs/errs.go
Derived from the go-mix interpreter's positional error-message convention
in eval/evaluator.go (CreateError) and parser/parser.go (expectNext), here
promoted from ad-hoc fmt.Sprintf strings into three distinct typed errors.
*/

// Package errs defines the three error kinds EasyScript programs can fail
// with — lexer, parser, and runtime — each carrying an optional 1-based
// source position and rendering itself per the CLI's diagnostic format:
//
//	[<Kind> Error at line <L> column <C>]: <message>
package errs

import "fmt"

// LexerError reports a scan failure. Location is always present.
type LexerError struct {
	Message string
	Line    int
	Column  int
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("[Lexer Error at line %d column %d]: %s", e.Line, e.Column, e.Message)
}

// NewLexerError builds a LexerError at the given position.
func NewLexerError(line, column int, format string, args ...interface{}) *LexerError {
	return &LexerError{Message: fmt.Sprintf(format, args...), Line: line, Column: column}
}

// ParserError reports a grammar violation. Location is present whenever the
// offending token's position is known.
type ParserError struct {
	Message     string
	Line        int
	Column      int
	HasLocation bool
}

func (e *ParserError) Error() string {
	if !e.HasLocation {
		return fmt.Sprintf("[Parser Error]: %s", e.Message)
	}
	return fmt.Sprintf("[Parser Error at line %d column %d]: %s", e.Line, e.Column, e.Message)
}

// NewParserError builds a located ParserError.
func NewParserError(line, column int, format string, args ...interface{}) *ParserError {
	return &ParserError{Message: fmt.Sprintf(format, args...), Line: line, Column: column, HasLocation: true}
}

// RuntimeError reports an evaluation-time failure. Location is optional:
// errors built without a source node at hand (e.g. the evaluator's
// fallback for an unsupported AST node) carry none.
type RuntimeError struct {
	Message     string
	Line        int
	Column      int
	HasLocation bool
}

func (e *RuntimeError) Error() string {
	if !e.HasLocation {
		return fmt.Sprintf("[Runtime Error]: %s", e.Message)
	}
	return fmt.Sprintf("[Runtime Error at line %d column %d]: %s", e.Line, e.Column, e.Message)
}

// NewRuntimeError builds an unlocated RuntimeError.
func NewRuntimeError(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// NewRuntimeErrorAt builds a located RuntimeError.
func NewRuntimeErrorAt(line, column int, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Line: line, Column: column, HasLocation: true}
}
