/*
File    : easyscript/cmd/easyscript/main.go
Mode dispatch (file vs REPL), fatih/color-based diagnostic coloring, and
the panic-recovery wrapper around program execution are all grounded on
go-mix's main/main.go (executeFileWithRecovery, os.ReadFile, color.Red/
color.Cyan usage).
*/

// Command easyscript runs EasyScript programs: with no arguments it opens
// an interactive REPL, with one argument it runs that file as a script.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/akashmaji946/easyscript/internal/eval"
	"github.com/akashmaji946/easyscript/internal/heap"
	"github.com/akashmaji946/easyscript/internal/parser"
)

func main() {
	switch len(os.Args) {
	case 1:
		runREPL()
	case 2:
		if err := runFile(os.Args[1]); err != nil {
			printDiagnostic(err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: easyscript [script]")
		os.Exit(1)
	}
}

// runFile executes a single script file and prints its final expression's
// value to stdout, per the spec's CLI contract.
func runFile(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	src, readErr := os.ReadFile(path)
	if readErr != nil {
		return readErr
	}

	h := heap.New()
	e := eval.New(h)
	root := e.NewProgram(os.Stdout, bufio.NewReader(os.Stdin))

	block, parseErr := parser.Parse(string(src))
	if parseErr != nil {
		return parseErr
	}
	value, evalErr := e.EvalProgram(block, root)
	if evalErr != nil {
		return evalErr
	}
	fmt.Println(heap.Display(value))
	return nil
}

func printDiagnostic(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
}
