/*
File    : easyscript/cmd/easyscript/repl.go
Interactive loop grounded on go-mix's repl/repl.go: chzyer/readline for
line editing and history, fatih/color to distinguish the prompt, echoed
results, and error diagnostics. Unlike a file run, the REPL keeps one
Heap and one root environment.Frame alive across every line, so bindings
and the GC's notion of "live objects" persist for the whole session.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/akashmaji946/easyscript/internal/eval"
	"github.com/akashmaji946/easyscript/internal/heap"
	"github.com/akashmaji946/easyscript/internal/parser"
)

const replPrompt = "easyscript> "

func runREPL() {
	rl, err := readline.New(replPrompt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	h := heap.New()
	e := eval.New(h)
	root := e.NewProgram(os.Stdout, bufio.NewReader(os.Stdin))

	banner := color.New(color.FgCyan)
	banner.Println("EasyScript REPL — Ctrl-D to exit")

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			if err == io.EOF {
				return
			}
			continue
		}
		if line == "" {
			continue
		}

		block, parseErr := parser.Parse(line)
		if parseErr != nil {
			color.New(color.FgRed).Println(parseErr.Error())
			continue
		}
		value, evalErr := e.EvalProgram(block, root)
		if evalErr != nil {
			color.New(color.FgRed).Println(evalErr.Error())
			continue
		}
		color.New(color.FgGreen).Println(heap.Repr(value))
	}
}
