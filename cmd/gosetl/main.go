/*
File    : gosetl/cmd/gosetl/main.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)

gosetl is the command-line driver for the language: an expression-
oriented scripting language combining SQL-like set-manipulation clauses
(insert/update/delete/select) with ordinary expression evaluation.

The CLI supports three modes of operation:
  - Expression mode (-e EXPR): evaluate a single line and print its result
  - File mode (a positional argument): evaluate a source file statement by
    statement
  - Interactive REPL mode: the default when no expression or file is given
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/akashmaji946/gosetl/eval"
	"github.com/akashmaji946/gosetl/object"
	"github.com/akashmaji946/gosetl/parser"
	"github.com/akashmaji946/gosetl/repl"
)

const (
	version = "0.1.0"
	author  = "Akash Maji <akashmaji@iisc.ac.in>"
	license = "MIT"
	banner  = `
  ____  ___  ____  _____ _____ _
 / ___|/ _ \/ ___|| ____|_   _| |
| |  _| | | \___ \|  _|   | | | |
| |_| | |_| |___) | |___  | | | |___
 \____|\___/|____/|_____| |_| |_____|
`
	line   = "----------------------------------------------------------"
	prompt = "gosetl >>> "
)

func main() {
	expression := flag.String("e", "", "evaluate a single expression and exit")
	flag.Parse()

	switch {
	case *expression != "":
		runSource(*expression)
	case flag.NArg() > 0:
		runFile(flag.Arg(0))
	default:
		r := repl.NewRepl(banner, version, author, line, license, prompt)
		r.Start(os.Stdin, os.Stdout)
	}
}

// runFile reads and evaluates a source file, statement by statement.
func runFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	runSource(string(data))
}

// runSource parses src into statements and evaluates each in turn against
// one shared Runtime, printing every non-nil result. A parse or eval error
// is reported to stderr and ends the run with a non-zero exit status.
func runSource(src string) {
	stmts, err := parser.ParseAll(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		os.Exit(1)
	}

	rt := eval.New()
	for _, stmt := range stmts {
		result, err := rt.Exec(&stmt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "eval error: %v\n", err)
			os.Exit(1)
		}
		if result != nil {
			fmt.Println(object.String(result))
		}
	}
}
