/*
File    : gosetl/repl/repl.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)

Package repl implements the Read-Eval-Print Loop for the language. The
REPL lets users:
- Enter statements line by line
- See the result of each statement immediately
- Navigate history with the arrow keys
- Get colored feedback distinguishing errors from results
*/
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/akashmaji946/gosetl/eval"
	"github.com/akashmaji946/gosetl/object"
	"github.com/akashmaji946/gosetl/parser"
)

// Color definitions for REPL output.
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl is one interactive session's configuration and banner text.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

// NewRepl creates a new Repl with the given banner/version/prompt text.
func NewRepl(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

// PrintBannerInfo writes the startup banner and usage hints to writer.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to gosetl!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the REPL's main loop until the user exits or input ends.
// reader is accepted for interface symmetry with other drivers but isn't
// used directly — readline owns stdin.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	if f, ok := writer.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		color.NoColor = true
	}

	// Every session gets its own history file so two REPLs running at
	// once never interleave writes to the same path.
	sessionID := uuid.NewString()
	historyFile := filepath.Join(os.TempDir(), fmt.Sprintf("gosetl_history_%s", sessionID))

	r.PrintBannerInfo(writer)
	cyanColor.Fprintf(writer, "Session: %s\n", sessionID)
	blueColor.Fprintf(writer, "%s\n", r.Line)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      r.Prompt,
		HistoryFile: historyFile,
		Stdout:      writer,
	})
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	rt := eval.New()

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		rl.SaveHistory(line)
		r.executeWithRecovery(writer, line, rt)
	}
}

// executeWithRecovery parses and evaluates one line of input, printing
// its result or error. A panic during either phase is caught and
// reported as a runtime error so a single bad line never kills the
// session.
func (r *Repl) executeWithRecovery(writer io.Writer, line string, rt *eval.Runtime) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[runtime error] %v\n", recovered)
		}
	}()

	stmts, err := parser.ParseAll(line)
	if err != nil {
		redColor.Fprintf(writer, "[parse error] %v\n", err)
		return
	}

	for _, stmt := range stmts {
		result, err := rt.Exec(&stmt)
		if err != nil {
			redColor.Fprintf(writer, "[eval error] %v\n", err)
			continue
		}
		if result != nil {
			yellowColor.Fprintf(writer, "%s\n", object.String(result))
		}
	}
}
