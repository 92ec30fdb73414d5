// Command tjs is the thin embedding CLI for the tjs scripting engine: run a
// script file, or drop into a syntax-highlighted REPL. Adapted from the
// teacher's bin/main.go.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fatih/color"
	"github.com/reeflective/readline"
	"golang.org/x/term"

	"github.com/brettkos/tjs/core"
	"github.com/brettkos/tjs/natives"
)

const helpMessage = `tjs is a tiny embeddable scripting language.

Usage:
  tjs <file>
  tjs               # start the REPL
`

var maxIterations = flag.Int("max-iterations", core.LoopMaxIterations, "loop iteration cap before a LoopError is raised")
var trace = flag.Bool("trace", false, "print a value-graph trace after the script runs, or after each REPL line")

func main() {
	flag.Usage = func() {
		fmt.Print(helpMessage)
		flag.PrintDefaults()
	}
	flag.Parse()

	ip := core.NewInterpreter()
	ip.MaxIterations = *maxIterations
	if err := natives.Register(ip); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		repl(ip)
		return
	}
	runFile(ip, args[0])
}

func runFile(ip *core.Interpreter, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := ip.Execute(string(content)); err != nil {
		printError(err)
		os.Exit(1)
	}
	if *trace {
		fmt.Print(ip.Trace())
	}
}

func repl(ip *core.Interpreter) {
	rl := readline.NewShell()
	rl.Prompt.Primary(func() string { return color.CyanString("tjs> ") })
	rl.SyntaxHighlighter = highlight

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(os.Stderr, err)
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		result, err := ip.Evaluate(line)
		if err != nil {
			printError(err)
			continue
		}
		fmt.Println(result)
		if *trace {
			fmt.Print(ip.Trace())
		}
	}
}

// highlight renders line via chroma's JavaScript lexer, the nearest stock
// grammar to tjs's surface syntax.
func highlight(line []rune) string {
	lexer := lexers.Get("javascript")
	if lexer == nil {
		return string(line)
	}
	iterator, err := lexer.Tokenise(nil, string(line))
	if err != nil {
		return string(line)
	}
	style := styles.Get("monokai")
	formatter := formatters.Get("terminal16m")

	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return string(line)
	}
	return sb.String()
}

// printError renders a ScriptError, wrapping its message to the terminal
// width when one can be detected.
func printError(err error) {
	width, _, termErr := term.GetSize(int(os.Stderr.Fd()))
	msg := err.Error()
	if termErr == nil && width > 0 {
		msg = wrap(msg, width)
	}
	fmt.Fprintln(os.Stderr, color.RedString(msg))
}

func wrap(s string, width int) string {
	var out strings.Builder
	for _, line := range strings.Split(s, "\n") {
		for len(line) > width {
			out.WriteString(line[:width])
			out.WriteByte('\n')
			line = line[width:]
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return strings.TrimSuffix(out.String(), "\n")
}
