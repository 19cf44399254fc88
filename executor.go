package indy

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Executor walks a parsed block tree and performs command effects:
// console output, input capture, timed suspension, environment
// mutation. The output sink, input source and sleep primitive are
// injected so runs are deterministic under test. Execution is strictly
// sequential on the calling goroutine; Wait and Prompt block it.
type Executor struct {
	logger *Logger
	out    io.Writer
	in     *bufio.Reader
	sleep  func(time.Duration)
}

// NewExecutor creates an executor bound to a logger and an I/O surface
func NewExecutor(logger *Logger, out io.Writer, in io.Reader, sleep func(time.Duration)) *Executor {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Executor{
		logger: logger,
		out:    out,
		in:     bufio.NewReader(in),
		sleep:  sleep,
	}
}

// Run executes a parsed script against env. Runtime issues degrade
// gracefully (undefined variables read empty, unknown lines only
// report under verbose, failed prompt reads leave the variable unset),
// so a run that begins always completes.
func (ex *Executor) Run(script *Script, env *Environment) {
	ex.logger.Debug("Script started.")
	ex.runBody(script.Body, env)
	ex.logger.Debug("Script finished.")
}

func (ex *Executor) runBody(nodes []Node, env *Environment) {
	for _, node := range nodes {
		ex.runNode(node, env)
	}
}

func (ex *Executor) runNode(node Node, env *Environment) {
	switch n := node.(type) {
	case *Assign:
		env.Set(n.Name, env.Interpolate(n.Literal))

	case *Say:
		_, _ = fmt.Fprintln(ex.out, env.Interpolate(n.Template))

	case *Wait:
		ex.logger.Debug("Waiting for %g seconds...", n.Seconds)
		ex.sleep(time.Duration(n.Seconds * float64(time.Second)))

	case *Prompt:
		ex.runPrompt(n, env)

	case *IfElse:
		left := env.Interpolate(n.Cond.Left)
		matched := left == n.Cond.Right
		if n.Cond.Op == OpNe {
			matched = !matched
		}
		if matched {
			ex.runBody(n.Then, env)
		} else if len(n.Else) > 0 {
			ex.runBody(n.Else, env)
		}

	case *Loop:
		// The body is parsed but iteration is not implemented yet; the
		// block is consumed structurally so siblings keep executing.
		ex.logger.Debug("Loop (%s) encountered. (Simulation: skipping block to continue execution)", n.Count)

	case *Unknown:
		ex.logger.Debug("Unknown command or bad syntax: '%s'", n.Raw)

	case *Comment, *Blank:

	case *Script:
		ex.runBody(n.Body, env)
	}
}

// runPrompt displays the interpolated message with the fixed ": "
// separator, reads one line and stores it minus the trailing line
// terminator. A failed read reports an error and leaves the variable
// unset, which reads back as the empty string.
func (ex *Executor) runPrompt(prompt *Prompt, env *Environment) {
	_, _ = fmt.Fprintf(ex.out, "%s: ", env.Interpolate(prompt.Message))

	text, err := ex.in.ReadString('\n')
	if err != nil && text == "" {
		ex.logger.Error("Failed to read input for prompt '%s'", prompt.Name)
		return
	}

	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	env.Set(prompt.Name, text)
}
