package indy

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// REPLConfig configures the interactive session behavior
type REPLConfig struct {
	// Prompt is printed before each fresh statement; Continuation
	// before each line of a still-open block.
	Prompt       string
	Continuation string
	// ShowPrompts is disabled when input is not attached to a
	// terminal, so piped sessions produce clean transcripts.
	ShowPrompts bool
}

// DefaultREPLConfig returns the standard interactive prompts
func DefaultREPLConfig() REPLConfig {
	return REPLConfig{
		Prompt:       "indy> ",
		Continuation: "....> ",
		ShowPrompts:  true,
	}
}

// REPL is an interactive Indy session. Lines accumulate until the block
// structure balances, then the buffered script executes against the
// persistent session environment, so variables carry across
// submissions. Directives outside the language (":vars", ":reset",
// ":verbose", ":quit") manage the session itself.
type REPL struct {
	indy   *Indy
	env    *Environment
	config REPLConfig
	in     *bufio.Reader
	out    io.Writer
}

// NewREPL creates an interactive session around an interpreter. When in
// is the same source the interpreter reads prompt answers from, both
// share one buffered reader, so read-ahead by either side stays visible
// to the other.
func NewREPL(interp *Indy, in io.Reader, out io.Writer, config REPLConfig) *REPL {
	if config.Prompt == "" {
		config.Prompt = "indy> "
	}
	if config.Continuation == "" {
		config.Continuation = "....> "
	}
	reader := bufio.NewReader(in)
	if interp != nil && in == interp.config.Input {
		reader = interp.executor.in
	}
	return &REPL{
		indy:   interp,
		env:    NewEnvironment(),
		config: config,
		in:     reader,
		out:    out,
	}
}

// Env exposes the session environment
func (r *REPL) Env() *Environment {
	return r.env
}

// Run drives the session until EOF or :quit
func (r *REPL) Run() error {
	var buffer []string
	depth := 0

	for {
		if r.config.ShowPrompts {
			if depth > 0 {
				fmt.Fprint(r.out, r.config.Continuation)
			} else {
				fmt.Fprint(r.out, r.config.Prompt)
			}
		}

		raw, err := r.in.ReadString('\n')
		if raw == "" && err != nil {
			if len(buffer) > 0 {
				r.execute(buffer)
			}
			if r.config.ShowPrompts {
				fmt.Fprintln(r.out)
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		raw = strings.TrimSuffix(raw, "\n")
		raw = strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(raw)

		if depth == 0 && strings.HasPrefix(trimmed, ":") {
			if quit := r.directive(trimmed); quit {
				return nil
			}
			continue
		}

		buffer = append(buffer, raw)
		depth = nextDepth(depth, raw, len(buffer))

		if depth == 0 {
			r.execute(buffer)
			buffer = nil
		}
	}
}

// nextDepth adjusts the open-block count for one buffered line.
// Classification errors are ignored here; the parser reports them when
// the buffer executes.
func nextDepth(depth int, raw string, number int) int {
	line, _ := ClassifyLine(raw, number)
	switch line.Kind {
	case LineStart, LineIf, LineLoop:
		depth++
	case LineEnd, LineEndIf, LineEndLoop:
		if depth > 0 {
			depth--
		}
	}
	return depth
}

// execute runs the accumulated lines as one script. Input that never
// opened its own script block is wrapped in start/end so single
// commands work naturally at the prompt. Errors are already reported
// through the interpreter's diagnostics sink.
func (r *REPL) execute(buffer []string) {
	source := strings.Join(buffer, "\n")

	first, _ := ClassifyLine(buffer[0], 1)
	if first.Kind != LineStart {
		source = "start\n" + source + "\nend"
	}

	_ = r.indy.ExecuteWithEnv(source, r.env)
}

// directive handles one session directive, returning true on quit
func (r *REPL) directive(line string) bool {
	switch line {
	case ":quit", ":exit":
		return true
	case ":vars":
		if r.env.Len() == 0 {
			fmt.Fprintln(r.out, "(no variables)")
			return false
		}
		for _, name := range r.env.Names() {
			fmt.Fprintf(r.out, "%s = %q\n", name, r.env.Get(name))
		}
	case ":reset":
		r.env = NewEnvironment()
		fmt.Fprintln(r.out, "Environment cleared.")
	case ":verbose":
		logger := r.indy.Logger()
		logger.SetEnabled(!logger.Enabled())
		if logger.Enabled() {
			fmt.Fprintln(r.out, "Verbose diagnostics on.")
		} else {
			fmt.Fprintln(r.out, "Verbose diagnostics off.")
		}
	default:
		fmt.Fprintf(r.out, "Unknown directive '%s' (try :vars, :reset, :verbose, :quit)\n", line)
	}
	return false
}
