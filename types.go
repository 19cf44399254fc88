package indy

import (
	"fmt"
	"io"
	"os"
	"time"
)

// SourcePosition tracks the position of a line in script source
type SourcePosition struct {
	Line         int
	Column       int
	Length       int
	OriginalText string
	Filename     string
}

// Node is one parsed element of a script: either a leaf command or a
// nested block. The Block Parser produces a tree of Nodes rooted at a
// Script; the Executor walks it read-only.
type Node interface {
	isNode()
}

// Assign stores an interpolated literal into a variable
type Assign struct {
	Line    int
	Name    string
	Literal string
}

func (*Assign) isNode() {}

// Say writes an interpolated template to the output sink, newline-terminated
type Say struct {
	Line     int
	Template string
}

func (*Say) isNode() {}

// Wait suspends execution for a number of seconds (fractional permitted)
type Wait struct {
	Line    int
	Seconds float64
}

func (*Wait) isNode() {}

// Prompt displays an interpolated message and captures one line of input
// into a variable
type Prompt struct {
	Line    int
	Name    string
	Message string
}

func (*Prompt) isNode() {}

// Comment is a no-op line beginning with '#'
type Comment struct {
	Line int
}

func (*Comment) isNode() {}

// Blank is a no-op empty or all-whitespace line
type Blank struct {
	Line int
}

func (*Blank) isNode() {}

// Unknown is an unrecognized line. It never fails execution; the raw
// text is reported as a diagnostic under verbose mode.
type Unknown struct {
	Line int
	Raw  string
}

func (*Unknown) isNode() {}

// Script is the top-level start...end region. Exactly one per script;
// it wraps all executable content.
type Script struct {
	Line int
	Body []Node
}

func (*Script) isNode() {}

// IfElse is a conditional block. Else may be nil when no else clause
// was written.
type IfElse struct {
	Line int
	Cond Comparison
	Then []Node
	Else []Node
}

func (*IfElse) isNode() {}

// Loop is a counted or forever block. The body is parsed but never
// executed in this version; the Executor skips it structurally.
type Loop struct {
	Line  int
	Count LoopCount
	Body  []Node
}

func (*Loop) isNode() {}

// CompareOp is the comparison operator of an if condition
type CompareOp int

const (
	OpEq CompareOp = iota // ==
	OpNe                  // !=
)

func (op CompareOp) String() string {
	if op == OpNe {
		return "!="
	}
	return "=="
}

// Comparison is the single condition of an if block. Left is a template
// interpolated at evaluation time; Right is a cleaned literal. The
// comparison is exact string equality or inequality.
type Comparison struct {
	Left  string
	Op    CompareOp
	Right string
}

// LoopCount is a declared loop count: a non-negative iteration count or
// the sentinel word "forever".
type LoopCount struct {
	Forever bool
	Times   int
}

func (c LoopCount) String() string {
	if c.Forever {
		return "forever"
	}
	return fmt.Sprintf("%d", c.Times)
}

// Config holds configuration for an Indy interpreter
type Config struct {
	// Verbose enables engine diagnostics (script lifecycle, wait and
	// loop notices, unknown line reports) on the Diagnostics sink.
	Verbose bool

	// Output receives say output and prompt messages.
	Output io.Writer

	// Input supplies prompt responses, one line per prompt.
	Input io.Reader

	// Diagnostics receives warnings and errors. A custom writer also
	// receives verbose engine messages; with the default stderr sink
	// those print to standard output alongside script output.
	Diagnostics io.Writer

	// Sleep implements wait suspension. Tests substitute a recording
	// stub so suites never block.
	Sleep func(time.Duration)

	ShowErrorContext bool
	ContextLines     int
}

// DefaultConfig returns default configuration wired to the process
// console
func DefaultConfig() *Config {
	return &Config{
		Verbose:          false,
		Output:           os.Stdout,
		Input:            os.Stdin,
		Diagnostics:      os.Stderr,
		Sleep:            time.Sleep,
		ShowErrorContext: true,
		ContextLines:     2,
	}
}

// ScriptError represents a fatal script error with position information
type ScriptError struct {
	Message  string
	Position *SourcePosition
	Context  []string
}

func (e *ScriptError) Error() string {
	if e.Position == nil {
		return e.Message
	}
	msg := fmt.Sprintf("%s at line %d", e.Message, e.Position.Line)
	if e.Position.Column > 0 {
		msg += fmt.Sprintf(", column %d", e.Position.Column)
	}
	if e.Position.Filename != "" {
		msg += fmt.Sprintf(" in %s", e.Position.Filename)
	}
	return msg
}
