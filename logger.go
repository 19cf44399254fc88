package indy

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota // Verbose engine diagnostics (requires enabled)
	LevelError                 // Runtime errors (always shown)
	LevelFatal                 // Parse errors (always shown)
)

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m" // Bright yellow foreground
	colorReset  = "\x1b[0m"  // Reset to default
)

// Logger is the diagnostics sink for an interpreter: verbose engine
// messages gated behind the enabled flag, and always-visible errors
// with optional source context.
type Logger struct {
	enabled      bool
	out          io.Writer
	errOut       io.Writer
	colorEnabled bool
	contextLines int
}

// stderrSupportsColor checks if stderr is a terminal that supports color output
func stderrSupportsColor() bool {
	stderrInfo, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	if (stderrInfo.Mode() & os.ModeCharDevice) == 0 {
		return false
	}

	// Respect NO_COLOR environment variable (https://no-color.org/)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if term := os.Getenv("TERM"); term == "dumb" {
		return false
	}

	return true
}

// NewLogger creates a new logger
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled:      enabled,
		out:          os.Stdout,
		errOut:       os.Stderr,
		colorEnabled: stderrSupportsColor(),
		contextLines: 2,
	}
}

// SetEnabled enables or disables verbose diagnostics
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// Enabled reports whether verbose diagnostics are active
func (l *Logger) Enabled() bool {
	return l.enabled
}

// SetOutput redirects both diagnostic streams. Color stays active only
// while the error stream is the process stderr and that is a capable
// terminal.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.out = out
	l.errOut = errOut
	l.colorEnabled = errOut == os.Stderr && stderrSupportsColor()
}

// SetContextLines sets how many source lines precede an error in
// context display
func (l *Logger) SetContextLines(lines int) {
	if lines < 0 {
		lines = 0
	}
	if lines > 10 {
		lines = 10
	}
	l.contextLines = lines
}

// shouldLog determines if a message should be logged for the level
func (l *Logger) shouldLog(level LogLevel) bool {
	switch level {
	case LevelFatal, LevelError:
		return true
	case LevelDebug:
		return l.enabled
	default:
		return false
	}
}

// writeOutput routes a finished message: debug to the out stream,
// warnings and errors to the error stream with color when available
func (l *Logger) writeOutput(isDebug bool, output string) {
	if isDebug {
		_, _ = fmt.Fprintln(l.out, output)
		return
	}
	if l.colorEnabled {
		_, _ = fmt.Fprintf(l.errOut, "%s%s%s\n", colorYellow, output, colorReset)
	} else {
		_, _ = fmt.Fprintln(l.errOut, output)
	}
}

// Log is the unified logging method
func (l *Logger) Log(level LogLevel, message string, position *SourcePosition, context []string) {
	if !l.shouldLog(level) {
		return
	}

	var prefix string
	switch level {
	case LevelDebug:
		prefix = "[Indy Engine]"
	case LevelError, LevelFatal:
		prefix = "[Indy ERROR]"
	}

	output := fmt.Sprintf("%s %s", prefix, message)

	if position != nil {
		output += fmt.Sprintf("\n  at line %d", position.Line)
		if position.Column > 0 {
			output += fmt.Sprintf(", column %d", position.Column)
		}
		if position.Filename != "" {
			output += fmt.Sprintf(" in %s", position.Filename)
		}

		if len(context) > 0 {
			output += l.formatSourceContext(position, context)
		}
	}

	l.writeOutput(level == LevelDebug, output)
}

// Debug logs a verbose engine message (shown only when enabled)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.Log(LevelDebug, fmt.Sprintf(format, args...), nil, nil)
}

// Error logs an error message (always shown)
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LevelError, fmt.Sprintf(format, args...), nil, nil)
}

// ParseError logs a fatal parse error with position and source context
// (always shown)
func (l *Logger) ParseError(message string, position *SourcePosition, context []string) {
	l.Log(LevelFatal, fmt.Sprintf("Parse error: %s", message), position, context)
}

// ScriptError logs a fatal script error value through the parse error path
func (l *Logger) ScriptError(err *ScriptError) {
	if err == nil {
		return
	}
	l.ParseError(err.Message, err.Position, err.Context)
}

// formatSourceContext formats source context with line numbers and a
// caret under the offending column
func (l *Logger) formatSourceContext(position *SourcePosition, context []string) string {
	var message strings.Builder
	message.WriteString("\n")

	contextStart := max(0, position.Line-1-l.contextLines)
	contextEnd := min(len(context), position.Line+1)

	for i := contextStart; i < contextEnd; i++ {
		lineNum := i + 1
		isErrorLine := lineNum == position.Line

		prefix := " "
		if isErrorLine {
			prefix = ">"
		}

		message.WriteString(fmt.Sprintf("\n  %s %3d | %s", prefix, lineNum, context[i]))

		if isErrorLine && position.Column > 0 {
			indent := "      | " + strings.Repeat(" ", position.Column-1)
			caret := strings.Repeat("^", max(1, position.Length))
			message.WriteString(fmt.Sprintf("\n  %s%s", indent, caret))
		}
	}

	return message.String()
}
