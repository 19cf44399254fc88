package indy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// LineKind classifies one raw source line
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineAssign
	LineSay
	LineWait
	LinePrompt
	LineIf
	LineElse
	LineEndIf
	LineLoop
	LineEndLoop
	LineStart
	LineEnd
	LineUnknown
)

var lineKindNames = map[LineKind]string{
	LineBlank:   "blank",
	LineComment: "comment",
	LineAssign:  "assignment",
	LineSay:     "say",
	LineWait:    "wait",
	LinePrompt:  "prompt",
	LineIf:      "if",
	LineElse:    "else",
	LineEndIf:   "end if",
	LineLoop:    "loop",
	LineEndLoop: "end loop",
	LineStart:   "start",
	LineEnd:     "end",
	LineUnknown: "unknown",
}

func (k LineKind) String() string {
	if name, ok := lineKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Line is one classified source line: the lexer's output and the block
// parser's input. Command kinds carry the ready leaf node in Cmd;
// structural kinds carry their payload in Cond or Count.
type Line struct {
	Kind   LineKind
	Number int
	Column int
	Raw    string
	Cmd    Node
	Cond   Comparison
	Count  LoopCount
}

// ClassifyLine converts one raw source line into exactly one classified
// line. Classification is a pure function of the text and line number.
// Rules in priority order: comment, blank, assignment, keyword line,
// unknown. The only failures are malformed numeric arguments to wait
// and loop, which reject the script before execution.
func ClassifyLine(raw string, number int) (Line, *ScriptError) {
	trimmed := strings.TrimSpace(raw)
	line := Line{
		Kind:   LineUnknown,
		Number: number,
		Column: firstColumn(raw),
		Raw:    raw,
	}

	if trimmed == "" {
		line.Kind = LineBlank
		line.Cmd = &Blank{Line: number}
		return line, nil
	}

	if strings.HasPrefix(trimmed, "#") {
		line.Kind = LineComment
		line.Cmd = &Comment{Line: number}
		return line, nil
	}

	if name, value, ok := splitAssignment(trimmed); ok {
		line.Kind = LineAssign
		line.Cmd = &Assign{Line: number, Name: name, Literal: value}
		return line, nil
	}

	// Bare structural keywords match the whole trimmed line; compound
	// terminators tolerate interior spacing ("end   if").
	switch {
	case trimmed == "start":
		line.Kind = LineStart
		return line, nil
	case trimmed == "end":
		line.Kind = LineEnd
		return line, nil
	case trimmed == "else":
		line.Kind = LineElse
		return line, nil
	}
	if fields := strings.Fields(trimmed); len(fields) == 2 && fields[0] == "end" {
		switch fields[1] {
		case "if":
			line.Kind = LineEndIf
			return line, nil
		case "loop":
			line.Kind = LineEndLoop
			return line, nil
		}
	}

	// Command keywords match on the first whitespace-separated token;
	// the rest of the line is the argument.
	keyword, rest := trimmed, ""
	if idx := strings.IndexFunc(trimmed, unicode.IsSpace); idx >= 0 {
		keyword = trimmed[:idx]
		rest = strings.TrimSpace(trimmed[idx:])
	}

	if rest != "" {
		switch keyword {
		case "say":
			line.Kind = LineSay
			line.Cmd = &Say{Line: number, Template: cleanLiteral(rest)}
			return line, nil

		case "wait":
			seconds, err := strconv.ParseFloat(rest, 64)
			if err != nil || seconds < 0 {
				return line, classifyError(
					fmt.Sprintf("Invalid duration for 'wait': %q must be a non-negative number", rest),
					raw, rest, number)
			}
			line.Kind = LineWait
			line.Cmd = &Wait{Line: number, Seconds: seconds}
			return line, nil

		case "prompt":
			if name, message, ok := splitAssignment(rest); ok {
				line.Kind = LinePrompt
				line.Cmd = &Prompt{Line: number, Name: name, Message: message}
				return line, nil
			}
			// A prompt without Identifier="message" is not a recognized
			// command shape.
			line.Cmd = &Unknown{Line: number, Raw: trimmed}
			return line, nil

		case "if":
			if cond, ok := parseCondition(rest); ok {
				line.Kind = LineIf
				line.Cond = cond
				return line, nil
			}
			line.Cmd = &Unknown{Line: number, Raw: trimmed}
			return line, nil

		case "loop":
			if rest == "forever" {
				line.Kind = LineLoop
				line.Count = LoopCount{Forever: true}
				return line, nil
			}
			times, err := strconv.Atoi(rest)
			if err != nil || times < 0 {
				return line, classifyError(
					fmt.Sprintf("Invalid count for 'loop': %q must be a non-negative integer or 'forever'", rest),
					raw, rest, number)
			}
			line.Kind = LineLoop
			line.Count = LoopCount{Times: times}
			return line, nil
		}
	}

	line.Cmd = &Unknown{Line: number, Raw: trimmed}
	return line, nil
}

// splitAssignment matches the Identifier=Value shape, returning the
// name and the cleaned literal. The split is on the first '='.
func splitAssignment(s string) (name, value string, ok bool) {
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(s[:idx])
	if !isIdentifier(name) {
		return "", "", false
	}
	return name, cleanLiteral(s[idx+1:]), true
}

// parseCondition parses the remainder of an if line: left (==|!=) right.
// A bare-identifier left side is normalized to its {left} template so
// evaluation reads the variable's value; any other left side is kept
// verbatim as a template. The right side is a cleaned literal.
func parseCondition(s string) (Comparison, bool) {
	op := OpEq
	idx := strings.Index(s, "==")
	if idx < 0 {
		idx = strings.Index(s, "!=")
		op = OpNe
	}
	if idx < 0 {
		return Comparison{}, false
	}

	left := strings.TrimSpace(s[:idx])
	right := cleanLiteral(s[idx+2:])
	if left == "" {
		return Comparison{}, false
	}
	if isIdentifier(left) {
		left = "{" + left + "}"
	}
	return Comparison{Left: left, Op: op, Right: right}, true
}

// cleanLiteral trims surrounding whitespace, then strips exactly one
// pair of surrounding double quotes. Interior quotes are preserved and
// no escape processing is performed.
func cleanLiteral(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// isIdentifier reports whether s is a valid variable name:
// [A-Za-z_][A-Za-z0-9_]*
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// firstColumn returns the 1-based column of the first non-whitespace
// character, or 1 for blank lines
func firstColumn(raw string) int {
	for i := 0; i < len(raw); i++ {
		if raw[i] != ' ' && raw[i] != '\t' {
			return i + 1
		}
	}
	return 1
}

// classifyError builds the fatal error for a malformed numeric
// argument, pointing the position at the argument token
func classifyError(message, raw, arg string, number int) *ScriptError {
	column := firstColumn(raw)
	length := len(strings.TrimSpace(raw))
	if arg != "" {
		if idx := strings.LastIndex(raw, arg); idx >= 0 {
			column = idx + 1
			length = len(arg)
		}
	}
	return &ScriptError{
		Message: message,
		Position: &SourcePosition{
			Line:         number,
			Column:       column,
			Length:       length,
			OriginalText: raw,
		},
	}
}

// splitSourceLines splits script text into raw lines, tolerating both
// LF and CRLF terminators
func splitSourceLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
