package indy

import (
	"fmt"
)

// ParseResult carries the parsed tree plus everything error display and
// verbose reporting need afterward
type ParseResult struct {
	Root        *Script
	SourceLines []string
	// Ignored holds non-trivial lines found before start or after the
	// terminating end. They are not fatal; the facade reports them
	// under verbose diagnostics.
	Ignored []Line
}

// blockFrame is one open block on the parse stack
type blockFrame struct {
	kind   LineKind
	line   int
	column int
	node   Node
	inElse bool
}

// blockName names a frame's block kind in error messages
func blockName(kind LineKind) string {
	switch kind {
	case LineStart:
		return "script"
	case LineIf:
		return "if"
	case LineLoop:
		return "loop"
	}
	return kind.String()
}

// terminatorFor returns the end variant that closes a block kind
func terminatorFor(kind LineKind) LineKind {
	switch kind {
	case LineIf:
		return LineEndIf
	case LineLoop:
		return LineEndLoop
	}
	return LineEnd
}

// Parse consumes script source and builds the block tree. It maintains
// an explicit stack of open blocks: start, if and loop push; the
// matching end variant pops. Structural problems (unterminated block,
// mismatched terminator, duplicate else, missing start) are fatal and
// reported with line positions before any execution can begin.
func Parse(source, filename string) (*ParseResult, *ScriptError) {
	sourceLines := splitSourceLines(source)
	result := &ParseResult{SourceLines: sourceLines}

	var root *Script
	var stack []*blockFrame
	scriptClosed := false

	fail := func(message string, pos *SourcePosition) *ScriptError {
		if pos != nil {
			pos.Filename = filename
		}
		return &ScriptError{Message: message, Position: pos, Context: sourceLines}
	}
	linePos := func(line Line) *SourcePosition {
		return &SourcePosition{
			Line:         line.Number,
			Column:       line.Column,
			Length:       max(1, len(line.Raw)-line.Column+1),
			OriginalText: line.Raw,
		}
	}

	for i, raw := range sourceLines {
		line, cerr := ClassifyLine(raw, i+1)
		if cerr != nil {
			cerr.Position.Filename = filename
			cerr.Context = sourceLines
			return nil, cerr
		}

		if len(stack) == 0 {
			// Outside the script block. Only start changes state;
			// blank and comment lines pass silently, anything else is
			// recorded for verbose reporting.
			switch line.Kind {
			case LineStart:
				if scriptClosed {
					result.Ignored = append(result.Ignored, line)
					continue
				}
				root = &Script{Line: line.Number}
				stack = append(stack, &blockFrame{
					kind:   LineStart,
					line:   line.Number,
					column: line.Column,
					node:   root,
				})
			case LineBlank, LineComment:
			default:
				result.Ignored = append(result.Ignored, line)
			}
			continue
		}

		top := stack[len(stack)-1]
		switch line.Kind {
		case LineStart:
			return nil, fail(
				fmt.Sprintf("Unexpected 'start': script block already open (opened at line %d)", stack[0].line),
				linePos(line))

		case LineIf:
			stack = append(stack, &blockFrame{
				kind:   LineIf,
				line:   line.Number,
				column: line.Column,
				node:   &IfElse{Line: line.Number, Cond: line.Cond},
			})

		case LineLoop:
			stack = append(stack, &blockFrame{
				kind:   LineLoop,
				line:   line.Number,
				column: line.Column,
				node:   &Loop{Line: line.Number, Count: line.Count},
			})

		case LineElse:
			if top.kind != LineIf {
				return nil, fail(
					fmt.Sprintf("Unexpected 'else': innermost open block is '%s' (opened at line %d)", blockName(top.kind), top.line),
					linePos(line))
			}
			if top.inElse {
				return nil, fail(
					fmt.Sprintf("Duplicate 'else' in 'if' block opened at line %d", top.line),
					linePos(line))
			}
			top.inElse = true

		case LineEnd, LineEndIf, LineEndLoop:
			expected := terminatorFor(top.kind)
			if line.Kind != expected {
				return nil, fail(
					fmt.Sprintf("Mismatched terminator: expected '%s' to close '%s' opened at line %d, found '%s'",
						expected, blockName(top.kind), top.line, line.Kind),
					linePos(line))
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				scriptClosed = true
			} else {
				appendNode(stack[len(stack)-1], top.node)
			}

		default:
			appendNode(top, line.Cmd)
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, fail(
			fmt.Sprintf("Unterminated '%s' block opened at line %d: missing '%s'",
				blockName(top.kind), top.line, terminatorFor(top.kind)),
			&SourcePosition{
				Line:   top.line,
				Column: top.column,
				Length: 1,
			})
	}
	if root == nil {
		return nil, fail("Script has no 'start' block", nil)
	}

	result.Root = root
	return result, nil
}

// appendNode attaches a finished node to the open block's active region
func appendNode(frame *blockFrame, node Node) {
	switch block := frame.node.(type) {
	case *Script:
		block.Body = append(block.Body, node)
	case *IfElse:
		if frame.inElse {
			block.Else = append(block.Else, node)
		} else {
			block.Then = append(block.Then, node)
		}
	case *Loop:
		block.Body = append(block.Body, node)
	}
}
