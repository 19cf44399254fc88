package indy

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseBasicScript(t *testing.T) {
	source := `start
Name = "World"
say "Hello, {Name}!"
end`

	result, err := Parse(source, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &Script{
		Line: 1,
		Body: []Node{
			&Assign{Line: 2, Name: "Name", Literal: "World"},
			&Say{Line: 3, Template: "Hello, {Name}!"},
		},
	}
	if !reflect.DeepEqual(result.Root, want) {
		t.Errorf("Parse() root = %+v, want %+v", result.Root, want)
	}
}

func TestParseNestedBlocks(t *testing.T) {
	source := `start
if {A} == "1"
say "yes"
else
loop 2
say "never"
end loop
say "no"
end if
end`

	result, err := Parse(source, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &Script{
		Line: 1,
		Body: []Node{
			&IfElse{
				Line: 2,
				Cond: Comparison{Left: "{A}", Op: OpEq, Right: "1"},
				Then: []Node{
					&Say{Line: 3, Template: "yes"},
				},
				Else: []Node{
					&Loop{
						Line:  5,
						Count: LoopCount{Times: 2},
						Body: []Node{
							&Say{Line: 6, Template: "never"},
						},
					},
					&Say{Line: 8, Template: "no"},
				},
			},
		},
	}
	if !reflect.DeepEqual(result.Root, want) {
		t.Errorf("Parse() root = %+v, want %+v", result.Root, want)
	}
}

func TestParseElseBindsInnermostIf(t *testing.T) {
	source := `start
if {A} == "1"
if {B} == "2"
else
say "inner else"
end if
end if
end`

	result, err := Parse(source, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	outer, ok := result.Root.Body[0].(*IfElse)
	if !ok {
		t.Fatalf("Parse() body[0] = %T, want *IfElse", result.Root.Body[0])
	}
	if outer.Else != nil {
		t.Errorf("Parse() outer else = %+v, want nil", outer.Else)
	}
	inner, ok := outer.Then[0].(*IfElse)
	if !ok {
		t.Fatalf("Parse() outer then[0] = %T, want *IfElse", outer.Then[0])
	}
	if len(inner.Else) != 1 {
		t.Fatalf("Parse() inner else length = %d, want 1", len(inner.Else))
	}
	if say, ok := inner.Else[0].(*Say); !ok || say.Template != "inner else" {
		t.Errorf("Parse() inner else[0] = %+v, want say %q", inner.Else[0], "inner else")
	}
}

func TestParseKeepsNoOpLines(t *testing.T) {
	source := `start

# a note
say "x"
end`

	result, err := Parse(source, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &Script{
		Line: 1,
		Body: []Node{
			&Blank{Line: 2},
			&Comment{Line: 3},
			&Say{Line: 4, Template: "x"},
		},
	}
	if !reflect.DeepEqual(result.Root, want) {
		t.Errorf("Parse() root = %+v, want %+v", result.Root, want)
	}
}

func TestParseIdempotence(t *testing.T) {
	source := `start
Name = "World"
if {Name} != "nobody"
say "Hello, {Name}!"
else
say "Hello, stranger!"
end if
loop 3
wait 0.5
end loop
end`

	first, err := Parse(source, "")
	if err != nil {
		t.Fatalf("Parse() first error = %v", err)
	}
	second, err := Parse(source, "")
	if err != nil {
		t.Fatalf("Parse() second error = %v", err)
	}

	if !reflect.DeepEqual(first.Root, second.Root) {
		t.Errorf("Parse() produced different trees for identical source")
	}
	if !reflect.DeepEqual(first.SourceLines, second.SourceLines) {
		t.Errorf("Parse() produced different source lines for identical source")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		wantMessage string
		wantLine    int
	}{
		{
			name:        "unterminated script",
			source:      "start\nsay \"hi\"",
			wantMessage: "Unterminated 'script' block opened at line 1: missing 'end'",
			wantLine:    1,
		},
		{
			name:        "unterminated if",
			source:      "start\nif {A} == \"1\"\nsay \"x\"",
			wantMessage: "Unterminated 'if' block opened at line 2: missing 'end if'",
			wantLine:    2,
		},
		{
			name:        "unterminated loop",
			source:      "start\nloop forever\nsay \"x\"",
			wantMessage: "Unterminated 'loop' block opened at line 2: missing 'end loop'",
			wantLine:    2,
		},
		{
			name:        "plain end closing if",
			source:      "start\nif {A} == \"1\"\nsay \"x\"\nend",
			wantMessage: "Mismatched terminator: expected 'end if' to close 'if' opened at line 2, found 'end'",
			wantLine:    4,
		},
		{
			name:        "end if closing script",
			source:      "start\nend if",
			wantMessage: "Mismatched terminator: expected 'end' to close 'script' opened at line 1, found 'end if'",
			wantLine:    2,
		},
		{
			name:        "malformed if leaves its end if stranded",
			source:      "start\nif Mode = \"x\"\nsay \"hi\"\nend if\nend",
			wantMessage: "Mismatched terminator: expected 'end' to close 'script' opened at line 1, found 'end if'",
			wantLine:    4,
		},
		{
			name:        "end loop closing if",
			source:      "start\nif {A} == \"1\"\nend loop",
			wantMessage: "Mismatched terminator: expected 'end if' to close 'if' opened at line 2, found 'end loop'",
			wantLine:    3,
		},
		{
			name:        "else directly in script",
			source:      "start\nelse\nend",
			wantMessage: "Unexpected 'else': innermost open block is 'script' (opened at line 1)",
			wantLine:    2,
		},
		{
			name:        "else in loop",
			source:      "start\nloop 2\nelse\nend loop\nend",
			wantMessage: "Unexpected 'else': innermost open block is 'loop' (opened at line 2)",
			wantLine:    3,
		},
		{
			name:        "duplicate else",
			source:      "start\nif {A} == \"1\"\nelse\nelse\nend if\nend",
			wantMessage: "Duplicate 'else' in 'if' block opened at line 2",
			wantLine:    4,
		},
		{
			name:        "nested start",
			source:      "start\nstart\nend",
			wantMessage: "Unexpected 'start': script block already open (opened at line 1)",
			wantLine:    2,
		},
		{
			name:        "no start block",
			source:      "say \"hi\"",
			wantMessage: "Script has no 'start' block",
		},
		{
			name:        "empty source",
			source:      "",
			wantMessage: "Script has no 'start' block",
		},
		{
			name:        "bad wait argument",
			source:      "start\nwait abc\nend",
			wantMessage: "Invalid duration for 'wait': \"abc\" must be a non-negative number",
			wantLine:    2,
		},
		{
			name:        "bad loop argument",
			source:      "start\nloop 2.5\nend",
			wantMessage: "Invalid count for 'loop': \"2.5\" must be a non-negative integer or 'forever'",
			wantLine:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.source, "")
			if err == nil {
				t.Fatalf("Parse() error = nil, want %q", tt.wantMessage)
			}
			if result != nil {
				t.Errorf("Parse() result = %+v, want nil on error", result)
			}
			if err.Message != tt.wantMessage {
				t.Errorf("Parse() error = %q, want %q", err.Message, tt.wantMessage)
			}
			if tt.wantLine == 0 {
				if err.Position != nil {
					t.Errorf("Parse() position = %+v, want nil", err.Position)
				}
				return
			}
			if err.Position == nil {
				t.Fatalf("Parse() position = nil, want line %d", tt.wantLine)
			}
			if err.Position.Line != tt.wantLine {
				t.Errorf("Parse() error line = %d, want %d", err.Position.Line, tt.wantLine)
			}
		})
	}
}

func TestParseErrorFilename(t *testing.T) {
	_, err := Parse("start\nsay \"hi\"", "demo.indy")
	if err == nil {
		t.Fatalf("Parse() error = nil, want error")
	}
	if err.Position == nil || err.Position.Filename != "demo.indy" {
		t.Fatalf("Parse() position = %+v, want filename demo.indy", err.Position)
	}
	if !strings.Contains(err.Error(), "in demo.indy") {
		t.Errorf("Error() = %q, want filename mention", err.Error())
	}
}

func TestParseIgnoredLines(t *testing.T) {
	source := `say "before"

# outside comment
start
say "inside"
end
say "after"
start`

	result, err := Parse(source, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(result.Root.Body) != 1 {
		t.Errorf("Parse() body length = %d, want 1", len(result.Root.Body))
	}

	var ignoredLines []int
	for _, line := range result.Ignored {
		ignoredLines = append(ignoredLines, line.Number)
	}
	want := []int{1, 7, 8}
	if !reflect.DeepEqual(ignoredLines, want) {
		t.Errorf("Parse() ignored lines = %v, want %v", ignoredLines, want)
	}
}
