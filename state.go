package indy

import (
	"sort"
	"strings"
)

// Environment is the mutable variable store for one script run. It is a
// flat name-to-string mapping with no lexical scoping: assignment and
// prompt create or overwrite, reads of undefined names yield the empty
// string, and nothing is ever deleted. The single-threaded execution
// model means no locking is needed.
type Environment struct {
	vars map[string]string
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{
		vars: make(map[string]string),
	}
}

// Get returns the value of name, or the empty string when name is
// undefined. Undefined reads are a documented non-fatal policy, not an
// error.
func (e *Environment) Get(name string) string {
	return e.vars[name]
}

// Lookup returns the value of name and whether it is defined
func (e *Environment) Lookup(name string) (string, bool) {
	value, ok := e.vars[name]
	return value, ok
}

// Set creates or overwrites a variable
func (e *Environment) Set(name, value string) {
	e.vars[name] = value
}

// Len returns the number of defined variables
func (e *Environment) Len() int {
	return len(e.vars)
}

// Names returns the defined variable names in sorted order
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Interpolate expands {Name} placeholders in template against the
// environment. The scan is a single left-to-right pass and substituted
// values are never re-scanned. A braced run that is not a valid
// identifier, or an opening brace with no closing brace, passes through
// verbatim; an undefined identifier substitutes the empty string.
func (e *Environment) Interpolate(template string) string {
	if !strings.Contains(template, "{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		if template[i] != '{' {
			b.WriteByte(template[i])
			i++
			continue
		}

		end := strings.IndexByte(template[i+1:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}

		name := template[i+1 : i+1+end]
		if isIdentifier(name) {
			b.WriteString(e.vars[name])
		} else {
			b.WriteString(template[i : i+end+2])
		}
		i += end + 2
	}

	return b.String()
}
