package codegen

import (
	"fmt"
	"strings"
)

// indentUnit is one level of indentation in generated code.
const indentUnit = "    "

// Lines is generated Rust source, one line per element. Nested blocks are
// indented relative to their parent, so a statement's translation can be
// embedded anywhere by indenting it once more.
type Lines []string

// Line builds a single-line Lines.
func Line(format string, args ...any) Lines {
	if len(args) == 0 {
		return Lines{format}
	}
	return Lines{fmt.Sprintf(format, args...)}
}

// Indent returns a copy with every non-empty line indented one level.
func (l Lines) Indent() Lines {
	out := make(Lines, len(l))
	for i, line := range l {
		if line == "" {
			continue
		}
		out[i] = indentUnit + line
	}
	return out
}

// Append returns l followed by more.
func (l Lines) Append(more ...Lines) Lines {
	out := make(Lines, len(l), len(l)+8)
	copy(out, l)
	for _, m := range more {
		out = append(out, m...)
	}
	return out
}

// String joins the lines with newlines and a trailing newline.
func (l Lines) String() string {
	if len(l) == 0 {
		return ""
	}
	return strings.Join(l, "\n") + "\n"
}

// Block renders `head {`, the indented body, and `}`.
func Block(head string, body Lines) Lines {
	out := make(Lines, 0, len(body)+2)
	if head == "" {
		out = append(out, "{")
	} else {
		out = append(out, head+" {")
	}
	out = append(out, body.Indent()...)
	return append(out, "}")
}

// inline renders a block on one line for use inside expressions:
// `{ a; b }`. Multi-line bodies are joined with spaces.
func inline(body Lines) string {
	parts := make([]string, 0, len(body))
	for _, line := range body {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
