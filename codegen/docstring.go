package codegen

import (
	"fmt"
	"strings"
)

// FormatDocstring turns a Python docstring into documentation text.
//
// The first line, trimmed, is the summary. A blank line separates it from the
// body when the first two lines are both non-empty. Blank body lines are
// dropped and the rest are trimmed of indentation. A docstring still wrapped
// in its triple-quote delimiters has them removed; other quotes are content.
func FormatDocstring(raw string) string {
	content := raw
	for _, delim := range []string{`"""`, `'''`} {
		if len(content) >= 2*len(delim) && strings.HasPrefix(content, delim) && strings.HasSuffix(content, delim) {
			content = content[len(delim) : len(content)-len(delim)]
			break
		}
	}
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if len(lines) == 0 || (len(lines) == 1 && strings.TrimSpace(lines[0]) == "") {
		return ""
	}

	formatted := []string{strings.TrimSpace(lines[0])}
	if len(lines) > 1 {
		if strings.TrimSpace(lines[0]) != "" && strings.TrimSpace(lines[1]) != "" {
			formatted = append(formatted, "")
		}
		for _, line := range lines[1:] {
			if cleaned := strings.TrimSpace(line); cleaned != "" {
				formatted = append(formatted, cleaned)
			}
		}
	}
	return strings.Join(formatted, "\n")
}

// DocLines renders a docstring as `///` documentation comments.
func DocLines(raw string) Lines {
	return docComment(raw, "///")
}

// ModuleDocLines renders a docstring as inner `//!` documentation comments.
func ModuleDocLines(raw string) Lines {
	return docComment(raw, "//!")
}

func docComment(raw, marker string) Lines {
	text := FormatDocstring(raw)
	if text == "" {
		return nil
	}
	var out Lines
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			out = append(out, marker)
			continue
		}
		out = append(out, marker+" "+line)
	}
	return out
}

// rustString renders s as a Rust string literal.
func rustString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u{%x}`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// rustBytes renders s as a Rust byte string literal. Non-ASCII bytes are
// hex escaped.
func rustBytes(s string) string {
	var sb strings.Builder
	sb.WriteString(`b"`)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// formatEscape doubles braces so literal text survives inside format!.
func formatEscape(s string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}
