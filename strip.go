package main

import "strings"

// scanner states for StripComments.
const (
	scanCode = iota
	scanString
	scanChar
	scanLineComment
	scanBlockComment
)

// StripComments removes comment and documentation text from src according to
// the given syntax, preserving code token order. Line comments strip to end
// of line, block comments strip the whole span (first BlockEnd closes,
// nesting is not recognized), and doc markers ("///", "/** ... */") fall out
// of the same rules. String and character literals pass through verbatim even
// when they contain comment-like substrings. An unterminated block comment
// strips to end of input; this never fails.
//
// The scan is heuristic, not a full lexer: multi-line strings, Swift raw
// string delimiters (#"..."#) and similar constructs are not modeled. Lines
// left empty by stripping are dropped and trailing whitespace is trimmed, so
// the result is stable under repeated stripping.
func StripComments(src string, syntax CommentSyntax) string {
	var out strings.Builder
	out.Grow(len(src))

	state := scanCode
	i := 0
	for i < len(src) {
		switch state {
		case scanCode:
			if syntax.Line != "" && strings.HasPrefix(src[i:], syntax.Line) {
				state = scanLineComment
				i += len(syntax.Line)
				continue
			}
			if syntax.BlockStart != "" && strings.HasPrefix(src[i:], syntax.BlockStart) {
				state = scanBlockComment
				i += len(syntax.BlockStart)
				continue
			}
			c := src[i]
			if c == '"' {
				state = scanString
			} else if c == '\'' && syntax.CharLiteral {
				state = scanChar
			}
			out.WriteByte(c)
			i++

		case scanString, scanChar:
			c := src[i]
			out.WriteByte(c)
			if c == '\\' && i+1 < len(src) {
				out.WriteByte(src[i+1])
				i += 2
				continue
			}
			if (state == scanString && c == '"') || (state == scanChar && c == '\'') {
				state = scanCode
			} else if c == '\n' {
				// Unterminated literal on this line; resynchronize rather
				// than swallow the rest of the file.
				state = scanCode
			}
			i++

		case scanLineComment:
			if src[i] == '\n' {
				out.WriteByte('\n')
				state = scanCode
			}
			i++

		case scanBlockComment:
			if syntax.BlockEnd != "" && strings.HasPrefix(src[i:], syntax.BlockEnd) {
				state = scanCode
				i += len(syntax.BlockEnd)
				continue
			}
			// Keep line structure so stripped spans collapse cleanly below.
			if src[i] == '\n' {
				out.WriteByte('\n')
			}
			i++
		}
	}

	return collapseBlankLines(out.String())
}

// collapseBlankLines trims trailing whitespace per line and drops lines that
// are empty or whitespace-only. The result ends with a newline unless it is
// empty. Applying it twice is a no-op, which makes StripComments idempotent.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n") + "\n"
}
