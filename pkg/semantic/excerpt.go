package semantic

import (
	"fmt"
	"strings"

	"github.com/raymyers/ralph-fp/pkg/ast"
)

// Excerpt quotes the source line at pos and underlines the token starting
// at pos with carets:
//
//	      2:     int a = 1.0;
//	             ^^^
//
// It returns "" when pos lies outside src.
func Excerpt(src string, pos ast.Pos) string {
	lines := strings.Split(src, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[pos.Line-1], "\r")
	start := pos.Column - 1
	if start < 0 || start > len(line) {
		return ""
	}

	prefix := fmt.Sprintf("%7d: ", pos.Line)
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(line)
	b.WriteByte('\n')

	// Keep tabs so the carets line up under the quoted text
	b.WriteString(strings.Repeat(" ", len(prefix)))
	for _, ch := range []byte(line[:start]) {
		if ch == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString(strings.Repeat("^", tokenLength(line[start:])))
	b.WriteByte('\n')
	return b.String()
}

// tokenLength is the length of the word or number s starts with, or 1 for
// an operator
func tokenLength(s string) int {
	n := 0
	for n < len(s) && isWordByte(s[n]) {
		n++
	}
	return max(n, 1)
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch == '.' ||
		'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9'
}
