package rules

import "strings"

// Delimiter is the line that opens and closes a frontmatter block.
const Delimiter = "---"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines splits text on \r\n, \r or \n.
func SplitLines(text string) []string {
	return strings.Split(lineBreaks.Replace(text), "\n")
}

// SplitBody returns the body lines of a raw document, excluding its frontmatter block.
//
// When the first line is not exactly "---" the whole text is body. Otherwise the body is every
// line after the next "---" line; an unterminated block leaves no body.
func SplitBody(raw string) []string {
	lines := SplitLines(raw)
	if lines[0] != Delimiter {
		return lines
	}
	i := 1
	for i < len(lines) && lines[i] != Delimiter {
		i++
	}
	if i < len(lines) {
		i++
	}
	return lines[i:]
}
