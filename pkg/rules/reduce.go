package rules

import (
	"regexp"
	"strings"
)

// blockRef matches a trailing block reference such as " ^summary-1".
var blockRef = regexp.MustCompile(`\s+\^\w+$`)

// Matches reports whether line satisfies the rule's predicate.
func (c *Compiled) Matches(line string) bool {
	return c.pred.match(line)
}

// Reduce filters lines through the predicate and reduces the matches per the selector.
//
// The result is an int for SelectCount, a string for SelectFirst and a []string for
// SelectAll. When nothing matches the result is "" for SelectFirst and SelectAll.
func (c *Compiled) Reduce(lines []string) any {
	var matched []string
	for _, l := range lines {
		if c.pred.match(l) {
			matched = append(matched, l)
		}
	}

	if c.rule.Selector == SelectCount {
		return len(matched)
	}
	if len(matched) == 0 {
		return ""
	}
	if c.rule.Selector == SelectFirst {
		return c.finish(matched[0])
	}

	out := make([]string, len(matched))
	for i, l := range matched {
		out[i] = c.finish(l)
	}
	return out
}

// finish applies, in order: pattern omission, trimming, block-reference linking and
// embed-marker stripping.
func (c *Compiled) finish(line string) string {
	if c.rule.OmitPattern {
		line = c.pred.omit(line)
	}
	if c.rule.TrimWhitespace {
		line = strings.TrimSpace(line)
	}
	line = LinkBlockRef(line)
	if strings.HasPrefix(c.rule.Pattern, "!") {
		line = strings.TrimPrefix(line, "!")
	}
	return line
}

// LinkBlockRef rewrites "text ^id" as "[[#^id|text ]]". Lines without a trailing block
// reference are returned unchanged.
func LinkBlockRef(line string) string {
	loc := blockRef.FindStringIndex(line)
	if loc == nil {
		return line
	}
	marker := strings.TrimSpace(line[loc[0]:])
	text := strings.TrimSuffix(line, marker)
	return "[[#" + marker + "|" + text + "]]"
}
