package rules

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// predicate tests a line and removes pattern occurrences from result text.
// Implementations are private so every kind is handled here.
type predicate interface {
	match(line string) bool
	omit(line string) string
}

func newPredicate(r Rule) (predicate, error) {
	switch r.Predicate {
	case StartsWith, EndsWith, Contains:
		p := literal{
			kind:    r.Predicate,
			pattern: r.Pattern,
			fold:    !r.CaseSensitive,
			trim:    r.TrimWhitespace,
		}
		if p.fold {
			p.pattern = fold(p.pattern)
			p.omitRe = regexp.MustCompile("(?i)" + regexp.QuoteMeta(r.Pattern))
		}
		return p, nil
	case Regex:
		src := r.Pattern
		if !r.CaseSensitive {
			src = "(?i)" + src
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid regex pattern: %w", ErrInvalidRule, err)
		}
		return pattern{re: re}, nil
	}
	return nil, fmt.Errorf("%w: unknown predicate %q", ErrInvalidRule, r.Predicate)
}

// fold applies Unicode case folding. A Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

type literal struct {
	kind    PredicateKind
	pattern string // folded when fold is set
	fold    bool
	trim    bool
	omitRe  *regexp.Regexp
}

func (p literal) match(line string) bool {
	if p.trim && p.kind != Contains {
		line = strings.TrimSpace(line)
	}
	if p.fold {
		line = fold(line)
	}
	switch p.kind {
	case StartsWith:
		return strings.HasPrefix(line, p.pattern)
	case EndsWith:
		return strings.HasSuffix(line, p.pattern)
	default:
		return strings.Contains(line, p.pattern)
	}
}

func (p literal) omit(line string) string {
	if p.omitRe != nil {
		return p.omitRe.ReplaceAllLiteralString(line, "")
	}
	return strings.ReplaceAll(line, p.pattern, "")
}

type pattern struct {
	re *regexp.Regexp
}

// match always tests the trimmed line.
func (p pattern) match(line string) bool {
	return p.re.MatchString(strings.TrimSpace(line))
}

func (p pattern) omit(line string) string {
	return p.re.ReplaceAllLiteralString(line, "")
}
