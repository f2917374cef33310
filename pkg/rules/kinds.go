package rules

import "fmt"

// Selector reduces matched lines to a value.
type Selector string

const (
	SelectFirst Selector = "first"
	SelectAll   Selector = "all"
	SelectCount Selector = "count"
)

// PredicateKind decides how a single line is tested against the pattern.
type PredicateKind string

const (
	StartsWith PredicateKind = "startsWith"
	Contains   PredicateKind = "contains"
	EndsWith   PredicateKind = "endsWith"
	Regex      PredicateKind = "regex"
)

// SourceKind selects where a rule's value comes from.
type SourceKind string

const (
	BodyScan           SourceKind = "bodyScan"
	CreatedTimestamp   SourceKind = "createdTimestamp"
	ModifiedTimestamp  SourceKind = "modifiedTimestamp"
	BodyCharacterCount SourceKind = "bodyCharacterCount"
)

// ParseSelector converts a persisted selector name.
func ParseSelector(s string) (Selector, error) {
	switch Selector(s) {
	case SelectFirst, SelectAll, SelectCount:
		return Selector(s), nil
	}
	return "", fmt.Errorf("unknown selector %q", s)
}

// ParsePredicateKind converts a persisted predicate name.
func ParsePredicateKind(s string) (PredicateKind, error) {
	switch PredicateKind(s) {
	case StartsWith, Contains, EndsWith, Regex:
		return PredicateKind(s), nil
	}
	return "", fmt.Errorf("unknown predicate %q", s)
}

// ParseSourceKind converts a persisted source name.
func ParseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case BodyScan, CreatedTimestamp, ModifiedTimestamp, BodyCharacterCount:
		return SourceKind(s), nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}
