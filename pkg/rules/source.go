package rules

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTimestampLayout formats timestamp-sourced values.
const DefaultTimestampLayout = "2006-01-02T15:04:05"

// Input is everything a rule may read from one document.
type Input struct {
	Lines    []string
	Created  time.Time
	Modified time.Time
	// Layout formats timestamp values. Empty means DefaultTimestampLayout.
	Layout string
}

// source produces a rule's value. Implementations are private so every kind is handled here.
type source interface {
	evaluate(c *Compiled, in Input) any
}

func newSource(kind SourceKind) source {
	switch kind {
	case CreatedTimestamp:
		return createdSource{}
	case ModifiedTimestamp:
		return modifiedSource{}
	case BodyCharacterCount:
		return charCountSource{}
	default:
		return bodyScanSource{}
	}
}

type bodyScanSource struct{}

func (bodyScanSource) evaluate(c *Compiled, in Input) any {
	return c.Reduce(in.Lines)
}

type createdSource struct{}

func (createdSource) evaluate(_ *Compiled, in Input) any {
	return formatTime(in.Created, in.Layout)
}

type modifiedSource struct{}

func (modifiedSource) evaluate(_ *Compiled, in Input) any {
	return formatTime(in.Modified, in.Layout)
}

type charCountSource struct{}

// evaluate counts characters (runes) of the body joined by newlines.
func (charCountSource) evaluate(_ *Compiled, in Input) any {
	return utf8.RuneCountInString(strings.Join(in.Lines, "\n"))
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	return t.Format(layout)
}
