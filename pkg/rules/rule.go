package rules

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule is a user-authored auto-property definition as persisted in settings.
type Rule struct {
	Key            string        `yaml:"key" json:"key" mapstructure:"key" validate:"required"`
	Enabled        bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Selector       Selector      `yaml:"selector" json:"selector" mapstructure:"selector" validate:"omitempty,oneof=first all count"`
	Predicate      PredicateKind `yaml:"predicate" json:"predicate" mapstructure:"predicate" validate:"omitempty,oneof=startsWith contains endsWith regex"`
	Pattern        string        `yaml:"pattern" json:"pattern" mapstructure:"pattern"`
	TrimWhitespace bool          `yaml:"trim_whitespace" json:"trim_whitespace" mapstructure:"trim_whitespace"`
	OmitPattern    bool          `yaml:"omit_pattern" json:"omit_pattern" mapstructure:"omit_pattern"`
	CaseSensitive  bool          `yaml:"case_sensitive" json:"case_sensitive" mapstructure:"case_sensitive"`
	AutoAdd        bool          `yaml:"auto_add" json:"auto_add" mapstructure:"auto_add"`
	Source         SourceKind    `yaml:"source" json:"source" mapstructure:"source" validate:"omitempty,oneof=bodyScan createdTimestamp modifiedTimestamp bodyCharacterCount"`
}

// DefaultRule returns the values a new or partially persisted rule starts from.
func DefaultRule() Rule {
	return Rule{
		Enabled:        true,
		Selector:       SelectFirst,
		Predicate:      StartsWith,
		TrimWhitespace: true,
		Source:         BodyScan,
	}
}

// UnmarshalYAML decodes a rule on top of DefaultRule so absent fields keep their defaults.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	type plain Rule
	decoded := plain(DefaultRule())
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*r = Rule(decoded)
	return nil
}

// Normalized returns a copy with empty enum fields defaulted and a backslash-wrapped
// regex pattern (`\foo\`) unwrapped.
func (r Rule) Normalized() Rule {
	def := DefaultRule()
	if r.Selector == "" {
		r.Selector = def.Selector
	}
	if r.Predicate == "" {
		r.Predicate = def.Predicate
	}
	if r.Source == "" {
		r.Source = def.Source
	}
	r.Key = strings.TrimSpace(r.Key)
	if r.Predicate == Regex && len(r.Pattern) >= 2 &&
		strings.HasPrefix(r.Pattern, `\`) && strings.HasSuffix(r.Pattern, `\`) {
		r.Pattern = r.Pattern[1 : len(r.Pattern)-1]
	}
	return r
}

// Summary renders a one-line human description of the rule.
func Summary(r Rule) string {
	if !r.Enabled {
		return "- auto-property not enabled"
	}
	r = r.Normalized()
	switch r.Source {
	case CreatedTimestamp:
		return "Use the creation time"
	case ModifiedTimestamp:
		return "Use the last modification time"
	case BodyCharacterCount:
		return "Count the characters of the body"
	}

	var head string
	switch r.Selector {
	case SelectFirst:
		head = "Pull the first line"
	case SelectAll:
		head = "Pull all lines"
	case SelectCount:
		head = "Count the lines"
	}
	var pred string
	switch r.Predicate {
	case StartsWith:
		pred = "starting with"
	case Contains:
		pred = "containing"
	case EndsWith:
		pred = "ending with"
	case Regex:
		pred = "matching regex"
	}
	return head + " " + pred + ` "` + r.Pattern + `"`
}
