package rules

import (
	"errors"
	"fmt"
)

// Compiled is a validated rule ready for evaluation.
type Compiled struct {
	rule Rule
	pred predicate
	src  source
}

// Compile validates r and pre-builds its predicate. Configuration errors wrap ErrInvalidRule.
func Compile(r Rule) (*Compiled, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	r = r.Normalized()

	c := &Compiled{rule: r, src: newSource(r.Source)}
	if r.Source == BodyScan {
		p, err := newPredicate(r)
		if err != nil {
			return nil, err
		}
		c.pred = p
	} else {
		c.pred = never{}
	}
	return c, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and static rules.
func MustCompile(r Rule) *Compiled {
	c, err := Compile(r)
	if err != nil {
		panic(err)
	}
	return c
}

// Rule returns the normalized rule.
func (c *Compiled) Rule() Rule {
	return c.rule
}

// Key is the frontmatter key the rule governs.
func (c *Compiled) Key() string {
	return c.rule.Key
}

// Evaluate computes the rule's value for one document.
func (c *Compiled) Evaluate(in Input) any {
	return c.src.evaluate(c, in)
}

// Match compiles r and tests a single line against it.
func Match(line string, r Rule) (bool, error) {
	c, err := Compile(r)
	if err != nil {
		return false, err
	}
	return c.Matches(line), nil
}

// Reduce compiles r and reduces lines with it.
func Reduce(lines []string, r Rule) (any, error) {
	c, err := Compile(r)
	if err != nil {
		return nil, err
	}
	return c.Reduce(lines), nil
}

type never struct{}

func (never) match(string) bool       { return false }
func (never) omit(line string) string { return line }

// Set is the read-only collection of enabled rules the engine evaluates.
type Set struct {
	rules []*Compiled
	byKey map[string]*Compiled
}

// NewSet compiles every enabled rule. When two enabled rules share a key the first one wins.
//
// Invalid rules are left out of the set and reported together in the returned error; the set
// is still usable so one bad rule never blocks the others.
func NewSet(rs []Rule) (*Set, error) {
	s := &Set{byKey: make(map[string]*Compiled)}
	var errs []error
	for i, r := range rs {
		if !r.Enabled {
			continue
		}
		c, err := Compile(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		if _, dup := s.byKey[c.Key()]; dup {
			continue
		}
		s.byKey[c.Key()] = c
		s.rules = append(s.rules, c)
	}
	return s, errors.Join(errs...)
}

// Lookup returns the enabled rule governing key.
func (s *Set) Lookup(key string) (*Compiled, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.byKey[key]
	return c, ok
}

// Rules returns the compiled rules in configuration order.
func (s *Set) Rules() []*Compiled {
	if s == nil {
		return nil
	}
	return s.rules
}

// Len returns the number of enabled, valid rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}
