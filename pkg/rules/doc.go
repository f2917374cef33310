// Package rules evaluates user-authored auto-property rules against a document body.
//
// A Rule names a frontmatter key and says how its value is derived: either by scanning the
// body for lines that match a pattern and reducing the matches (first line, all lines, or a
// count), or by reading a document-level fact such as its creation time.
//
// Rules are compiled once with Compile (or NewSet for a whole configuration). Compilation
// validates the rule and pre-builds its predicate, so evaluation never fails at runtime:
//
//	set, err := rules.NewSet(cfg.Rules)
//	lines := rules.SplitBody(raw)
//	if r, ok := set.Lookup("summary"); ok {
//		value := r.Evaluate(rules.Input{Lines: lines})
//	}
package rules
