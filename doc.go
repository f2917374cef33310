// Package autoprop keeps derived frontmatter properties of markdown documents in sync with
// their bodies.
//
// A rule names a frontmatter key and says how to compute its value: scan the body for lines
// that start with, contain, end with or match a pattern and keep the first match, all
// matches or their count; or take the document's created time, modified time or character
// count. Whenever a document changes (or gains focus) the engine recomputes every ruled key
// present in its frontmatter and writes only the values that differ, in a single update.
//
// Writes made by the engine produce change notifications of their own. A global quiescence
// window drops notifications that arrive too soon after a run, so the engine never feeds
// on itself.
//
// Usage:
//
//	eng, err := autoprop.New("./vault",
//		autoprop.WithRules(autoprop.Rule{Key: "summary", Enabled: true, Pattern: "Summary:"}),
//		autoprop.WithLogger(logger),
//	)
//
//	// React to edits until ctx is cancelled.
//	err = eng.Run(ctx)
//
//	// Or update every document once.
//	report, err := eng.ApplyAll(ctx)
package autoprop
