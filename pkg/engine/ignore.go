package engine

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreList holds document paths that reactive and batch runs skip.
// An entry matches a document ID exactly, as a prefix, or as a doublestar glob.
type IgnoreList []string

// Match reports whether id is ignored.
func (l IgnoreList) Match(id string) bool {
	for _, p := range l {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if id == p || id+".md" == p || strings.HasPrefix(id, p) {
			return true
		}
		if ok, err := doublestar.Match(p, id); err == nil && ok {
			return true
		}
	}
	return false
}
