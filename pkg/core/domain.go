// Package core holds the domain types shared by the rule engine and its storage adapters.
package core

import "time"

// Metadata represents the key-value pairs of a document's frontmatter block.
type Metadata map[string]any

// Document is the central entity of the domain.
// It is rebuilt from the authoritative text on every read and never mutated across evaluations.
type Document struct {
	ID       string
	Content  string // Body text after the frontmatter block.
	Raw      string // Full text as stored, frontmatter included.
	Metadata Metadata
	Created  time.Time
	Modified time.Time
}

// EventType represents the type of change in the vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	// EventFocus is emitted when the host switches the active document.
	EventFocus EventType = "FOCUS"
)

// Event represents a change notification for a single document.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}

type contextKey string

// ChangeReasonKey is the context key for passing the commit message of a patch.
const ChangeReasonKey contextKey = "change_reason"
