package engine

import (
	"time"

	"github.com/aretw0/introspection"
)

// State exposes internal state for observability.
type State struct {
	Rules      int        `json:"rules"`
	Trigger    Trigger    `json:"trigger"`
	ManualMode bool       `json:"manual_mode"`
	Quiescence string     `json:"quiescence"`
	LastRun    *time.Time `json:"last_run,omitempty"`
	Processed  uint64     `json:"processed"`
	Suppressed uint64     `json:"suppressed"`
	Failed     uint64     `json:"failed"`
	Repository string     `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	repoType := "repository"
	if comp, ok := e.repo.(introspection.Component); ok {
		repoType = comp.ComponentType()
	}

	s := State{
		Rules:      e.ruleSet().Len(),
		Trigger:    e.cfg.Trigger,
		ManualMode: e.cfg.ManualMode,
		Quiescence: e.guard.Window().String(),
		Processed:  e.processed.Load(),
		Suppressed: e.suppressed.Load(),
		Failed:     e.failed.Load(),
		Repository: repoType,
	}
	if last := e.guard.LastRun(); !last.IsZero() {
		s.LastRun = &last
	}
	return s
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
