package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"

	"github.com/aretw0/autoprop/pkg/core"
	"github.com/aretw0/autoprop/pkg/rules"
)

// Trigger selects which notifications feed the reactive path.
type Trigger string

const (
	// TriggerModify reacts to documents being created or modified.
	TriggerModify Trigger = "modify"
	// TriggerFocus reacts to the host switching the active document.
	TriggerFocus Trigger = "focus"
)

// Config holds the configuration for the Engine.
type Config struct {
	Logger          *slog.Logger
	Clock           Clock
	Quiescence      time.Duration
	Trigger         Trigger
	ManualMode      bool // Ignore every notification; only manual runs apply.
	ShowNotices     bool
	Ignored         IgnoreList
	Notifier        Notifier
	TextSource      core.TextSource
	TimestampLayout string
	WatchPattern    string // Defaults to "**/*".
}

// Result is the outcome of evaluating one document.
type Result struct {
	ID      string        `json:"id"`
	Patch   core.Metadata `json:"patch"`
	Applied bool          `json:"applied"`
}

// Failure records a document that could not be processed during a batch run.
type Failure struct {
	ID  string
	Err error
}

// MarshalJSON renders the error as its message.
func (f Failure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		ID    string `json:"id"`
		Error string `json:"error"`
	}{f.ID, msg})
}

// Report summarizes a batch run.
type Report struct {
	RunID    string    `json:"run_id"`
	Scanned  int       `json:"scanned"`
	Updated  int       `json:"updated"`
	Skipped  int       `json:"skipped"`
	Failures []Failure `json:"failures,omitempty"`
}

// Engine keeps derived frontmatter values in sync with document bodies.
type Engine struct {
	repo  core.Repository
	guard *Guard
	cfg   Config

	rulesMu sync.RWMutex
	rules   *rules.Set

	// runMu serializes evaluations so no two runs interleave on the same document.
	runMu sync.Mutex

	processed  atomic.Uint64
	suppressed atomic.Uint64
	failed     atomic.Uint64
}

// New creates an Engine over repo evaluating set.
func New(repo core.Repository, set *rules.Set, cfg Config) *Engine {
	if cfg.Trigger == "" {
		cfg.Trigger = TriggerModify
	}
	if cfg.WatchPattern == "" {
		cfg.WatchPattern = "**/*"
	}
	return &Engine{
		repo:  repo,
		rules: set,
		guard: NewGuard(cfg.Quiescence, cfg.Clock),
		cfg:   cfg,
	}
}

// SetRules swaps the rule set, e.g. after the settings file changed.
func (e *Engine) SetRules(set *rules.Set) {
	e.rulesMu.Lock()
	defer e.rulesMu.Unlock()
	e.rules = set
}

func (e *Engine) ruleSet() *rules.Set {
	e.rulesMu.RLock()
	defer e.rulesMu.RUnlock()
	return e.rules
}

// Guard exposes the re-entrancy guard of the reactive path.
func (e *Engine) Guard() *Guard {
	return e.guard
}

// Evaluate computes the patch for one document without writing it.
func (e *Engine) Evaluate(ctx context.Context, id string) (Result, error) {
	doc, err := e.repo.Get(ctx, id)
	if err != nil {
		return Result{ID: id}, fmt.Errorf("read %s: %w", id, err)
	}

	text := doc.Raw
	if e.cfg.TextSource != nil {
		if live, ok := e.cfg.TextSource.CurrentText(ctx, id); ok {
			text = live
		}
	}

	in := rules.Input{
		Lines:    rules.SplitBody(text),
		Created:  doc.Created,
		Modified: doc.Modified,
		Layout:   e.cfg.TimestampLayout,
	}
	return Result{ID: id, Patch: ComputePatch(doc.Metadata, in, e.ruleSet())}, nil
}

// Apply evaluates one document and writes its patch in a single update.
// It bypasses the guard and the ignore list.
func (e *Engine) Apply(ctx context.Context, id string) (Result, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.apply(ctx, id)
}

func (e *Engine) apply(ctx context.Context, id string) (Result, error) {
	res, err := e.Evaluate(ctx, id)
	if err != nil {
		e.failed.Add(1)
		return res, err
	}
	e.processed.Add(1)
	if len(res.Patch) == 0 {
		return res, nil
	}

	ctx = context.WithValue(ctx, core.ChangeReasonKey, changeReason(res.Patch))
	if err := e.repo.Patch(ctx, id, res.Patch); err != nil {
		e.failed.Add(1)
		return res, fmt.Errorf("patch %s: %w", id, err)
	}
	res.Applied = true

	if e.cfg.Logger != nil {
		e.cfg.Logger.Debug("properties updated", "id", id, "keys", patchKeys(res.Patch))
	}
	return res, nil
}

// List returns the IDs of every document batch runs visit, ignored paths excluded.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	ids, err := e.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := ids[:0]
	for _, id := range ids {
		if !e.cfg.Ignored.Match(id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// ApplyAll evaluates every document one at a time. A failing document is recorded in the
// report and the batch continues; only context cancellation aborts it.
func (e *Engine) ApplyAll(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}

	ids, err := e.repo.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list documents: %w", err)
	}

	logger := e.cfg.Logger
	if logger != nil {
		logger = logger.With("run_id", report.RunID)
		logger.Debug("batch started", "documents", len(ids))
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if e.cfg.Ignored.Match(id) {
			report.Skipped++
			continue
		}

		report.Scanned++
		res, err := e.Apply(ctx, id)
		if err != nil {
			report.Failures = append(report.Failures, Failure{ID: id, Err: err})
			if logger != nil {
				logger.Error("document failed", "id", id, "error", err)
			}
			continue
		}
		if res.Applied {
			report.Updated++
		}
	}

	if logger != nil {
		logger.Info("batch finished",
			"scanned", report.Scanned,
			"updated", report.Updated,
			"skipped", report.Skipped,
			"failed", len(report.Failures),
		)
	}
	if e.cfg.ShowNotices && e.cfg.Notifier != nil {
		e.cfg.Notifier.Notify(BatchNotice)
	}
	return report, nil
}

// HandleEvent is the reactive entry point. It reports whether the event reached the
// orchestrator. Errors and panics are logged and never propagate to the caller.
func (e *Engine) HandleEvent(ctx context.Context, ev core.Event) (ran bool) {
	if !e.accepts(ev) {
		return false
	}
	if e.cfg.Ignored.Match(ev.ID) {
		return false
	}
	if !e.guard.Admit() {
		e.suppressed.Add(1)
		if e.cfg.Logger != nil {
			e.cfg.Logger.Debug("notification suppressed", "id", ev.ID, "type", ev.Type)
		}
		return false
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			e.failed.Add(1)
			if e.cfg.Logger != nil {
				attrs := []any{"id", ev.ID, "error", fmt.Errorf("engine panic: %v", recovered)}
				if e.cfg.Logger.Enabled(ctx, slog.LevelDebug) {
					attrs = append(attrs, "stack", string(debug.Stack()))
				}
				e.cfg.Logger.Error("reactive update panicked", attrs...)
			}
		}
	}()

	if _, err := e.Apply(ctx, ev.ID); err != nil && e.cfg.Logger != nil {
		e.cfg.Logger.Error("reactive update failed", "id", ev.ID, "error", err)
	}
	return true
}

func (e *Engine) accepts(ev core.Event) bool {
	if e.cfg.ManualMode || ev.ID == "" {
		return false
	}
	switch e.cfg.Trigger {
	case TriggerFocus:
		return ev.Type == core.EventFocus
	default:
		return ev.Type == core.EventModify || ev.Type == core.EventCreate
	}
}

// Run watches the repository and feeds notifications to HandleEvent until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	w, ok := e.repo.(core.Watchable)
	if !ok {
		return core.ErrNotWatchable
	}
	events, err := w.Watch(ctx, e.cfg.WatchPattern)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	if e.cfg.Logger != nil {
		e.cfg.Logger.Info("watching for changes", "trigger", e.cfg.Trigger, "manual_mode", e.cfg.ManualMode)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.HandleEvent(ctx, ev)
		}
	}
}

// Start runs the reactive loop in a tracked goroutine and returns immediately.
func (e *Engine) Start(ctx context.Context) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		err := e.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && e.cfg.Logger != nil {
			e.cfg.Logger.Error("reactive loop stopped", "error", err)
		}
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		if e.cfg.Logger != nil {
			e.cfg.Logger.Error("reactive loop panic", "error", err)
		}
	}))
}

// Focus notifies the engine that the host switched to document id.
func (e *Engine) Focus(ctx context.Context, id string) bool {
	return e.HandleEvent(ctx, core.Event{Type: core.EventFocus, ID: id, Timestamp: time.Now().Unix()})
}

func patchKeys(patch core.Metadata) []string {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func changeReason(patch core.Metadata) string {
	return "update " + strings.Join(patchKeys(patch), ", ")
}
