package autoprop

import (
	"log/slog"
	"time"

	"github.com/aretw0/autoprop/internal/platform"
	"github.com/aretw0/autoprop/pkg/config"
	"github.com/aretw0/autoprop/pkg/core"
	"github.com/aretw0/autoprop/pkg/engine"
	"github.com/aretw0/autoprop/pkg/rules"
)

// --- Types ---

// Engine keeps derived properties in sync. See engine.Engine.
type Engine = engine.Engine

// Rule is a persisted auto-property definition.
type Rule = rules.Rule

// Settings is the persisted configuration of a vault.
type Settings = config.Settings

// Report summarizes a batch run.
type Report = engine.Report

// Trigger selects which notifications feed the reactive path.
type Trigger = engine.Trigger

const (
	TriggerModify = engine.TriggerModify
	TriggerFocus  = engine.TriggerFocus
)

// --- Configuration ---

// Option defines a functional option for configuring autoprop.
type Option = platform.Option

// WithLogger sets the logger for the engine and its repository.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithRules replaces the rules of the settings file.
func WithRules(rs ...Rule) Option {
	return platform.WithRules(rs...)
}

// WithSettings replaces the settings file.
func WithSettings(s Settings) Option {
	return platform.WithSettings(s)
}

// WithClock sets the clock of the re-entrancy guard.
func WithClock(c engine.Clock) Option {
	return platform.WithClock(c)
}

// WithNotifier sets where batch notices are shown.
func WithNotifier(n engine.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithTextSource lets the host supply unsaved editor text.
func WithTextSource(ts core.TextSource) Option {
	return platform.WithTextSource(ts)
}

// WithQuiescence sets the re-entrancy window.
func WithQuiescence(d time.Duration) Option {
	return platform.WithQuiescence(d)
}

// WithTrigger selects modify or focus notifications.
func WithTrigger(t Trigger) Option {
	return platform.WithTrigger(t)
}

// WithManualMode disables the reactive path.
func WithManualMode(enabled bool) Option {
	return platform.WithManualMode(enabled)
}

// WithIgnoredPaths adds paths skipped by reactive and batch runs.
func WithIgnoredPaths(paths ...string) Option {
	return platform.WithIgnoredPaths(paths...)
}

// WithTimestampLayout sets the layout of timestamp-sourced values.
func WithTimestampLayout(layout string) Option {
	return platform.WithTimestampLayout(layout)
}

// WithVersioning commits every update to git.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithAutoInit creates the vault directory (and git repository when versioning).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir sets the hidden directory name (default ".autoprop").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithReadOnly evaluates without writing.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens the vault at path and wires an engine over it.
func New(path string, opts ...Option) (*Engine, error) {
	return platform.New(path, opts...)
}

// Init opens the vault at path and returns its repository.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// LoadSettings reads the settings file of the vault at root.
func LoadSettings(root string, opts ...Option) (Settings, error) {
	return platform.LoadSettings(root, opts...)
}

// SaveSettings writes the settings file of the vault at root.
func SaveSettings(root string, s Settings, opts ...Option) error {
	return platform.SaveSettings(root, s, opts...)
}

// --- Pure operations ---

// SplitBody returns the body lines of a document, excluding its frontmatter block.
func SplitBody(text string) []string {
	return rules.SplitBody(text)
}

// Match reports whether line satisfies the rule's predicate.
func Match(line string, r Rule) (bool, error) {
	return rules.Match(line, r)
}

// Reduce filters lines through the rule's predicate and reduces them per its selector.
func Reduce(lines []string, r Rule) (any, error) {
	return rules.Reduce(lines, r)
}

// --- Safety & Utils ---

// FindVaultRoot looks upwards for a vault root indicator.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// ResolveVaultPath determines the actual vault path under the dev sandbox rules.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	return platform.ResolveVaultPath(userPath, forceTemp)
}
