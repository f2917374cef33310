package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/autoprop/pkg/config"
	"github.com/aretw0/autoprop/pkg/core"
	"github.com/aretw0/autoprop/pkg/engine"
	"github.com/aretw0/autoprop/pkg/rules"
)

// options holds the internal configuration for an autoprop engine.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	clock      engine.Clock
	notifier   engine.Notifier
	textSource core.TextSource
	settings   *config.Settings
	rules      []rules.Rule
	config     map[string]interface{}
}

// Option defines a functional option for configuring autoprop.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		config: make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the engine and its repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom storage adapter. The filesystem adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithSettings replaces the settings file of the vault.
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		o.settings = &s
	}
}

// WithRules replaces the configured rules.
func WithRules(rs ...rules.Rule) Option {
	return func(o *options) {
		o.rules = rs
	}
}

// WithClock sets the clock of the re-entrancy guard. Tests use a fake one.
func WithClock(c engine.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithNotifier sets where batch notices are shown.
func WithNotifier(n engine.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithTextSource lets the host supply unsaved editor text for open documents.
func WithTextSource(ts core.TextSource) Option {
	return func(o *options) {
		o.textSource = ts
	}
}

// WithQuiescence sets the window after a reactive run in which notifications are dropped.
func WithQuiescence(d time.Duration) Option {
	return func(o *options) {
		o.config["quiescence"] = d
	}
}

// WithTrigger selects "modify" or "focus" notifications for the reactive path.
func WithTrigger(t engine.Trigger) Option {
	return func(o *options) {
		o.config["trigger"] = t
	}
}

// WithManualMode disables the reactive path; only explicit runs update documents.
func WithManualMode(enabled bool) Option {
	return func(o *options) {
		o.config["manual_mode"] = enabled
	}
}

// WithShowNotices controls the notice shown after a batch run.
func WithShowNotices(enabled bool) Option {
	return func(o *options) {
		o.config["show_notices"] = enabled
	}
}

// WithIgnoredPaths adds paths skipped by reactive and batch runs.
func WithIgnoredPaths(paths ...string) Option {
	return func(o *options) {
		existing, _ := o.config["ignored_paths"].([]string)
		o.config["ignored_paths"] = append(existing, paths...)
	}
}

// WithTimestampLayout sets the Go time layout of timestamp-sourced values.
func WithTimestampLayout(layout string) Option {
	return func(o *options) {
		o.config["timestamp_layout"] = layout
	}
}

// WithVersioning commits every property update to git.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioning"] = enabled
	}
}

// WithAutoInit creates the vault directory, and the git repository when versioning.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithSystemDir sets the hidden directory holding settings and the created index.
// Defaults to ".autoprop".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithReadOnly evaluates without writing. Patches return core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithWatcherErrorHandler receives runtime watcher failures that are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithForceTemp forces the vault into a temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true) such runs are re-rooted into a temporary directory so a development
// build never rewrites a real vault.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
