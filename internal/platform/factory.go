package platform

import (
	"time"

	"github.com/aretw0/autoprop/pkg/config"
	"github.com/aretw0/autoprop/pkg/engine"
	"github.com/aretw0/autoprop/pkg/rules"
)

// New opens the vault at uri and wires an engine over it.
//
//	eng, err := autoprop.New("./vault", autoprop.WithTrigger(autoprop.TriggerFocus))
//
// Settings come from the vault's settings file; options override them. Invalid rules are
// logged and left out so the remaining rules still run.
func New(uri string, opts ...Option) (*engine.Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	settings := config.Default()
	if o.settings != nil {
		settings = *o.settings
	} else if root := vaultPath(repo); root != "" {
		settings, err = config.Load(config.Path(root, systemDir(o)))
		if err != nil {
			return nil, err
		}
	}
	applyOverrides(&settings, o)

	set, err := rules.NewSet(settings.Rules)
	if err != nil && o.logger != nil {
		o.logger.Warn("invalid rules skipped", "error", err)
	}

	return engine.New(repo, set, engine.Config{
		Logger:          o.logger,
		Clock:           o.clock,
		Quiescence:      settings.Quiescence,
		Trigger:         engine.Trigger(settings.Trigger),
		ManualMode:      settings.ManualMode,
		ShowNotices:     settings.ShowNotices,
		Ignored:         engine.IgnoreList(settings.IgnoredPaths),
		Notifier:        o.notifier,
		TextSource:      o.textSource,
		TimestampLayout: settings.TimestampLayout,
	}), nil
}

func applyOverrides(s *config.Settings, o *options) {
	if o.rules != nil {
		s.Rules = o.rules
	}
	if v, ok := o.config["quiescence"].(time.Duration); ok {
		s.Quiescence = v
	}
	if v, ok := o.config["trigger"].(engine.Trigger); ok {
		s.Trigger = string(v)
	}
	if v, ok := o.config["manual_mode"].(bool); ok {
		s.ManualMode = v
	}
	if v, ok := o.config["show_notices"].(bool); ok {
		s.ShowNotices = v
	}
	if v, ok := o.config["ignored_paths"].([]string); ok {
		s.IgnoredPaths = append(s.IgnoredPaths, v...)
	}
	if v, ok := o.config["timestamp_layout"].(string); ok {
		s.TimestampLayout = v
	}
}
