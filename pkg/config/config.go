// Package config loads and saves the settings file of a vault.
//
// Settings live in <vault>/.autoprop/settings.yaml. Every scalar can be overridden by an
// AUTOPROP_ environment variable, e.g. AUTOPROP_TRIGGER=focus.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/autoprop/pkg/rules"
)

// FileName is the settings file inside the system directory.
const FileName = "settings.yaml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "AUTOPROP"

var (
	// ErrDuplicateKey is returned when adding a rule whose key is already configured.
	ErrDuplicateKey = errors.New("a rule with this key already exists")
	// ErrRuleNotFound is returned when no rule has the requested key.
	ErrRuleNotFound = errors.New("rule not found")
)

// Settings is the persisted configuration of the rule engine.
type Settings struct {
	Rules           []rules.Rule  `yaml:"rules" mapstructure:"rules"`
	Trigger         string        `yaml:"trigger" mapstructure:"trigger" validate:"oneof=modify focus"`
	ManualMode      bool          `yaml:"manual_mode" mapstructure:"manual_mode"`
	ShowNotices     bool          `yaml:"show_notices" mapstructure:"show_notices"`
	IgnoredPaths    []string      `yaml:"ignored_paths" mapstructure:"ignored_paths"`
	Quiescence      time.Duration `yaml:"quiescence" mapstructure:"quiescence" validate:"gte=0"`
	TimestampLayout string        `yaml:"timestamp_layout" mapstructure:"timestamp_layout"`
}

// Default returns the settings of a vault without a settings file.
func Default() Settings {
	return Settings{
		Rules:           []rules.Rule{},
		Trigger:         "modify",
		ShowNotices:     true,
		IgnoredPaths:    []string{},
		Quiescence:      2 * time.Second,
		TimestampLayout: rules.DefaultTimestampLayout,
	}
}

// Path returns the settings file of the vault at root.
func Path(root, systemDir string) string {
	return filepath.Join(root, systemDir, FileName)
}

// Load reads settings from path. A missing file yields Default with environment overrides.
func Load(path string) (Settings, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("trigger", def.Trigger)
	v.SetDefault("manual_mode", def.ManualMode)
	v.SetDefault("show_notices", def.ShowNotices)
	v.SetDefault("ignored_paths", def.IgnoredPaths)
	v.SetDefault("quiescence", def.Quiescence)
	v.SetDefault("timestamp_layout", def.TimestampLayout)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return def, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return def, err
	}

	s := Settings{
		Trigger:         v.GetString("trigger"),
		ManualMode:      v.GetBool("manual_mode"),
		ShowNotices:     v.GetBool("show_notices"),
		IgnoredPaths:    v.GetStringSlice("ignored_paths"),
		Quiescence:      v.GetDuration("quiescence"),
		TimestampLayout: v.GetString("timestamp_layout"),
	}

	rs, err := decodeRules(v.Get("rules"))
	if err != nil {
		return def, fmt.Errorf("failed to decode rules in %s: %w", path, err)
	}
	s.Rules = rs

	if err := validate().Struct(s); err != nil {
		return def, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// decodeRules re-encodes the raw rules value so each rule starts from rules.DefaultRule.
func decodeRules(raw any) ([]rules.Rule, error) {
	if raw == nil {
		return []rules.Rule{}, nil
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var rs []rules.Rule
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []rules.Rule{}
	}
	return rs, nil
}

// Save writes s to path, creating the directory if needed.
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var (
	validateOnce sync.Once
	settingsV    *validator.Validate
)

func validate() *validator.Validate {
	validateOnce.Do(func() {
		settingsV = validator.New(validator.WithRequiredStructEnabled())
	})
	return settingsV
}

// Validate checks the settings and every rule. All problems are reported together.
func (s Settings) Validate() error {
	var errs []error
	if err := validate().Struct(s); err != nil {
		errs = append(errs, err)
	}
	for _, r := range s.Rules {
		if err := rules.Validate(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddRule appends a validated rule. Keys must be unique.
func (s *Settings) AddRule(r rules.Rule) error {
	r = r.Normalized()
	if err := rules.Validate(r); err != nil {
		return err
	}
	if _, ok := s.Rule(r.Key); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, r.Key)
	}
	s.Rules = append(s.Rules, r)
	return nil
}

// RemoveRule deletes the rule with key.
func (s *Settings) RemoveRule(key string) error {
	for i, r := range s.Rules {
		if r.Key == key {
			s.Rules = append(s.Rules[:i], s.Rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, key)
}

// SetEnabled turns the rule with key on or off.
func (s *Settings) SetEnabled(key string, enabled bool) error {
	for i := range s.Rules {
		if s.Rules[i].Key == key {
			s.Rules[i].Enabled = enabled
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, key)
}

// Rule returns the configured rule with key.
func (s Settings) Rule(key string) (rules.Rule, bool) {
	for _, r := range s.Rules {
		if r.Key == key {
			return r, true
		}
	}
	return rules.Rule{}, false
}
