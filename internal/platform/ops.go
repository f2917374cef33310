package platform

import (
	"context"

	"github.com/aretw0/autoprop/pkg/adapters/fs"
	"github.com/aretw0/autoprop/pkg/config"
	"github.com/aretw0/autoprop/pkg/core"
)

// Init opens the vault at uri and returns its repository, initialized.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(uri, o)
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	repo := fs.NewRepository(fsConfig(uri, o))
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// fsConfig resolves the filesystem adapter configuration from the options.
func fsConfig(path string, o *options) fs.Config {
	autoInit, _ := o.config["auto_init"].(bool)
	versioning, _ := o.config["versioning"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}
	// Read-only runs cannot damage a vault.
	bypassSafety := readOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveVaultPath(path, useTemp)

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	}

	return fs.Config{
		Path:         resolved,
		SystemDir:    systemDir(o),
		AutoInit:     autoInit,
		Versioning:   versioning,
		MustExist:    mustExist || (!autoInit && !useTemp),
		ReadOnly:     readOnly,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	}
}

func systemDir(o *options) string {
	if dir, _ := o.config["system_dir"].(string); dir != "" {
		return dir
	}
	return fs.DefaultSystemDir
}

// vaultPath returns the directory backing repo, or "" for injected repositories.
func vaultPath(repo core.Repository) string {
	if r, ok := repo.(*fs.Repository); ok {
		return r.Path
	}
	return ""
}

// LoadSettings reads the settings file of the vault at root. A missing file yields defaults.
func LoadSettings(root string, opts ...Option) (config.Settings, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return config.Load(config.Path(root, systemDir(o)))
}

// SaveSettings writes the settings file of the vault at root.
func SaveSettings(root string, s config.Settings, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return config.Save(config.Path(root, systemDir(o)), s)
}
