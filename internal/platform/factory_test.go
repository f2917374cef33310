package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/autoprop/internal/platform"
	"github.com/aretw0/autoprop/pkg/adapters/fs"
	"github.com/aretw0/autoprop/pkg/config"
	"github.com/aretw0/autoprop/pkg/engine"
	"github.com/aretw0/autoprop/pkg/rules"
)

func newVault(t *testing.T) string {
	t.Helper()
	vault := filepath.Join(t.TempDir(), "vault")
	require.NoError(t, os.MkdirAll(vault, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(vault, "note.md"),
		[]byte("---\nsummary: old\n---\nSummary: fresh\n"), 0644))
	return vault
}

func TestNew_UsesSettingsFile(t *testing.T) {
	vault := newVault(t)
	s := config.Default()
	require.NoError(t, s.AddRule(rules.Rule{Key: "summary", Enabled: true, Pattern: "Summary:", OmitPattern: true, TrimWhitespace: true}))
	s.Trigger = "focus"
	require.NoError(t, platform.SaveSettings(vault, s))

	eng, err := platform.New(vault, platform.WithMustExist(true))
	require.NoError(t, err)

	state := eng.State().(engine.State)
	assert.Equal(t, 1, state.Rules)
	assert.Equal(t, engine.TriggerFocus, state.Trigger)
	assert.Equal(t, "repository", state.Repository)

	res, err := eng.Apply(context.Background(), "note")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	data, err := os.ReadFile(filepath.Join(vault, "note.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\nsummary: fresh\n---\nSummary: fresh\n", string(data))
}

func TestNew_OptionsOverrideSettings(t *testing.T) {
	vault := newVault(t)
	eng, err := platform.New(vault,
		platform.WithRules(rules.Rule{Key: "summary", Enabled: true, Pattern: "Summary:", Selector: rules.SelectCount}),
		platform.WithManualMode(true),
		platform.WithQuiescence(time.Minute),
		platform.WithIgnoredPaths("templates/"),
	)
	require.NoError(t, err)

	state := eng.State().(engine.State)
	assert.True(t, state.ManualMode)
	assert.Equal(t, "1m0s", state.Quiescence)

	res, err := eng.Evaluate(context.Background(), "note")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Patch["summary"])
}

func TestNew_ReadOnly(t *testing.T) {
	vault := newVault(t)
	eng, err := platform.New(vault,
		platform.WithReadOnly(true),
		platform.WithRules(rules.Rule{Key: "summary", Enabled: true, Pattern: "Summary:"}),
	)
	require.NoError(t, err)

	_, err = eng.Apply(context.Background(), "note")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	t.Run("AutoInit Creates Directory", func(t *testing.T) {
		vault := filepath.Join(t.TempDir(), "fresh")
		repo, err := platform.Init(vault, platform.WithAutoInit(true))
		require.NoError(t, err)

		fsRepo, ok := repo.(*fs.Repository)
		require.True(t, ok)
		assert.Equal(t, vault, fsRepo.Path)
		info, err := os.Stat(vault)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		_, err := platform.Init(filepath.Join(t.TempDir(), "missing"), platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("Injected Repository", func(t *testing.T) {
		injected := fs.NewRepository(fs.Config{Path: t.TempDir()})
		repo, err := platform.Init("ignored", platform.WithRepository(injected))
		require.NoError(t, err)
		assert.Same(t, injected, repo)
	})
}

func TestLoadSettings_Missing(t *testing.T) {
	s, err := platform.LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}
