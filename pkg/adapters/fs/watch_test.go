package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/autoprop/pkg/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(Config{Path: t.TempDir()})
	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

func TestWatch_EmitsDocumentEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newTestRepo(t)
	events, err := repo.Watch(ctx, "**/*.md")
	require.NoError(t, err)
	waitForWatcher(t, repo, true)

	require.NoError(t, os.MkdirAll(filepath.Join(repo.Path, "daily"), 0755))
	// Give the worker a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(repo.Path, "daily", "today.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo.Path, "ignored.txt"), []byte("x"), 0644))

	select {
	case ev := <-events:
		assert.Equal(t, "daily/today", ev.ID)
		assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, ev.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	cancel()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case _, open := <-events:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}

func TestShouldIgnore(t *testing.T) {
	repo := NewRepository(Config{Path: "/vault"})
	ev := func(name string) fsnotify.Event { return fsnotify.Event{Name: name, Op: fsnotify.Write} }

	assert.False(t, repo.shouldIgnore(ev("/vault/a.md"), "**/*"))
	assert.False(t, repo.shouldIgnore(ev("/vault/x/y/a.md"), "x/**"))
	assert.True(t, repo.shouldIgnore(ev("/vault/x/y/a.md"), "z/**"))
	assert.True(t, repo.shouldIgnore(ev("/vault/a.txt"), "**/*"))
	assert.True(t, repo.shouldIgnore(ev("/vault/.obsidian/a.md"), "**/*"))
	assert.True(t, repo.shouldIgnore(ev("/vault/.autoprop/a.md"), "**/*"))
	assert.True(t, repo.shouldIgnore(ev("/vault/"+TempFilePrefix+"123"), "**/*"))
	assert.True(t, repo.shouldIgnore(ev("/elsewhere/a.md"), "**/*"))
}

func TestMapEventType(t *testing.T) {
	repo := NewRepository(Config{Path: "/vault"})
	assert.Equal(t, core.EventCreate, repo.mapEventType(fsnotify.Event{Op: fsnotify.Create}))
	assert.Equal(t, core.EventModify, repo.mapEventType(fsnotify.Event{Op: fsnotify.Write}))
	assert.Equal(t, core.EventDelete, repo.mapEventType(fsnotify.Event{Op: fsnotify.Remove}))
	assert.Equal(t, core.EventDelete, repo.mapEventType(fsnotify.Event{Op: fsnotify.Rename}))
	assert.Equal(t, core.EventType(""), repo.mapEventType(fsnotify.Event{Op: fsnotify.Chmod}))
}

func TestWatcherSupervisorRestarts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newTestRepo(t)
	events := make(chan core.Event)
	created := make(chan *watchWorker, 2)

	spec := supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			w := newWatchWorker(repo, "**/*", events)
			created <- w
			return w, nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      1,
			ResetDuration:   50 * time.Millisecond,
			MaxRestarts:     2,
			MaxDuration:     200 * time.Millisecond,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("test-watcher", supervisor.StrategyOneForOne, spec)
	require.NoError(t, sup.Start(ctx))

	first := waitForWorker(t, created, "first")
	waitForWatcher(t, repo, true)

	waitForWatcherInit(t, first)
	_ = first.watcher.Close()

	second := waitForWorker(t, created, "second")
	assert.NotSame(t, first, second, "supervisor should restart the watcher with a new instance")
	waitForWatcher(t, repo, true)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, sup.Stop(stopCtx))
}

func waitForWorker(t *testing.T, ch <-chan *watchWorker, label string) *watchWorker {
	t.Helper()

	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s worker", label)
		return nil
	}
}

func waitForWatcherInit(t *testing.T, w *watchWorker) {
	t.Helper()
	require.Eventually(t, func() bool { return w.watcher != nil }, 2*time.Second, 10*time.Millisecond)
}

func waitForWatcher(t *testing.T, repo *Repository, expected bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		state, ok := repo.State().(RepositoryState)
		return ok && state.WatcherActive == expected
	}, 2*time.Second, 10*time.Millisecond)
}
