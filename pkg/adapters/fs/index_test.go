package fs

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatedIndex(t *testing.T) {
	vault := t.TempDir()
	first := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	idx := newCreatedIndex(vault, ".autoprop")
	created, err := idx.Created("a.md", first)
	require.NoError(t, err)
	assert.Equal(t, first, created)

	created, err = idx.Created("a.md", later)
	require.NoError(t, err)
	assert.Equal(t, first, created, "created time is fixed at first sight")

	require.NoError(t, idx.Save())

	reloaded := newCreatedIndex(vault, ".autoprop")
	created, err = reloaded.Created("a.md", later)
	require.NoError(t, err)
	assert.True(t, created.Equal(first))
	assert.Equal(t, 1, reloaded.Len())

	reloaded.Prune(map[string]bool{})
	assert.Equal(t, 0, reloaded.Len())
}

func TestCreatedIndex_CorruptFileStartsEmpty(t *testing.T) {
	vault := t.TempDir()
	idx := newCreatedIndex(vault, ".autoprop")
	require.NoError(t, os.MkdirAll(vault+"/.autoprop", 0755))
	require.NoError(t, os.WriteFile(idx.Path, []byte("{not json"), 0644))

	now := time.Now()
	created, err := idx.Created("b.md", now)
	require.NoError(t, err)
	assert.Equal(t, now, created)
}

func TestCreatedIndex_SaveSkipsClean(t *testing.T) {
	vault := t.TempDir()
	idx := newCreatedIndex(vault, ".autoprop")
	require.NoError(t, idx.Save())

	_, err := os.Stat(idx.Path)
	assert.True(t, os.IsNotExist(err))
}
