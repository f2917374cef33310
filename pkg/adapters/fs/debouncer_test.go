package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/autoprop/pkg/core"
)

func TestDebouncer_CoalescesPerID(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var (
		mu  sync.Mutex
		got []core.Event
	)
	record := func(e core.Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	}

	d.add(core.Event{Type: core.EventCreate, ID: "a"}, record)
	d.add(core.Event{Type: core.EventModify, ID: "a"}, record)
	d.add(core.Event{Type: core.EventModify, ID: "b"}, record)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	d.stopAndWait(time.Second)
	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []core.Event{
		{Type: core.EventModify, ID: "a"},
		{Type: core.EventModify, ID: "b"},
	}, got)
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	d := newDebouncer(time.Hour)
	called := false
	d.add(core.Event{ID: "a"}, func(core.Event) { called = true })

	d.stopAndWait(time.Second)
	d.add(core.Event{ID: "b"}, func(core.Event) { called = true })
	assert.False(t, called)
}
