package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectBatch(t *testing.T, d *Debouncer, timeout time.Duration) []ChangeEvent {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debounced batch")
		return nil
	}
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	d.Add(ChangeEvent{Type: EventTypeModified, Path: "/site/a.tmpl"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "/site/b.tmpl"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "/site/a.tmpl"})

	batch := collectBatch(t, d, time.Second)
	require.Len(t, batch, 2)
	assert.Equal(t, "/site/a.tmpl", batch[0].Path)
	assert.Equal(t, "/site/b.tmpl", batch[1].Path)

	// Nothing further: the burst produced exactly one flush.
	select {
	case extra := <-d.Output():
		t.Fatalf("unexpected second batch: %v", extra)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebouncerDeduplicatesByPathKeepingLatest(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	d.Add(ChangeEvent{Type: EventTypeCreated, Path: "/site/a.tmpl"})
	d.Add(ChangeEvent{Type: EventTypeDeleted, Path: "/site/a.tmpl"})

	batch := collectBatch(t, d, time.Second)
	require.Len(t, batch, 1)
	assert.Equal(t, EventTypeDeleted, batch[0].Type)
}

func TestDebouncerTimerIsNotRearmedByLaterEvents(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)

	start := time.Now()
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "/site/a.tmpl"})

	// Keep feeding events faster than the window; with re-arming this
	// would postpone the flush past 300ms.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			time.Sleep(25 * time.Millisecond)
			d.Add(ChangeEvent{Type: EventTypeModified, Path: "/site/b.tmpl"})
		}
	}()

	collectBatch(t, d, time.Second)
	elapsed := time.Since(start)
	assert.Less(t, elapsed, 250*time.Millisecond,
		"flush should fire one window after the first event")
	<-done
}

func TestDebouncerStartsNewWindowAfterFlush(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	d.Add(ChangeEvent{Type: EventTypeModified, Path: "/site/a.tmpl"})
	first := collectBatch(t, d, time.Second)
	require.Len(t, first, 1)

	d.Add(ChangeEvent{Type: EventTypeModified, Path: "/site/b.tmpl"})
	second := collectBatch(t, d, time.Second)
	require.Len(t, second, 1)
	assert.Equal(t, "/site/b.tmpl", second[0].Path)
}

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventType(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}
