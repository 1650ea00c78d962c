package watcher

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Debouncer coalesces a burst of change events into a single batch.
//
// The first event after an idle period arms the quiescence timer; events
// arriving while the timer is pending only join the pending set and do not
// re-arm it, so a continuous stream of saves still flushes once per window
// instead of being starved forever. The pending set is keyed by path, which
// deduplicates repeated saves of the same file, and is swapped out atomically
// when the timer fires.
type Debouncer struct {
	delay   time.Duration
	output  chan []ChangeEvent
	mutex   sync.Mutex
	timer   *time.Timer
	pending map[string]ChangeEvent
	armed   bool
}

// NewDebouncer creates a debouncer with the given quiescence window.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		output:  make(chan []ChangeEvent, 4),
		pending: make(map[string]ChangeEvent),
	}
}

// Add records an event, arming the flush timer if idle.
func (d *Debouncer) Add(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending[event.Path] = event
	if d.armed {
		return
	}
	d.armed = true
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// Output returns the channel on which flushed batches are delivered.
func (d *Debouncer) Output() <-chan []ChangeEvent {
	return d.output
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	batch := d.pending
	d.pending = make(map[string]ChangeEvent)
	d.armed = false
	d.mutex.Unlock()

	if len(batch) == 0 {
		return
	}

	events := make([]ChangeEvent, 0, len(batch))
	for _, event := range batch {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	// Blocking send: if the consumer is mid-flush, the batch waits its
	// turn instead of being dropped.
	d.output <- events
}

// run keeps the debouncer alive until ctx is canceled. It exists so the
// timer goroutine lifecycle is tied to the watcher context.
func (d *Debouncer) run(ctx context.Context) {
	<-ctx.Done()
	d.stop()
}

func (d *Debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.armed = false
}
