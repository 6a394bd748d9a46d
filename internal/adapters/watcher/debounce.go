package watcher

import (
	"sync"
	"time"
)

// debouncer delays delivery until file activity settles, coalescing the
// rapid event bursts editors and downloaders produce for one path.
type debouncer struct {
	delay    time.Duration
	mu       sync.Mutex
	pending  map[string]*time.Timer
	callback func(path string)
}

func newDebouncer(delay time.Duration, callback func(path string)) *debouncer {
	return &debouncer{
		delay:    delay,
		pending:  make(map[string]*time.Timer),
		callback: callback,
	}
}

// add schedules a path for delivery after the delay, resetting any timer
// already pending for it.
func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.pending[path]; ok {
		timer.Stop()
	}

	d.pending[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.pending, path)
		d.mu.Unlock()

		// Callback runs outside the lock to avoid deadlocks.
		d.callback(path)
	})
}

// cancelAll stops every pending timer; used during shutdown.
func (d *debouncer) cancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, timer := range d.pending {
		timer.Stop()
		delete(d.pending, path)
	}
}
