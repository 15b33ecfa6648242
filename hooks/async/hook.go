// usage:
//
//	raw := sloghook.New(slog.Default(), sloghook.Options{
//	    MissingEvery: 10, // sample: ~every 10th missing-field event
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	store, _ := b2session.New(b2session.Options{
//	    Backend: be,
//	    Hooks:   hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/b2session"
)

// Hooks forwards events to inner on worker goroutines. Events are dropped
// when the queue is full; Dropped reports how many.
type Hooks struct {
	inner   b2session.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against sends on a closed channel
	closed  bool
	dropped atomic.Uint64
}

var _ b2session.Hooks = (*Hooks)(nil)

func New(inner b2session.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events and waits for queued ones to run.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) MissingField(f b2session.Field, k string) {
	h.try(func() { h.inner.MissingField(f, k) })
}
func (h *Hooks) AllowedDefaulted(k string)         { h.try(func() { h.inner.AllowedDefaulted(k) }) }
func (h *Hooks) BackendError(op string, err error) { h.try(func() { h.inner.BackendError(op, err) }) }
func (h *Hooks) InvalidFormat(f b2session.Field, k string, err error) {
	h.try(func() { h.inner.InvalidFormat(f, k, err) })
}
func (h *Hooks) BucketCacheReplaced(p string, n int) {
	h.try(func() { h.inner.BucketCacheReplaced(p, n) })
}
func (h *Hooks) SessionCleared(p string, n int) {
	h.try(func() { h.inner.SessionCleared(p, n) })
}
