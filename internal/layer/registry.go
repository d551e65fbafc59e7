package layer

import (
	"sync"
	"sync/atomic"

	"github.com/joeblew999/plat-mission/internal/geodoc"
)

// Snapshot is one immutable state of the registry. A missing key means the
// layer has not loaded. Callers must not modify it.
type Snapshot map[Key]*geodoc.Document

// Get returns the document for key, or nil while it is absent.
func (s Snapshot) Get(key Key) *geodoc.Document {
	return s[key]
}

// Registry maps layer keys to their loaded documents. Every write replaces the
// whole mapping, so a Snapshot never changes once handed out.
type Registry struct {
	mu      sync.Mutex // serialises writers
	current atomic.Pointer[Snapshot]
	closed  atomic.Bool
	changes *notifier
}

// NewRegistry creates a registry with every layer absent.
func NewRegistry() *Registry {
	r := &Registry{changes: newNotifier()}
	empty := Snapshot{}
	r.current.Store(&empty)
	return r
}

// Snapshot returns the current state.
func (r *Registry) Snapshot() Snapshot {
	return *r.current.Load()
}

// Get returns the document for key, or nil while it is absent.
func (r *Registry) Get(key Key) *geodoc.Document {
	return r.Snapshot()[key]
}

// Publish stores doc under key, keeping every other entry. It returns false
// and does nothing if doc is nil or the registry is closed.
func (r *Registry) Publish(key Key, doc *geodoc.Document) bool {
	if doc == nil {
		return false
	}

	r.mu.Lock()
	if r.closed.Load() {
		r.mu.Unlock()
		return false
	}
	prev := r.Snapshot()
	next := make(Snapshot, len(prev)+1)
	for k, v := range prev {
		next[k] = v
	}
	next[key] = doc
	r.current.Store(&next)
	r.mu.Unlock()

	r.changes.publish()
	return true
}

// Subscribe returns a channel that receives a signal after each change. The
// channel is closed by Unsubscribe or Close.
func (r *Registry) Subscribe() <-chan struct{} {
	return r.changes.subscribe()
}

// Unsubscribe stops delivery to a channel returned by Subscribe.
func (r *Registry) Unsubscribe(ch <-chan struct{}) {
	r.changes.unsubscribe(ch)
}

// Close makes the registry inert: later publishes are dropped and all
// subscribers are released. The last snapshot stays readable.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed.Store(true)
	r.mu.Unlock()
	r.changes.close()
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	return r.closed.Load()
}
