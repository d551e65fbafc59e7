package layer

import "sync"

// notifier is a fan-out of "registry changed" signals. Each subscriber channel
// holds at most one pending signal, so a slow reader sees a single wake-up and
// then reads the latest snapshot.
type notifier struct {
	mu     sync.RWMutex
	subs   map[<-chan struct{}]chan struct{}
	closed bool
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[<-chan struct{}]chan struct{})}
}

// publish signals every subscriber (non-blocking).
func (n *notifier) publish() {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
}

func (n *notifier) subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		close(ch)
		return ch
	}
	n.subs[ch] = ch
	return ch
}

func (n *notifier) unsubscribe(ch <-chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.subs[ch]
	if !ok {
		return
	}
	delete(n.subs, ch)
	close(c)
}

// close closes every subscriber channel and refuses new ones.
func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for _, ch := range n.subs {
		close(ch)
	}
	n.subs = nil
}
