package issues

import (
	"context"
	"sync"
)

// Subscriber receives finalized issues from an Agent. Delivery is
// non-blocking: when the subscriber's buffer is full, further issues are
// dropped for it rather than stalling the agent loop.
type Subscriber struct {
	ch     chan Issue
	closed bool
	mu     sync.RWMutex
}

func newSubscriber(buffer int) *Subscriber {
	return &Subscriber{ch: make(chan Issue, buffer)}
}

// C returns the channel issues arrive on. The channel is closed when the
// subscriber is closed, by either side.
func (s *Subscriber) C() <-chan Issue {
	return s.ch
}

// Close closes the subscriber and releases it from the agent. It is
// idempotent and safe to call concurrently with deliveries.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *Subscriber) send(issue Issue) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- issue:
		return true
	default:
		return false
	}
}

// subscriberSet tracks the active subscribers of an agent. Publication is
// read-heavy; subscription changes are rare.
type subscriberSet struct {
	subs      map[*Subscriber]struct{}
	buffer    int
	closed    bool
	stop      chan struct{}
	mu        sync.RWMutex
	cleanupWg sync.WaitGroup
}

func newSubscriberSet(buffer int) *subscriberSet {
	return &subscriberSet{
		subs: make(map[*Subscriber]struct{}),
		// A zero buffer would make every delivery a drop.
		buffer: max(buffer, 1),
		stop:   make(chan struct{}),
	}
}

func (ss *subscriberSet) subscribe(ctx context.Context) *Subscriber {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.closed {
		sub := newSubscriber(ss.buffer)
		_ = sub.Close()
		return sub
	}

	sub := newSubscriber(ss.buffer)
	ss.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		ss.cleanupWg.Add(1)
		go func() {
			defer ss.cleanupWg.Done()
			select {
			case <-ctx.Done():
				ss.unsubscribe(sub)
			case <-ss.stop:
			}
		}()
	}

	return sub
}

func (ss *subscriberSet) publish(issue Issue) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if ss.closed {
		return
	}

	for sub := range ss.subs {
		if !sub.send(issue) {
			// Slow or closed subscribers are detached asynchronously so the
			// publishing loop never waits for the write lock.
			go ss.unsubscribe(sub)
		}
	}
}

func (ss *subscriberSet) unsubscribe(sub *Subscriber) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	delete(ss.subs, sub)
	_ = sub.Close()
}

func (ss *subscriberSet) close() {
	ss.mu.Lock()
	if ss.closed {
		ss.mu.Unlock()
		return
	}
	ss.closed = true
	close(ss.stop)
	for sub := range ss.subs {
		_ = sub.Close()
	}
	clear(ss.subs)
	ss.mu.Unlock()

	ss.cleanupWg.Wait()
}
