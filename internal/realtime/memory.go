// README: In-memory feed implementation (tests and single-process deployments).
package realtime

import (
	"context"
	"sync"
)

type memSub struct {
	filter *Filter
	fn     Handler
}

// MemoryFeed dispatches events synchronously to subscribers in-process. It is
// the reference semantics for the Feed contract.
type MemoryFeed struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]*memSub
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[string]map[int]*memSub)}
}

func (f *MemoryFeed) Publish(_ context.Context, e Event) error {
	f.mu.RLock()
	targets := make([]*memSub, 0, len(f.subs[e.Topic]))
	for _, s := range f.subs[e.Topic] {
		targets = append(targets, s)
	}
	f.mu.RUnlock()

	for _, s := range targets {
		if s.filter.Matches(e) {
			s.fn(e)
		}
	}
	return nil
}

func (f *MemoryFeed) Subscribe(_ context.Context, topic string, filter *Filter, fn Handler) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	if f.subs[topic] == nil {
		f.subs[topic] = make(map[int]*memSub)
	}
	f.subs[topic][id] = &memSub{filter: filter, fn: fn}

	return newSubscription(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[topic], id)
	}), nil
}
