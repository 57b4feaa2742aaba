// README: Change feed abstraction — row-level events bridged from storage writes to subscribers.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

const (
	TopicOrders   = "orders"
	TopicProfiles = "profiles"
)

type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Event carries the full new row state. Delivery is at-least-once and unordered
// across distinct rows; subscribers must treat every event as "this row is now X".
type Event struct {
	Topic string          `json:"topic"`
	Kind  Kind            `json:"kind"`
	Row   json.RawMessage `json:"row"`
}

// Filter is an optional equality predicate over a single row field,
// evaluated before the handler is invoked.
type Filter struct {
	Field  string
	Equals string
}

// Matches decodes the event row and compares the filtered field. Rows that
// fail to decode never match.
func (f *Filter) Matches(e Event) bool {
	if f == nil {
		return true
	}
	var row map[string]any
	if err := json.Unmarshal(e.Row, &row); err != nil {
		return false
	}
	v, ok := row[f.Field]
	if !ok {
		return false
	}
	return fmt.Sprint(v) == f.Equals
}

type Handler func(Event)

// Feed is the pub/sub contract the rest of the system depends on. Publish is
// invoked by stores and services after successful writes; Subscribe registers a
// handler for a topic until the returned subscription is closed.
type Feed interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context, topic string, filter *Filter, fn Handler) (*Subscription, error)
}

// Subscription releases a feed registration. Close is idempotent: closing
// twice, or tearing down after the feed itself is gone, must not panic.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// MarshalRow is a convenience for publishers holding a typed row.
func MarshalRow(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}
