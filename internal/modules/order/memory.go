// README: In-memory order store (development and tests). The mutex plays the
// role the database's conditional write plays in production.
package order

import (
	"context"
	"sync"
	"time"

	"vdeliveries/internal/types"
)

type MemStore struct {
	mu     sync.Mutex
	orders map[types.ID]*Order
	events []StatusEvent
}

func NewMemStore() *MemStore {
	return &MemStore{orders: make(map[types.ID]*Order)}
}

func (s *MemStore) Create(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *MemStore) Get(_ context.Context, id types.ID) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *MemStore) Claim(_ context.Context, id, driverID types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != StatusPending {
		return false, nil
	}
	d := driverID
	o.Status = StatusAssigned
	o.AssignedDriverID = &d
	return true, nil
}

func (s *MemStore) UpdateStatus(_ context.Context, id types.ID, from, to Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	now := time.Now().UTC()
	switch to {
	case StatusPickedUp:
		o.PickedUpAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
	return true, nil
}

func (s *MemStore) List(_ context.Context, f Filter) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if f.ClientID != nil && (o.ClientID == nil || *o.ClientID != *f.ClientID) {
			continue
		}
		if f.DriverID != nil && (o.AssignedDriverID == nil || *o.AssignedDriverID != *f.DriverID) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, o.Status) {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (s *MemStore) ActiveByDriver(_ context.Context, driverID types.ID) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.AssignedDriverID != nil && *o.AssignedDriverID == driverID &&
			(o.Status == StatusAssigned || o.Status == StatusPickedUp) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemStore) AppendEvent(_ context.Context, e *StatusEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = int64(len(s.events) + 1)
	s.events = append(s.events, *e)
	return nil
}

// Events returns a copy of the audit trail.
func (s *MemStore) Events() []StatusEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StatusEvent, len(s.events))
	copy(out, s.events)
	return out
}

func containsStatus(list []Status, st Status) bool {
	for _, v := range list {
		if v == st {
			return true
		}
	}
	return false
}
