// README: Presence store contract and in-memory double.
package presence

import (
	"context"
	"sync"
	"time"

	"vdeliveries/internal/types"
)

type Store interface {
	SetOnline(ctx context.Context, driverID types.ID, online bool) error
	SetPosition(ctx context.Context, driverID types.ID, pos types.Point) error
	// ClearPosition removes the driver from the live availability index so
	// dispatch never sees a stale position after the driver goes offline.
	ClearPosition(ctx context.Context, driverID types.ID) error
	Get(ctx context.Context, driverID types.ID) (Presence, error)
	ListOnline(ctx context.Context) ([]Presence, error)
}

type MemStore struct {
	mu      sync.Mutex
	drivers map[types.ID]*Presence
}

func NewMemStore() *MemStore {
	return &MemStore{drivers: make(map[types.ID]*Presence)}
}

func (s *MemStore) upsert(id types.ID) *Presence {
	p, ok := s.drivers[id]
	if !ok {
		p = &Presence{DriverID: id}
		s.drivers[id] = p
	}
	return p
}

func (s *MemStore) SetOnline(_ context.Context, driverID types.ID, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.upsert(driverID)
	p.Online = online
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemStore) SetPosition(_ context.Context, driverID types.ID, pos types.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.upsert(driverID)
	cp := pos
	p.Position = &cp
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemStore) ClearPosition(_ context.Context, driverID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.upsert(driverID)
	p.Position = nil
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemStore) Get(_ context.Context, driverID types.ID) (Presence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.drivers[driverID]
	if !ok {
		return Presence{DriverID: driverID}, nil
	}
	return *p, nil
}

func (s *MemStore) ListOnline(_ context.Context) ([]Presence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Presence
	for _, p := range s.drivers {
		if p.Online {
			out = append(out, *p)
		}
	}
	return out, nil
}
