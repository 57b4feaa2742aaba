// README: system_settings key-value storage.
package settings

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	All(ctx context.Context) ([]Setting, error)
	Upsert(ctx context.Context, settings []Setting) error
}

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) All(ctx context.Context) ([]Setting, error) {
	rows, err := s.db.Query(ctx, `SELECT key, value, updated_at FROM system_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PgStore) Upsert(ctx context.Context, settings []Setting) error {
	for _, st := range settings {
		_, err := s.db.Exec(ctx, `
			INSERT INTO system_settings (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
			st.Key, st.Value,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// MemStore backs tests and infrastructure-free development.
type MemStore struct {
	mu     sync.Mutex
	values map[string]Setting
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]Setting)}
}

func (s *MemStore) All(_ context.Context) ([]Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Setting, 0, len(s.values))
	for _, st := range s.values {
		out = append(out, st)
	}
	return out, nil
}

func (s *MemStore) Upsert(_ context.Context, settings []Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range settings {
		st.UpdatedAt = time.Now().UTC()
		s.values[st.Key] = st
	}
	return nil
}
