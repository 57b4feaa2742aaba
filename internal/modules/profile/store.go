// README: Profile storage (Postgres) with an in-memory double for tests.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vdeliveries/internal/types"
)

var ErrNotFound = errors.New("profile not found")

type Store interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context, id types.ID) (*Profile, error)
	GetByPhone(ctx context.Context, phone string) (*Profile, error)
	ListByRole(ctx context.Context, role Role) ([]Profile, error)
}

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

const profileColumns = `id, full_name, phone, role, vehicle_class, is_online, last_lat, last_lng, password_hash, created_at`

func (s *PgStore) Create(ctx context.Context, p *Profile) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (id, full_name, phone, role, vehicle_class, is_online, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(p.ID), p.FullName, p.Phone, string(p.Role), p.VehicleClass, p.IsOnline, p.PasswordHash, p.CreatedAt,
	)
	return err
}

func (s *PgStore) Get(ctx context.Context, id types.ID) (*Profile, error) {
	row := s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, string(id))
	return scanProfile(row)
}

func (s *PgStore) GetByPhone(ctx context.Context, phone string) (*Profile, error) {
	row := s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE phone = $1`, phone)
	return scanProfile(row)
}

func (s *PgStore) ListByRole(ctx context.Context, role Role) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY created_at`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var vehicleClass sql.NullString
	var lastLat, lastLng sql.NullFloat64

	err := row.Scan(&p.ID, &p.FullName, &p.Phone, &p.Role, &vehicleClass,
		&p.IsOnline, &lastLat, &lastLng, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.VehicleClass = vehicleClass.String
	if lastLat.Valid && lastLng.Valid {
		p.LastPosition = &types.Point{Lat: lastLat.Float64, Lng: lastLng.Float64}
	}
	return &p, nil
}

type MemStore struct {
	mu       sync.Mutex
	profiles map[types.ID]*Profile
}

func NewMemStore() *MemStore {
	return &MemStore{profiles: make(map[types.ID]*Profile)}
}

func (s *MemStore) Create(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *MemStore) Get(_ context.Context, id types.ID) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemStore) GetByPhone(_ context.Context, phone string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListByRole(_ context.Context, role Role) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Profile
	for _, p := range s.profiles {
		if p.Role == role {
			out = append(out, *p)
		}
	}
	return out, nil
}
