// README: Presence store backed by Redis GEO for live positions and Postgres
// for the durable online flag.
package presence

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"vdeliveries/internal/types"
)

const driverGeoKey = "presence:drivers"

type RedisPgStore struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewRedisPgStore(db *pgxpool.Pool, rdb *redis.Client) *RedisPgStore {
	return &RedisPgStore{db: db, redis: rdb}
}

func (s *RedisPgStore) SetOnline(ctx context.Context, driverID types.ID, online bool) error {
	_, err := s.db.Exec(ctx, `UPDATE profiles SET is_online = $1 WHERE id = $2`, online, string(driverID))
	return err
}

func (s *RedisPgStore) SetPosition(ctx context.Context, driverID types.ID, pos types.Point) error {
	if err := s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err(); err != nil {
		return err
	}
	// Snapshot the last position for dashboards that read through Postgres.
	_, err := s.db.Exec(ctx, `UPDATE profiles SET last_lat = $1, last_lng = $2 WHERE id = $3`,
		pos.Lat, pos.Lng, string(driverID))
	return err
}

func (s *RedisPgStore) ClearPosition(ctx context.Context, driverID types.ID) error {
	return s.redis.ZRem(ctx, driverGeoKey, string(driverID)).Err()
}

func (s *RedisPgStore) Get(ctx context.Context, driverID types.ID) (Presence, error) {
	row := s.db.QueryRow(ctx, `SELECT is_online, last_lat, last_lng FROM profiles WHERE id = $1`, string(driverID))
	var online bool
	var lat, lng sql.NullFloat64
	if err := row.Scan(&online, &lat, &lng); err != nil {
		return Presence{DriverID: driverID}, err
	}
	p := Presence{DriverID: driverID, Online: online, UpdatedAt: time.Now().UTC()}
	if online && lat.Valid && lng.Valid {
		p.Position = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return p, nil
}

func (s *RedisPgStore) ListOnline(ctx context.Context) ([]Presence, error) {
	rows, err := s.db.Query(ctx, `SELECT id, last_lat, last_lng FROM profiles WHERE role = 'driver' AND is_online`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Presence
	for rows.Next() {
		var id string
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&id, &lat, &lng); err != nil {
			return nil, err
		}
		p := Presence{DriverID: types.ID(id), Online: true}
		if lat.Valid && lng.Valid {
			p.Position = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
