// README: Payroll aggregation queries over delivered orders.
package payroll

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vdeliveries/internal/types"
)

// DriverStat is one payroll row: lifetime delivered earnings for a driver.
type DriverStat struct {
	DriverID      types.ID `json:"driver_id"`
	FullName      string   `json:"full_name"`
	TotalEarned   int64    `json:"total_earned"`
	Deliveries    int64    `json:"deliveries"`
	PendingPayout int64    `json:"pending_payout"`
}

// DailyStat is a driver's own delivered totals since a cutoff.
type DailyStat struct {
	TotalEarnings int64 `json:"total_earnings"`
	Deliveries    int64 `json:"deliveries"`
}

type Store interface {
	DriverTotals(ctx context.Context) ([]DriverStat, error)
	DriverEarningsSince(ctx context.Context, driverID types.ID, since time.Time) (DailyStat, error)
}

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) DriverTotals(ctx context.Context) ([]DriverStat, error) {
	rows, err := s.db.Query(ctx, `
		SELECT o.assigned_driver_id, COALESCE(p.full_name, 'Unknown Driver'),
		       COALESCE(SUM(o.price_zmw), 0), COUNT(*)
		FROM orders o
		LEFT JOIN profiles p ON p.id = o.assigned_driver_id
		WHERE o.status = 'delivered' AND o.assigned_driver_id IS NOT NULL
		GROUP BY o.assigned_driver_id, p.full_name
		ORDER BY 3 DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DriverStat
	for rows.Next() {
		var st DriverStat
		if err := rows.Scan(&st.DriverID, &st.FullName, &st.TotalEarned, &st.Deliveries); err != nil {
			return nil, err
		}
		// Delivered earnings count as pending payout until processed out of band.
		st.PendingPayout = st.TotalEarned
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PgStore) DriverEarningsSince(ctx context.Context, driverID types.ID, since time.Time) (DailyStat, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(price_zmw), 0), COUNT(*)
		FROM orders
		WHERE assigned_driver_id = $1 AND status = 'delivered' AND created_at >= $2`,
		string(driverID), since)
	var st DailyStat
	if err := row.Scan(&st.TotalEarnings, &st.Deliveries); err != nil {
		return DailyStat{}, err
	}
	return st, nil
}
