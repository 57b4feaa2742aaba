// README: Order store backed by PostgreSQL.
package order

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vdeliveries/internal/types"
)

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

const orderColumns = `
	id, client_id, assigned_driver_id, status, customer_name,
	pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	price_zmw, vehicle_class, receiver_name, receiver_phone,
	item_description, notes, created_at, scheduled_for,
	picked_up_at, delivered_at, cancelled_at`

func (s *PgStore) Create(ctx context.Context, o *Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (
			id, client_id, assigned_driver_id, status, customer_name,
			pickup_address, pickup_lat, pickup_lng,
			dropoff_address, dropoff_lat, dropoff_lng,
			price_zmw, vehicle_class, receiver_name, receiver_phone,
			item_description, notes, created_at, scheduled_for
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19
		)`,
		string(o.ID),
		idPtr(o.ClientID),
		idPtr(o.AssignedDriverID),
		string(o.Status),
		o.CustomerName,
		o.PickupAddress, o.Pickup.Lat, o.Pickup.Lng,
		o.DropoffAddress, o.Dropoff.Lat, o.Dropoff.Lng,
		o.Price.Amount,
		o.VehicleClass,
		o.ReceiverName, o.ReceiverPhone,
		o.ItemDescription, o.Notes,
		o.CreatedAt,
		o.ScheduledFor,
	)
	return err
}

func (s *PgStore) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, string(id))
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Claim is the single conditional write that serializes contended claims.
// A read-then-write sequence here would be racy; the WHERE clause is the
// entire synchronization mechanism.
func (s *PgStore) Claim(ctx context.Context, id, driverID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = 'assigned',
		    assigned_driver_id = $1
		WHERE id = $2 AND status = 'pending'`,
		string(driverID),
		string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PgStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    picked_up_at = CASE WHEN $1 = 'picked_up' THEN NOW() ELSE picked_up_at END,
		    delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $2 AND status = $3`,
		string(to),
		string(id),
		string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PgStore) List(ctx context.Context, f Filter) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	if f.ClientID != nil {
		args = append(args, string(*f.ClientID))
		query += ` AND client_id = $` + itoa(len(args))
	}
	if f.DriverID != nil {
		args = append(args, string(*f.DriverID))
		query += ` AND assigned_driver_id = $` + itoa(len(args))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		query += ` AND status = ANY($` + itoa(len(args)) + `)`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (s *PgStore) ActiveByDriver(ctx context.Context, driverID types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE assigned_driver_id = $1 AND status IN ('assigned','picked_up')
		ORDER BY created_at DESC
		LIMIT 1`, string(driverID))
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PgStore) AppendEvent(ctx context.Context, e *StatusEvent) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_status_events (
			order_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.OrderID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		idPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var clientID, driverID, receiverName, receiverPhone, itemDesc, notes sql.NullString
	var scheduledFor, pickedUpAt, deliveredAt, cancelledAt sql.NullTime

	err := row.Scan(
		&o.ID, &clientID, &driverID, &o.Status, &o.CustomerName,
		&o.PickupAddress, &o.Pickup.Lat, &o.Pickup.Lng,
		&o.DropoffAddress, &o.Dropoff.Lat, &o.Dropoff.Lng,
		&o.Price.Amount, &o.VehicleClass, &receiverName, &receiverPhone,
		&itemDesc, &notes, &o.CreatedAt, &scheduledFor,
		&pickedUpAt, &deliveredAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	o.Price.Currency = "ZMW"
	o.ClientID = nullID(clientID)
	o.AssignedDriverID = nullID(driverID)
	o.ReceiverName = receiverName.String
	o.ReceiverPhone = receiverPhone.String
	o.ItemDescription = itemDesc.String
	o.Notes = notes.String
	o.ScheduledFor = nullTime(scheduledFor)
	o.PickedUpAt = nullTime(pickedUpAt)
	o.DeliveredAt = nullTime(deliveredAt)
	o.CancelledAt = nullTime(cancelledAt)
	return &o, nil
}

func idPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func nullID(v sql.NullString) *types.ID {
	if !v.Valid {
		return nil
	}
	id := types.ID(v.String)
	return &id
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
