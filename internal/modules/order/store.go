// README: Order store contract. The conditional writes are the only serialization
// point for contended transitions; implementations must apply them atomically.
package order

import (
	"context"

	"vdeliveries/internal/types"
)

type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id types.ID) (*Order, error)

	// Claim performs the single conditional write
	// "set status=assigned, assigned_driver_id=driver where status=pending".
	// It reports whether the row was actually modified; false means another
	// actor won the race or the order left pending.
	Claim(ctx context.Context, id, driverID types.ID) (bool, error)

	// UpdateStatus advances status only if the row still holds the expected
	// from status. The assigned driver is left untouched for audit.
	UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error)

	List(ctx context.Context, f Filter) ([]Order, error)
	ActiveByDriver(ctx context.Context, driverID types.ID) (*Order, error)
	AppendEvent(ctx context.Context, e *StatusEvent) error
}
