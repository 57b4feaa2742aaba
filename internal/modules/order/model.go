// README: Order aggregate and status definitions.
package order

import (
	"time"

	"vdeliveries/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusPickedUp  Status = "picked_up"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// AllowedTransitions represents the delivery state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAssigned, StatusCancelled},
	StatusAssigned: {StatusPickedUp, StatusCancelled},
	StatusPickedUp: {StatusDelivered, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal states have no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusPickedUp, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID               types.ID     `json:"id"`
	ClientID         *types.ID    `json:"client_id,omitempty"`
	AssignedDriverID *types.ID    `json:"assigned_driver_id,omitempty"`
	Status           Status       `json:"status"`
	CustomerName     string       `json:"customer_name"`
	PickupAddress    string       `json:"pickup_address"`
	Pickup           types.Point  `json:"pickup"`
	DropoffAddress   string       `json:"dropoff_address"`
	Dropoff          types.Point  `json:"dropoff"`
	Price            types.Money  `json:"price"`
	VehicleClass     string       `json:"vehicle_class"`
	ReceiverName     string       `json:"receiver_name,omitempty"`
	ReceiverPhone    string       `json:"receiver_phone,omitempty"`
	ItemDescription  string       `json:"item_description,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	ScheduledFor     *time.Time   `json:"scheduled_for,omitempty"`
	PickedUpAt       *time.Time   `json:"picked_up_at,omitempty"`
	DeliveredAt      *time.Time   `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time   `json:"cancelled_at,omitempty"`
}

// StatusEvent is one row of the transition audit trail.
type StatusEvent struct {
	ID         int64
	OrderID    types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// Filter narrows list queries.
type Filter struct {
	ClientID *types.ID
	DriverID *types.ID
	Statuses []Status
}
