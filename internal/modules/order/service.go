// README: Order service implements the delivery lifecycle state machine.
package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"vdeliveries/internal/logging"
	"vdeliveries/internal/realtime"
	"vdeliveries/internal/types"
)

var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("order not found")
	ErrInvalidState  = errors.New("invalid state transition")
	ErrStaleState    = errors.New("order status changed")
	ErrOrderTaken    = errors.New("order no longer available")
	ErrNotAssignee   = errors.New("order assigned to another driver")
	ErrForbidden     = errors.New("actor not allowed")
	ErrDriverOffline = errors.New("driver is not online")
)

// Pricing quotes a delivery fee for a route and vehicle class.
type Pricing interface {
	Quote(ctx context.Context, pickup, dropoff types.Point, vehicleClass string) (types.Money, error)
}

// DriverRoster answers whether a driver is currently in the online set.
type DriverRoster interface {
	IsOnline(ctx context.Context, driverID types.ID) (bool, error)
}

type Service struct {
	store   Store
	pricing Pricing
	roster  DriverRoster
	feed    realtime.Feed
	log     *logging.Logger
}

func NewService(store Store, pricing Pricing, roster DriverRoster, feed realtime.Feed, log *logging.Logger) *Service {
	if log == nil {
		log = logging.New("order")
	}
	return &Service{store: store, pricing: pricing, roster: roster, feed: feed, log: log}
}

type CreateCommand struct {
	ClientID        *types.ID
	ActorType       string // "client" or "admin"
	CustomerName    string
	PickupAddress   string
	Pickup          types.Point
	DropoffAddress  string
	Dropoff         types.Point
	VehicleClass    string
	ReceiverName    string
	ReceiverPhone   string
	ItemDescription string
	Notes           string
	ScheduledFor    *time.Time
	// PriceOverride skips the quote; admin-created orders carry a manual price.
	PriceOverride *types.Money
}

type ClaimCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type AssignCommand struct {
	OrderID  types.ID
	DriverID types.ID
	AdminID  types.ID
}

type PickupCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type CompleteCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type CancelCommand struct {
	OrderID   types.ID
	ActorType string // "client" or "admin"
	ActorID   types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Order, error) {
	if strings.TrimSpace(cmd.PickupAddress) == "" || strings.TrimSpace(cmd.DropoffAddress) == "" {
		return nil, ErrBadRequest
	}
	if cmd.ActorType == "client" && cmd.ClientID == nil {
		return nil, ErrBadRequest
	}
	if cmd.ActorType == "admin" && strings.TrimSpace(cmd.CustomerName) == "" {
		return nil, ErrBadRequest
	}

	price := types.Money{Currency: "ZMW"}
	switch {
	case cmd.PriceOverride != nil:
		if cmd.PriceOverride.Amount < 0 {
			return nil, ErrBadRequest
		}
		price = *cmd.PriceOverride
	case s.pricing != nil:
		quoted, err := s.pricing.Quote(ctx, cmd.Pickup, cmd.Dropoff, cmd.VehicleClass)
		if err != nil {
			return nil, err
		}
		price = quoted
	}

	o := &Order{
		ID:              types.NewID(),
		ClientID:        cmd.ClientID,
		Status:          StatusPending,
		CustomerName:    cmd.CustomerName,
		PickupAddress:   cmd.PickupAddress,
		Pickup:          cmd.Pickup,
		DropoffAddress:  cmd.DropoffAddress,
		Dropoff:         cmd.Dropoff,
		Price:           price,
		VehicleClass:    cmd.VehicleClass,
		ReceiverName:    cmd.ReceiverName,
		ReceiverPhone:   cmd.ReceiverPhone,
		ItemDescription: cmd.ItemDescription,
		Notes:           cmd.Notes,
		CreatedAt:       time.Now().UTC(),
		ScheduledFor:    cmd.ScheduledFor,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}

	actorID := cmd.ClientID
	s.recordTransition(ctx, o.ID, StatusNone, StatusPending, cmd.ActorType, actorID)
	s.publish(ctx, realtime.KindInsert, o)
	s.log.Info("order_created", "order created", map[string]any{"order_id": o.ID, "price": o.Price.Amount})
	return o, nil
}

// Claim is the race-critical pending→assigned transition. At most one driver
// wins; losers get ErrOrderTaken, which callers surface as "no longer
// available" rather than a failure.
func (s *Service) Claim(ctx context.Context, cmd ClaimCommand) (*Order, error) {
	if s.roster != nil {
		online, err := s.roster.IsOnline(ctx, cmd.DriverID)
		if err != nil {
			return nil, err
		}
		if !online {
			return nil, ErrDriverOffline
		}
	}

	ok, err := s.store.Claim(ctx, cmd.OrderID, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, getErr := s.store.Get(ctx, cmd.OrderID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrOrderTaken
	}

	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	s.recordTransition(ctx, o.ID, StatusPending, StatusAssigned, "driver", &cmd.DriverID)
	s.publish(ctx, realtime.KindUpdate, o)
	s.log.Info("order_claimed", "driver claimed order", map[string]any{"order_id": o.ID, "driver_id": cmd.DriverID})
	return o, nil
}

// DirectAssign is the admin override: the driver need not be online, but the
// order must still be pending.
func (s *Service) DirectAssign(ctx context.Context, cmd AssignCommand) error {
	ok, err := s.store.Claim(ctx, cmd.OrderID, cmd.DriverID)
	if err != nil {
		return err
	}
	if !ok {
		o, getErr := s.store.Get(ctx, cmd.OrderID)
		if getErr != nil {
			return getErr
		}
		if o.Status.Terminal() {
			return ErrStaleState
		}
		return ErrInvalidState
	}

	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	s.recordTransition(ctx, o.ID, StatusPending, StatusAssigned, "admin", &cmd.AdminID)
	s.publish(ctx, realtime.KindUpdate, o)
	return nil
}

func (s *Service) Pickup(ctx context.Context, cmd PickupCommand) error {
	return s.advance(ctx, cmd.OrderID, cmd.DriverID, StatusAssigned, StatusPickedUp)
}

func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) error {
	return s.advance(ctx, cmd.OrderID, cmd.DriverID, StatusPickedUp, StatusDelivered)
}

// advance performs a driver status-advance transition. Only the assigned
// driver may move an order forward.
func (s *Service) advance(ctx context.Context, orderID, driverID types.ID, from, to Status) error {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status.Terminal() {
		return ErrStaleState
	}
	if o.Status != from || !CanTransition(from, to) {
		return ErrInvalidState
	}
	if o.AssignedDriverID == nil || *o.AssignedDriverID != driverID {
		return ErrNotAssignee
	}

	ok, err := s.store.UpdateStatus(ctx, orderID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStaleState
	}

	updated, err := s.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	s.recordTransition(ctx, orderID, from, to, "driver", &driverID)
	s.publish(ctx, realtime.KindUpdate, updated)
	s.log.Info("order_advanced", "order status advanced", map[string]any{"order_id": orderID, "to": to})
	return nil
}

// Cancel policy: clients may cancel their own orders while still pending;
// admins may cancel any non-terminal order.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.Status.Terminal() {
		return ErrStaleState
	}

	switch cmd.ActorType {
	case "admin":
		// any non-terminal state
	case "client":
		if o.ClientID == nil || *o.ClientID != cmd.ActorID {
			return ErrForbidden
		}
		if o.Status != StatusPending {
			return ErrInvalidState
		}
	default:
		return ErrForbidden
	}

	from := o.Status
	ok, err := s.store.UpdateStatus(ctx, cmd.OrderID, from, StatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStaleState
	}

	updated, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	s.recordTransition(ctx, cmd.OrderID, from, StatusCancelled, cmd.ActorType, &cmd.ActorID)
	s.publish(ctx, realtime.KindUpdate, updated)
	s.log.Info("order_cancelled", "order cancelled", map[string]any{"order_id": cmd.OrderID, "by": cmd.ActorType})
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Order, error) {
	return s.store.List(ctx, f)
}

// PendingPool returns the orders visible to online drivers.
func (s *Service) PendingPool(ctx context.Context) ([]Order, error) {
	return s.store.List(ctx, Filter{Statuses: []Status{StatusPending}})
}

// ActiveForDriver returns the driver's in-flight order (assigned or picked up),
// or nil when there is none.
func (s *Service) ActiveForDriver(ctx context.Context, driverID types.ID) (*Order, error) {
	return s.store.ActiveByDriver(ctx, driverID)
}

func (s *Service) recordTransition(ctx context.Context, id types.ID, from, to Status, actorType string, actorID *types.ID) {
	err := s.store.AppendEvent(ctx, &StatusEvent{
		OrderID:    id,
		FromStatus: from,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("order_event_append", "failed to append status event", err, map[string]any{"order_id": id})
	}
}

func (s *Service) publish(ctx context.Context, kind realtime.Kind, o *Order) {
	if s.feed == nil {
		return
	}
	err := s.feed.Publish(ctx, realtime.Event{
		Topic: realtime.TopicOrders,
		Kind:  kind,
		Row:   realtime.MarshalRow(o),
	})
	if err != nil {
		s.log.Error("order_publish", "failed to publish change event", err, map[string]any{"order_id": o.ID})
	}
}
