// README: Order service tests (lifecycle flow + guard rails), no database needed.
package order

import (
	"context"
	"errors"
	"testing"

	"vdeliveries/internal/realtime"
	"vdeliveries/internal/types"
)

// TestCanTransition verifies the state machine transition table.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusPending, StatusAssigned, true},
		{StatusAssigned, StatusPickedUp, true},
		{StatusPickedUp, StatusDelivered, true},
		// cancel from every non-terminal state
		{StatusPending, StatusCancelled, true},
		{StatusAssigned, StatusCancelled, true},
		{StatusPickedUp, StatusCancelled, true},
		// invalid: skipping states
		{StatusPending, StatusPickedUp, false},
		{StatusPending, StatusDelivered, false},
		{StatusAssigned, StatusDelivered, false},
		// invalid: backwards
		{StatusAssigned, StatusPending, false},
		{StatusPickedUp, StatusAssigned, false},
		// invalid: terminal states have no outgoing transitions
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusAssigned, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

type fixedPricing struct {
	amount int64
}

func (p fixedPricing) Quote(_ context.Context, _, _ types.Point, _ string) (types.Money, error) {
	return types.Money{Amount: p.amount, Currency: "ZMW"}, nil
}

type rosterFunc func(types.ID) bool

func (f rosterFunc) IsOnline(_ context.Context, id types.ID) (bool, error) {
	return f(id), nil
}

func allOnline() DriverRoster  { return rosterFunc(func(types.ID) bool { return true }) }
func allOffline() DriverRoster { return rosterFunc(func(types.ID) bool { return false }) }

func newTestService(store Store, roster DriverRoster) *Service {
	return NewService(store, fixedPricing{amount: 50}, roster, realtime.NewMemoryFeed(), nil)
}

func createPending(t *testing.T, svc *Service, clientID types.ID) *Order {
	t.Helper()
	o, err := svc.Create(context.Background(), CreateCommand{
		ClientID:       &clientID,
		ActorType:      "client",
		PickupAddress:  "Cairo Road, Lusaka",
		Pickup:         types.Point{Lat: -15.4167, Lng: 28.2833},
		DropoffAddress: "Manda Hill, Lusaka",
		Dropoff:        types.Point{Lat: -15.3983, Lng: 28.3049},
		VehicleClass:   "motorcycle",
		ReceiverName:   "K. Banda",
		ReceiverPhone:  "+260971234567",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func TestLifecycleHappyPath(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	svc := newTestService(store, allOnline())

	client := types.NewID()
	driver := types.NewID()

	o := createPending(t, svc, client)
	if o.Status != StatusPending {
		t.Fatalf("new order status = %s, want pending", o.Status)
	}
	if o.Price.Amount != 50 {
		t.Fatalf("quoted price = %d, want 50", o.Price.Amount)
	}

	claimed, err := svc.Claim(ctx, ClaimCommand{OrderID: o.ID, DriverID: driver})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.Status != StatusAssigned {
		t.Fatalf("claimed status = %s, want assigned", claimed.Status)
	}
	if claimed.AssignedDriverID == nil || *claimed.AssignedDriverID != driver {
		t.Fatal("claim did not record the winning driver")
	}

	if err := svc.Pickup(ctx, PickupCommand{OrderID: o.ID, DriverID: driver}); err != nil {
		t.Fatalf("pickup: %v", err)
	}
	if err := svc.Complete(ctx, CompleteCommand{OrderID: o.ID, DriverID: driver}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	final, err := svc.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Status != StatusDelivered {
		t.Fatalf("final status = %s, want delivered", final.Status)
	}
	if final.PickedUpAt == nil || final.DeliveredAt == nil {
		t.Fatal("lifecycle timestamps not recorded")
	}

	events := store.Events()
	if len(events) != 4 {
		t.Fatalf("status events = %d, want 4 (create, claim, pickup, complete)", len(events))
	}
}

func TestClaimRequiresOnlineDriver(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemStore(), allOffline())

	o := createPending(t, svc, types.NewID())
	_, err := svc.Claim(ctx, ClaimCommand{OrderID: o.ID, DriverID: types.NewID()})
	if !errors.Is(err, ErrDriverOffline) {
		t.Fatalf("claim while offline: err = %v, want ErrDriverOffline", err)
	}
}

func TestClaimAlreadyTaken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemStore(), allOnline())

	o := createPending(t, svc, types.NewID())
	first := types.NewID()
	second := types.NewID()

	if _, err := svc.Claim(ctx, ClaimCommand{OrderID: o.ID, DriverID: first}); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	_, err := svc.Claim(ctx, ClaimCommand{OrderID: o.ID, DriverID: second})
	if !errors.Is(err, ErrOrderTaken) {
		t.Fatalf("second claim: err = %v, want ErrOrderTaken", err)
	}

	got, _ := svc.Get(ctx, o.ID)
	if got.AssignedDriverID == nil || *got.AssignedDriverID != first {
		t.Fatal("loser's claim must not overwrite the winner")
	}
}

func TestClaimMissingOrder(t *testing.T) {
	svc := newTestService(NewMemStore(), allOnline())
	_, err := svc.Claim(context.Background(), ClaimCommand{OrderID: types.NewID(), DriverID: types.NewID()})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("claim unknown order: err = %v, want ErrNotFound", err)
	}
}

func TestAdvanceGuards(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemStore(), allOnline())
	driver := types.NewID()

	// pickup straight from pending is an invalid transition, not an assignee problem
	o := createPending(t, svc, types.NewID())
	if err := svc.Pickup(ctx, PickupCommand{OrderID: o.ID, DriverID: driver}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pickup on pending: err = %v, want ErrInvalidState", err)
	}

	// complete straight from assigned skips picked_up
	if _, err := svc.Claim(ctx, ClaimCommand{OrderID: o.ID, DriverID: driver}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := svc.Complete(ctx, CompleteCommand{OrderID: o.ID, DriverID: driver}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("complete on assigned: err = %v, want ErrInvalidState", err)
	}

	// only the assigned driver may advance
	other := types.NewID()
	if err := svc.Pickup(ctx, PickupCommand{OrderID: o.ID, DriverID: other}); !errors.Is(err, ErrNotAssignee) {
		t.Fatalf("pickup by stranger: err = %v, want ErrNotAssignee", err)
	}
}

func TestTerminalOrdersAreImmutable(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	svc := newTestService(store, allOnline())
	driver := types.NewID()

	o := createPending(t, svc, types.NewID())
	if _, err := svc.Claim(ctx, ClaimCommand{OrderID: o.ID, DriverID: driver}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := svc.Pickup(ctx, PickupCommand{OrderID: o.ID, DriverID: driver}); err != nil {
		t.Fatalf("pickup: %v", err)
	}
	if err := svc.Complete(ctx, CompleteCommand{OrderID: o.ID, DriverID: driver}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := svc.Pickup(ctx, PickupCommand{OrderID: o.ID, DriverID: driver}); !errors.Is(err, ErrStaleState) {
		t.Fatalf("pickup on delivered: err = %v, want ErrStaleState", err)
	}
	if err := svc.Cancel(ctx, CancelCommand{OrderID: o.ID, ActorType: "admin", ActorID: types.NewID()}); !errors.Is(err, ErrStaleState) {
		t.Fatalf("cancel delivered: err = %v, want ErrStaleState", err)
	}

	got, _ := svc.Get(ctx, o.ID)
	if got.Status != StatusDelivered {
		t.Fatalf("rejected transition mutated the row: status = %s", got.Status)
	}
}

func TestCancelPolicy(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemStore(), allOnline())
	client := types.NewID()
	driver := types.NewID()

	// client cancels own pending order
	o := createPending(t, svc, client)
	if err := svc.Cancel(ctx, CancelCommand{OrderID: o.ID, ActorType: "client", ActorID: client}); err != nil {
		t.Fatalf("client cancel own pending: %v", err)
	}

	// client may not cancel someone else's order
	o2 := createPending(t, svc, client)
	stranger := types.NewID()
	if err := svc.Cancel(ctx, CancelCommand{OrderID: o2.ID, ActorType: "client", ActorID: stranger}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("client cancel other's order: err = %v, want ErrForbidden", err)
	}

	// client may not cancel once a driver is assigned
	if _, err := svc.Claim(ctx, ClaimCommand{OrderID: o2.ID, DriverID: driver}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := svc.Cancel(ctx, CancelCommand{OrderID: o2.ID, ActorType: "client", ActorID: client}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("client cancel assigned: err = %v, want ErrInvalidState", err)
	}

	// admin cancels any non-terminal order
	if err := svc.Cancel(ctx, CancelCommand{OrderID: o2.ID, ActorType: "admin", ActorID: types.NewID()}); err != nil {
		t.Fatalf("admin cancel assigned: %v", err)
	}

	// drivers never cancel
	o3 := createPending(t, svc, client)
	if err := svc.Cancel(ctx, CancelCommand{OrderID: o3.ID, ActorType: "driver", ActorID: driver}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("driver cancel: err = %v, want ErrForbidden", err)
	}
}

func TestDirectAssignOnNonPending(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemStore(), allOnline())
	driver := types.NewID()
	admin := types.NewID()

	o := createPending(t, svc, types.NewID())
	if _, err := svc.Claim(ctx, ClaimCommand{OrderID: o.ID, DriverID: driver}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	err := svc.DirectAssign(ctx, AssignCommand{OrderID: o.ID, DriverID: types.NewID(), AdminID: admin})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("assign on assigned: err = %v, want ErrInvalidState", err)
	}

	if err := svc.Cancel(ctx, CancelCommand{OrderID: o.ID, ActorType: "admin", ActorID: admin}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	err = svc.DirectAssign(ctx, AssignCommand{OrderID: o.ID, DriverID: types.NewID(), AdminID: admin})
	if !errors.Is(err, ErrStaleState) {
		t.Fatalf("assign on cancelled: err = %v, want ErrStaleState", err)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemStore(), allOnline())

	_, err := svc.Create(ctx, CreateCommand{ActorType: "client"})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("create without addresses: err = %v, want ErrBadRequest", err)
	}

	_, err = svc.Create(ctx, CreateCommand{
		ActorType:      "admin",
		PickupAddress:  "A",
		DropoffAddress: "B",
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("admin create without customer name: err = %v, want ErrBadRequest", err)
	}

	neg := types.Money{Amount: -10, Currency: "ZMW"}
	_, err = svc.Create(ctx, CreateCommand{
		ActorType:      "admin",
		CustomerName:   "Walk-in",
		PickupAddress:  "A",
		DropoffAddress: "B",
		PriceOverride:  &neg,
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("negative price override: err = %v, want ErrBadRequest", err)
	}
}

func TestActiveForDriver(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemStore(), allOnline())
	driver := types.NewID()

	active, err := svc.ActiveForDriver(ctx, driver)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active != nil {
		t.Fatal("expected no active order for fresh driver")
	}

	o := createPending(t, svc, types.NewID())
	if _, err := svc.Claim(ctx, ClaimCommand{OrderID: o.ID, DriverID: driver}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	active, err = svc.ActiveForDriver(ctx, driver)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active == nil || active.ID != o.ID {
		t.Fatal("claimed order should be the driver's active order")
	}
}
