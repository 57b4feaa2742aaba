// README: DB-backed store tests; need a throwaway Postgres set via VDEL_TEST_DSN.
package order

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vdeliveries/internal/types"
)

func setupPgStore(t *testing.T) *PgStore {
	t.Helper()

	dsn := os.Getenv("VDEL_TEST_DSN")
	if dsn == "" {
		t.Skip("VDEL_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE order_status_events, orders, profiles CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return NewPgStore(db)
}

// insertDriver satisfies the orders → profiles foreign key.
func insertDriver(t *testing.T, store *PgStore, id types.ID) {
	t.Helper()
	_, err := store.db.Exec(context.Background(), `
		INSERT INTO profiles (id, full_name, phone, role)
		VALUES ($1, $2, $3, 'driver')
		ON CONFLICT (id) DO NOTHING`,
		string(id), "Driver "+string(id), "phone-"+string(id))
	if err != nil {
		t.Fatalf("insert driver: %v", err)
	}
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	// order/ → modules/ → internal/ → repo root
	path := filepath.Join(wd, "..", "..", "..", "migrations", "0001_init.sql")
	sql, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sql))
	return err
}

func insertPending(t *testing.T, store *PgStore) types.ID {
	t.Helper()
	o := &Order{
		ID:             types.NewID(),
		Status:         StatusPending,
		CustomerName:   "DB Test",
		PickupAddress:  "A",
		Pickup:         types.Point{Lat: -15.4, Lng: 28.3},
		DropoffAddress: "B",
		Dropoff:        types.Point{Lat: -15.5, Lng: 28.4},
		Price:          types.Money{Amount: 42, Currency: "ZMW"},
		VehicleClass:   "car",
		CreatedAt:      time.Now().UTC(),
	}
	if err := store.Create(context.Background(), o); err != nil {
		t.Fatalf("create: %v", err)
	}
	return o.ID
}

func TestPgClaimConditionalWrite(t *testing.T) {
	ctx := context.Background()
	store := setupPgStore(t)
	id := insertPending(t, store)
	insertDriver(t, store, "d1")
	insertDriver(t, store, "d2")

	ok, err := store.Claim(ctx, id, "d1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !ok {
		t.Fatal("first claim should win")
	}

	ok, err = store.Claim(ctx, id, "d2")
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if ok {
		t.Fatal("second claim must not modify the row")
	}

	o, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Status != StatusAssigned || o.AssignedDriverID == nil || *o.AssignedDriverID != "d1" {
		t.Fatalf("row = %s / %v, want assigned to d1", o.Status, o.AssignedDriverID)
	}
}

// TestPgClaimRace is the production variant of the in-memory race test: the
// WHERE clause on the UPDATE is the only synchronization.
func TestPgClaimRace(t *testing.T) {
	ctx := context.Background()
	store := setupPgStore(t)
	id := insertPending(t, store)

	const drivers = 8
	for i := 0; i < drivers; i++ {
		insertDriver(t, store, types.ID(fmt.Sprintf("d%d", i)))
	}
	wins := make(chan bool, drivers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		did := types.ID(fmt.Sprintf("d%d", i))
		go func() {
			defer wg.Done()
			<-start
			ok, err := store.Claim(ctx, id, did)
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}
			wins <- ok
		}()
	}
	close(start)
	wg.Wait()
	close(wins)

	winners := 0
	for ok := range wins {
		if ok {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
}

func TestPgUpdateStatusStaleFrom(t *testing.T) {
	ctx := context.Background()
	store := setupPgStore(t)
	id := insertPending(t, store)
	insertDriver(t, store, "d1")

	if ok, err := store.Claim(ctx, id, "d1"); err != nil || !ok {
		t.Fatalf("claim: ok=%v err=%v", ok, err)
	}

	// stale expectation: the row is assigned, not pending
	ok, err := store.UpdateStatus(ctx, id, StatusPending, StatusCancelled)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if ok {
		t.Fatal("stale conditional update must not modify the row")
	}

	ok, err = store.UpdateStatus(ctx, id, StatusAssigned, StatusPickedUp)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !ok {
		t.Fatal("valid conditional update should succeed")
	}

	o, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if o.Status != StatusPickedUp || o.PickedUpAt == nil {
		t.Fatalf("row = %s (picked_up_at %v)", o.Status, o.PickedUpAt)
	}
}

func TestPgGetMissing(t *testing.T) {
	store := setupPgStore(t)
	if _, err := store.Get(context.Background(), types.NewID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
