package sqlite

import (
	"errors"
	"testing"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

func seedBolt(t *testing.T, store *Store, name string, qty int64) int64 {
	t.Helper()

	id, err := NewBoltRepository(store).Create(domain.Bolt{
		Name:  name,
		Type:  domain.BoltTypeSingle,
		Stamp: "ГОСТ 7798",
		Qty:   qty,
	})
	if err != nil {
		t.Fatalf("create bolt failed: %v", err)
	}
	return id
}

func TestBoltRepository_CreateGet(t *testing.T) {
	store := newTestStore(t)
	repo := NewBoltRepository(store)

	id := seedBolt(t, store, "Hex Bolt", 100)

	bolt, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if bolt.Name != "Hex Bolt" || bolt.Qty != 100 || bolt.Stamp != "ГОСТ 7798" {
		t.Errorf("unexpected bolt: %+v", bolt)
	}
	if bolt.LastUpdated.IsZero() {
		t.Error("expected last_updated to be set")
	}
}

func TestBoltRepository_GetByExactName(t *testing.T) {
	store := newTestStore(t)
	repo := NewBoltRepository(store)

	first := seedBolt(t, store, "Hex Bolt", 10)
	seedBolt(t, store, "HEX BOLT", 20) // дубликат имени в другом регистре

	bolt, err := repo.GetByExactName("hex bolt")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if bolt.ID != first {
		t.Errorf("expected earliest record %d, got %d", first, bolt.ID)
	}

	if _, err := repo.GetByExactName("hex"); !errors.Is(err, domain.ErrBoltNotFound) {
		t.Fatalf("substring should not match, got %v", err)
	}
}

func TestBoltRepository_AdjustQty(t *testing.T) {
	store := newTestStore(t)
	repo := NewBoltRepository(store)

	id := seedBolt(t, store, "Hex Bolt", 10)

	changed, err := repo.AdjustQty(id, -25)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if !changed {
		t.Fatal("expected adjust to report change")
	}

	bolt, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	// Дельта применяется без пола нуля.
	if bolt.Qty != -15 {
		t.Errorf("expected quantity -15, got %d", bolt.Qty)
	}

	changed, err = repo.AdjustQty(999, 1)
	if err != nil {
		t.Fatalf("adjust missing failed: %v", err)
	}
	if changed {
		t.Error("adjust of missing bolt should report no change")
	}
}

func TestBoltRepository_DeleteReferenced(t *testing.T) {
	store := newTestStore(t)
	boltRepo := NewBoltRepository(store)

	customerID := seedCustomer(t, store, "Иванов И.И.")
	boltID := seedBolt(t, store, "Hex Bolt", 10)

	_, err := NewOrderRepository(store).Create(domain.Order{
		CustomerID: customerID,
		Status:     domain.OrderStatusPending,
		TotalItems: 1,
	}, []domain.OrderItem{{BoltID: boltID, Qty: 1}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := boltRepo.Delete(boltID); !errors.Is(err, domain.ErrBoltReferenced) {
		t.Fatalf("expected ErrBoltReferenced, got %v", err)
	}
}
