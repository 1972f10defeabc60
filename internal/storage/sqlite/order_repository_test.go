package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

// seedOrderFixture создаёт клиента, болт и заказ в указанном статусе.
func seedOrderFixture(t *testing.T, store *Store, status domain.OrderStatus) (orderID, customerID, boltID int64) {
	t.Helper()

	customerID = seedCustomer(t, store, "Иванов И.И.")
	boltID = seedBolt(t, store, "Hex Bolt", 100)

	orderID, err := NewOrderRepository(store).Create(domain.Order{
		CustomerID: customerID,
		Status:     status,
		Notes:      "тестовый заказ",
		TotalItems: 3,
	}, []domain.OrderItem{{BoltID: boltID, Qty: 3}})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	return orderID, customerID, boltID
}

func TestOrderRepository_CreateGet(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	orderID, customerID, boltID := seedOrderFixture(t, store, domain.OrderStatusPending)

	order, err := repo.GetByID(orderID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if order.CustomerID != customerID || order.CustomerName != "Иванов И.И." {
		t.Errorf("unexpected customer data: %+v", order)
	}
	if order.Notes != "тестовый заказ" || order.TotalItems != 3 {
		t.Errorf("unexpected order fields: %+v", order)
	}
	if order.OrderDate.IsZero() || order.LastUpdated.IsZero() {
		t.Error("expected timestamps to be set")
	}

	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.BoltID != boltID || item.BoltName != "Hex Bolt" || item.Qty != 3 {
		t.Errorf("unexpected item: %+v", item)
	}

	if len(order.History) != 1 {
		t.Fatalf("expected initial history record, got %d", len(order.History))
	}
	initial := order.History[0]
	if initial.OldStatus != "" || initial.NewStatus != domain.OrderStatusPending {
		t.Errorf("unexpected initial record: %+v", initial)
	}
	if initial.ChangedBy != domain.SystemActor {
		t.Errorf("expected actor %q, got %q", domain.SystemActor, initial.ChangedBy)
	}
}

func TestOrderRepository_CreateUnknownCustomer(t *testing.T) {
	store := newTestStore(t)
	boltID := seedBolt(t, store, "Hex Bolt", 10)

	_, err := NewOrderRepository(store).Create(domain.Order{
		CustomerID: 999,
		Status:     domain.OrderStatusPending,
		TotalItems: 1,
	}, []domain.OrderItem{{BoltID: boltID, Qty: 1}})
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestOrderRepository_CreateUnknownBoltAtomic(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	customerID := seedCustomer(t, store, "Иванов И.И.")
	boltID := seedBolt(t, store, "Hex Bolt", 10)

	_, err := repo.Create(domain.Order{
		CustomerID: customerID,
		Status:     domain.OrderStatusPending,
		TotalItems: 3,
	}, []domain.OrderItem{
		{BoltID: boltID, Qty: 1},
		{BoltID: 999, Qty: 2},
	})
	if !errors.Is(err, domain.ErrBoltNotFound) {
		t.Fatalf("expected ErrBoltNotFound, got %v", err)
	}

	// Транзакция откатилась целиком: ни заказа, ни позиций.
	orders, err := repo.List("")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("expected no orders after rollback, got %d", len(orders))
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	orderID, _, _ := seedOrderFixture(t, store, domain.OrderStatusPending)

	changed, err := repo.UpdateStatus(orderID, domain.OrderStatusApproved, "manager")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if !changed {
		t.Fatal("expected status change")
	}

	changed, err = repo.UpdateStatus(orderID, domain.OrderStatusShipped, "manager")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if !changed {
		t.Fatal("expected status change")
	}

	history, err := repo.History(orderID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 history records, got %d", len(history))
	}
	if history[1].OldStatus != domain.OrderStatusPending || history[1].NewStatus != domain.OrderStatusApproved {
		t.Errorf("unexpected first transition: %+v", history[1])
	}
	if history[2].OldStatus != domain.OrderStatusApproved || history[2].NewStatus != domain.OrderStatusShipped {
		t.Errorf("unexpected second transition: %+v", history[2])
	}
}

func TestOrderRepository_UpdateStatusNoop(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	orderID, _, _ := seedOrderFixture(t, store, domain.OrderStatusPending)

	before, err := repo.GetByID(orderID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	changed, err := repo.UpdateStatus(orderID, domain.OrderStatusPending, "manager")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if changed {
		t.Fatal("same status should be a no-op")
	}

	after, err := repo.GetByID(orderID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(after.History) != len(before.History) {
		t.Errorf("no-op should not append history: %d -> %d", len(before.History), len(after.History))
	}
	if !after.LastUpdated.Equal(before.LastUpdated) {
		t.Error("no-op should not touch last_updated")
	}
}

func TestOrderRepository_UpdateStatusMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := NewOrderRepository(store).UpdateStatus(999, domain.OrderStatusApproved, "manager"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_DeletePrecondition(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	orderID, _, _ := seedOrderFixture(t, store, domain.OrderStatusShipped)

	if _, err := repo.Delete(orderID); !errors.Is(err, domain.ErrOrderNotDeletable) {
		t.Fatalf("expected ErrOrderNotDeletable, got %v", err)
	}

	if _, err := repo.GetByID(orderID); err != nil {
		t.Fatalf("order should survive failed delete: %v", err)
	}
}

func TestOrderRepository_DeleteCascades(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	orderID, _, _ := seedOrderFixture(t, store, domain.OrderStatusPending)

	deleted, err := repo.Delete(orderID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report change")
	}

	if _, err := repo.GetByID(orderID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	history, err := repo.History(orderID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history should cascade with the order, got %d records", len(history))
	}

	// Прямая проверка каскада позиций.
	var itemCount int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = ?`, orderID).Scan(&itemCount); err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if itemCount != 0 {
		t.Errorf("expected items cascade, got %d rows", itemCount)
	}
}

func TestOrderRepository_CustomerDeleteBlocked(t *testing.T) {
	store := newTestStore(t)

	_, customerID, _ := seedOrderFixture(t, store, domain.OrderStatusPending)

	if _, err := NewCustomerRepository(store).Delete(customerID); !errors.Is(err, domain.ErrCustomerHasOrders) {
		t.Fatalf("expected ErrCustomerHasOrders, got %v", err)
	}
}

func TestOrderRepository_FindByBoltName(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	orderID, _, _ := seedOrderFixture(t, store, domain.OrderStatusPending)

	found, err := repo.FindByBoltName("hex")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != orderID {
		t.Errorf("unexpected result: %+v", found)
	}

	found, err = repo.FindByBoltName("anchor")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no matches, got %d", len(found))
	}
}

func TestOrderRepository_FindRecentAndDateRange(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	customerID := seedCustomer(t, store, "Иванов И.И.")
	boltID := seedBolt(t, store, "Hex Bolt", 100)

	dates := []time.Time{
		time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	ids := make([]int64, 0, len(dates))
	for _, date := range dates {
		id, err := repo.Create(domain.Order{
			CustomerID: customerID,
			OrderDate:  date,
			Status:     domain.OrderStatusPending,
			TotalItems: 1,
		}, []domain.OrderItem{{BoltID: boltID, Qty: 1}})
		if err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		ids = append(ids, id)
	}

	recent, err := repo.FindRecent(2)
	if err != nil {
		t.Fatalf("find recent failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != ids[2] || recent[1].ID != ids[1] {
		t.Errorf("unexpected recent orders: %+v", recent)
	}

	// Неположительный limit заменяется значением по умолчанию.
	recent, err = repo.FindRecent(0)
	if err != nil {
		t.Fatalf("find recent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("expected all 3 orders, got %d", len(recent))
	}

	inRange, err := repo.FindByDateRange(
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("find by date range failed: %v", err)
	}
	if len(inRange) != 1 || inRange[0].ID != ids[1] {
		t.Errorf("unexpected orders in range: %+v", inRange)
	}

	empty, err := repo.FindByDateRange(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("find by date range failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no orders, got %d", len(empty))
	}
}

func TestOrderRepository_FindByStatus(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrderRepository(store)

	orderID, _, _ := seedOrderFixture(t, store, domain.OrderStatusPending)

	found, err := repo.FindByStatus(domain.OrderStatusPending)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != orderID {
		t.Errorf("unexpected result: %+v", found)
	}

	found, err = repo.FindByStatus(domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no shipped orders, got %d", len(found))
	}
}
