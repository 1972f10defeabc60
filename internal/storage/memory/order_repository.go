package memory

import (
	"sort"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

type orderRepository struct {
	store *Store
}

var orderSortColumns = map[string]bool{
	"id":           true,
	"order_date":   true,
	"status":       true,
	"total_items":  true,
	"last_updated": true,
}

func (r *orderRepository) Create(order domain.Order, items []domain.OrderItem) (int64, error) {
	if len(items) == 0 {
		return 0, domain.ErrItemsRequired
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	customer, ok := r.store.customers[order.CustomerID]
	if !ok {
		return 0, domain.ErrCustomerNotFound
	}

	ts := now()
	r.store.nextOrderID++
	order.ID = r.store.nextOrderID
	order.CustomerName = customer.Name
	if order.OrderDate.IsZero() {
		order.OrderDate = ts
	}
	order.LastUpdated = ts

	stored := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		bolt, ok := r.store.bolts[item.BoltID]
		if !ok {
			return 0, domain.ErrBoltNotFound
		}
		r.store.nextItemID++
		item.ID = r.store.nextItemID
		item.OrderID = order.ID
		item.BoltName = bolt.Name
		item.CreatedAt = ts
		stored = append(stored, item)
	}
	order.Items = stored

	r.store.nextChangeID++
	order.History = []domain.StatusChange{{
		ID:        r.store.nextChangeID,
		OrderID:   order.ID,
		NewStatus: order.Status,
		ChangedAt: ts,
		ChangedBy: domain.SystemActor,
	}}

	r.store.orders[order.ID] = order

	return order.ID, nil
}

func (r *orderRepository) GetByID(id int64) (domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *orderRepository) List(orderBy string) ([]domain.Order, error) {
	column, desc, err := sortKey(orderBy, "order_date DESC", orderSortColumns)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	orders := r.collect(func(domain.Order) bool { return true })
	r.store.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool {
		var less bool
		switch column {
		case "id":
			less = orders[i].ID < orders[j].ID
		case "status":
			less = orders[i].Status < orders[j].Status
		case "total_items":
			less = orders[i].TotalItems < orders[j].TotalItems
		case "last_updated":
			less = orders[i].LastUpdated.Before(orders[j].LastUpdated)
		default:
			less = orders[i].OrderDate.Before(orders[j].OrderDate)
		}
		if desc {
			return !less
		}
		return less
	})

	return orders, nil
}

func (r *orderRepository) UpdateStatus(id int64, status domain.OrderStatus, changedBy string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if order.Status == status {
		return false, nil
	}

	ts := now()
	r.store.nextChangeID++
	order.History = append(order.History, domain.StatusChange{
		ID:        r.store.nextChangeID,
		OrderID:   id,
		OldStatus: order.Status,
		NewStatus: status,
		ChangedAt: ts,
		ChangedBy: changedBy,
	})
	order.Status = status
	order.LastUpdated = ts
	r.store.orders[id] = order

	return true, nil
}

func (r *orderRepository) UpdateNotes(id int64, notes string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return false, nil
	}
	order.Notes = notes
	order.LastUpdated = now()
	r.store.orders[id] = order

	return true, nil
}

func (r *orderRepository) UpdateCustomer(id int64, customerID int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return false, nil
	}
	customer, ok := r.store.customers[customerID]
	if !ok {
		return false, domain.ErrCustomerNotFound
	}
	order.CustomerID = customerID
	order.CustomerName = customer.Name
	order.LastUpdated = now()
	r.store.orders[id] = order

	return true, nil
}

func (r *orderRepository) Delete(id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if !order.Status.Deletable() {
		return false, domain.ErrOrderNotDeletable
	}
	// Позиции и история хранятся внутри заказа, каскад тривиален.
	delete(r.store.orders, id)

	return true, nil
}

func (r *orderRepository) FindByCustomer(customerID int64) ([]domain.Order, error) {
	r.store.mu.RLock()
	orders := r.collect(func(o domain.Order) bool { return o.CustomerID == customerID })
	r.store.mu.RUnlock()

	sortOrders(orders)
	return orders, nil
}

func (r *orderRepository) FindByCustomerName(name string) ([]domain.Order, error) {
	r.store.mu.RLock()
	orders := r.collect(func(o domain.Order) bool { return containsFold(o.CustomerName, name) })
	r.store.mu.RUnlock()

	sortOrders(orders)
	return orders, nil
}

func (r *orderRepository) FindByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	r.store.mu.RLock()
	orders := r.collect(func(o domain.Order) bool { return o.Status == status })
	r.store.mu.RUnlock()

	sortOrders(orders)
	return orders, nil
}

func (r *orderRepository) FindByBoltName(name string) ([]domain.Order, error) {
	r.store.mu.RLock()
	orders := r.collect(func(o domain.Order) bool {
		for _, item := range o.Items {
			if containsFold(item.BoltName, name) {
				return true
			}
		}
		return false
	})
	r.store.mu.RUnlock()

	sortOrders(orders)
	return orders, nil
}

func (r *orderRepository) FindRecent(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}

	r.store.mu.RLock()
	orders := r.collect(func(domain.Order) bool { return true })
	r.store.mu.RUnlock()

	sortOrders(orders)
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (r *orderRepository) FindByDateRange(start, end time.Time) ([]domain.Order, error) {
	r.store.mu.RLock()
	orders := r.collect(func(o domain.Order) bool {
		return !o.OrderDate.Before(start) && !o.OrderDate.After(end)
	})
	r.store.mu.RUnlock()

	sortOrders(orders)
	return orders, nil
}

func (r *orderRepository) History(orderID int64) ([]domain.StatusChange, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	order, ok := r.store.orders[orderID]
	if !ok {
		return []domain.StatusChange{}, nil
	}

	history := make([]domain.StatusChange, len(order.History))
	copy(history, order.History)

	return history, nil
}

// collect вызывается под мьютексом хранилища.
func (r *orderRepository) collect(match func(domain.Order) bool) []domain.Order {
	orders := make([]domain.Order, 0)
	for _, order := range r.store.orders {
		if match(order) {
			orders = append(orders, cloneOrder(order))
		}
	}
	return orders
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	history := make([]domain.StatusChange, len(order.History))
	copy(history, order.History)
	order.Items = items
	order.History = history
	return order
}

var _ domain.OrderRepository = (*orderRepository)(nil)
