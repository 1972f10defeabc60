package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

const orderColumns = `o.id, o.customer_id, c.name, o.order_date, o.status, o.notes, o.total_items, o.last_updated`

const (
	searchLimit = 100
	// defaultRecentLimit применяется при неположительном limit в FindRecent.
	defaultRecentLimit = 10
)

var orderOrderColumns = map[string]bool{
	"id":           true,
	"order_date":   true,
	"status":       true,
	"total_items":  true,
	"last_updated": true,
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт SQLite-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create записывает заказ, его позиции и первую запись истории статусов
// одной транзакцией: либо всё, либо ничего.
func (r *orderRepository) Create(order domain.Order, items []domain.OrderItem) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if len(items) == 0 {
		return 0, domain.ErrItemsRequired
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := nowText()
	orderDate := now
	if !order.OrderDate.IsZero() {
		orderDate = formatTime(order.OrderDate)
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		INSERT INTO orders (customer_id, order_date, status, notes, total_items, last_updated)
		VALUES (?,?,?,?,?,?)
	`, order.CustomerID, orderDate, string(order.Status), nullString(order.Notes), order.TotalItems, now)
	if err != nil {
		if isConstraintViolation(err) {
			return 0, domain.ErrCustomerNotFound
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}

	var orderID int64
	orderID, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order insert id: %w", err)
	}

	for _, item := range items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, bolt_id, quantity, created_at)
			VALUES (?,?,?,?)
		`, orderID, item.BoltID, item.Qty, now); err != nil {
			if isConstraintViolation(err) {
				err = domain.ErrBoltNotFound
				return 0, err
			}
			return 0, fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_at, changed_by)
		VALUES (?, NULL, ?, ?, ?)
	`, orderID, string(order.Status), now, domain.SystemActor); err != nil {
		return 0, fmt.Errorf("insert initial status history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create order: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) GetByID(id int64) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = ?
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	history, err := r.loadHistory(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.History = history

	return order, nil
}

func (r *orderRepository) List(orderBy string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	clause, err := orderClause(orderBy, "order_date DESC", orderOrderColumns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.`+clause)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// UpdateStatus читает текущий статус и применяет переход в одной
// транзакции на единственном подключении, так что читатель и писатель
// не могут разойтись. Совпадающий статус — no-op без записи.
func (r *orderRepository) UpdateStatus(id int64, status domain.OrderStatus, changedBy string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrOrderNotFound
			return false, err
		}
		return false, fmt.Errorf("select order status: %w", err)
	}

	if domain.OrderStatus(current) == status {
		_ = tx.Rollback()
		return false, nil
	}

	now := nowText()
	if _, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = ?, last_updated = ? WHERE id = ?
	`, string(status), now, id); err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_at, changed_by)
		VALUES (?,?,?,?,?)
	`, id, current, string(status), now, changedBy); err != nil {
		return false, fmt.Errorf("insert status history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit status update: %w", err)
	}

	return true, nil
}

func (r *orderRepository) UpdateNotes(id int64, notes string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET notes = ?, last_updated = ? WHERE id = ?
	`, nullString(notes), nowText(), id)
	if err != nil {
		return false, fmt.Errorf("update order notes: %w", err)
	}

	return changed(res)
}

func (r *orderRepository) UpdateCustomer(id int64, customerID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET customer_id = ?, last_updated = ? WHERE id = ?
	`, customerID, nowText(), id)
	if err != nil {
		if isConstraintViolation(err) {
			return false, domain.ErrCustomerNotFound
		}
		return false, fmt.Errorf("update order customer: %w", err)
	}

	return changed(res)
}

// Delete проверяет статус и удаляет заказ в одной транзакции.
// Позиции и история уходят каскадом.
func (r *orderRepository) Delete(id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrOrderNotFound
			return false, err
		}
		return false, fmt.Errorf("select order status: %w", err)
	}

	if !domain.OrderStatus(current).Deletable() {
		err = domain.ErrOrderNotDeletable
		return false, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete order: %w", err)
	}

	return true, nil
}

func (r *orderRepository) FindByCustomer(customerID int64) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.customer_id = ?
		ORDER BY o.order_date DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("find orders by customer: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *orderRepository) FindByCustomerName(name string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE c.name LIKE ?
		ORDER BY o.order_date DESC
		LIMIT ?
	`, "%"+name+"%", searchLimit)
	if err != nil {
		return nil, fmt.Errorf("find orders by customer name: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *orderRepository) FindByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.status = ?
		ORDER BY o.order_date DESC
		LIMIT ?
	`, string(status), searchLimit)
	if err != nil {
		return nil, fmt.Errorf("find orders by status: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *orderRepository) FindByBoltName(name string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN order_items oi ON oi.order_id = o.id
		JOIN bolts b ON b.id = oi.bolt_id
		WHERE b.name LIKE ?
		ORDER BY o.order_date DESC
		LIMIT ?
	`, "%"+name+"%", searchLimit)
	if err != nil {
		return nil, fmt.Errorf("find orders by bolt name: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *orderRepository) FindRecent(limit int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.order_date DESC, o.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("find recent orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *orderRepository) FindByDateRange(start, end time.Time) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.order_date BETWEEN ? AND ?
		ORDER BY o.order_date DESC, o.id DESC
	`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("find orders by date range: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *orderRepository) History(orderID int64) ([]domain.StatusChange, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.loadHistory(ctx, orderID)
}

func (r *orderRepository) loadItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.bolt_id, b.name, oi.quantity, oi.created_at
		FROM order_items oi
		JOIN bolts b ON b.id = oi.bolt_id
		WHERE oi.order_id = ?
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var (
			item      domain.OrderItem
			createdAt string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.BoltID, &item.BoltName, &item.Qty, &createdAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) loadHistory(ctx context.Context, orderID int64) ([]domain.StatusChange, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, old_status, new_status, changed_at, changed_by
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY changed_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}
	defer rows.Close()

	history := make([]domain.StatusChange, 0)
	for rows.Next() {
		var (
			change               domain.StatusChange
			oldStatus, changedBy sql.NullString
			newStatus, changedAt string
		)
		if err := rows.Scan(&change.ID, &change.OrderID, &oldStatus, &newStatus, &changedAt, &changedBy); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		change.OldStatus = domain.OrderStatus(oldStatus.String)
		change.NewStatus = domain.OrderStatus(newStatus)
		change.ChangedBy = changedBy.String
		if change.ChangedAt, err = parseTime(changedAt); err != nil {
			return nil, err
		}
		history = append(history, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history: %w", err)
	}

	return history, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order                 domain.Order
		status                string
		notes                 sql.NullString
		orderDate, lastUpdate string
	)
	if err := row.Scan(
		&order.ID, &order.CustomerID, &order.CustomerName,
		&orderDate, &status, &notes, &order.TotalItems, &lastUpdate,
	); err != nil {
		return domain.Order{}, err
	}

	order.Status = domain.OrderStatus(status)
	order.Notes = notes.String

	var err error
	if order.OrderDate, err = parseTime(orderDate); err != nil {
		return domain.Order{}, err
	}
	if order.LastUpdated, err = parseTime(lastUpdate); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func scanOrders(rows *sql.Rows) ([]domain.Order, error) {
	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
