package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

const (
	recentWindow = 30 * 24 * time.Hour
	topLimit     = 5
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository создаёт SQLite-реализацию StatsRepository.
func NewStatsRepository(store *Store) domain.StatsRepository {
	return &statsRepository{db: store.DB()}
}

// OrderStatistics собирает сводку независимыми запросами. Снимок между
// запросами не фиксируется: при параллельной записи значения могут
// отражать чуть разные моменты времени.
func (r *statsRepository) OrderStatistics() (domain.OrderStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var stats domain.OrderStats

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders); err != nil {
		return domain.OrderStats{}, fmt.Errorf("count orders: %w", err)
	}

	byStatus, err := r.countByStatus(ctx)
	if err != nil {
		return domain.OrderStats{}, err
	}
	stats.ByStatus = byStatus

	cutoff := formatTime(time.Now().UTC().Add(-recentWindow))
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE order_date >= ?
	`, cutoff).Scan(&stats.RecentOrders); err != nil {
		return domain.OrderStats{}, fmt.Errorf("count recent orders: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM order_items
	`).Scan(&stats.TotalItemsOrdered); err != nil {
		return domain.OrderStats{}, fmt.Errorf("sum ordered items: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(total_items), 0) FROM orders
	`).Scan(&stats.AvgItemsPerOrder); err != nil {
		return domain.OrderStats{}, fmt.Errorf("average items per order: %w", err)
	}

	if stats.TopBolts, err = r.topBolts(ctx); err != nil {
		return domain.OrderStats{}, err
	}
	if stats.TopCustomers, err = r.topCustomers(ctx); err != nil {
		return domain.OrderStats{}, err
	}

	return stats, nil
}

func (r *statsRepository) countByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM orders GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	defer rows.Close()

	result := make(map[domain.OrderStatus]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		result[domain.OrderStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return result, nil
}

func (r *statsRepository) topBolts(ctx context.Context) ([]domain.BoltOrderCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.name, SUM(oi.quantity) AS total_qty
		FROM order_items oi
		JOIN bolts b ON b.id = oi.bolt_id
		GROUP BY oi.bolt_id
		ORDER BY total_qty DESC
		LIMIT ?
	`, topLimit)
	if err != nil {
		return nil, fmt.Errorf("top ordered bolts: %w", err)
	}
	defer rows.Close()

	result := make([]domain.BoltOrderCount, 0, topLimit)
	for rows.Next() {
		var entry domain.BoltOrderCount
		if err := rows.Scan(&entry.Name, &entry.Qty); err != nil {
			return nil, fmt.Errorf("scan top bolt: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top bolts: %w", err)
	}

	return result, nil
}

func (r *statsRepository) topCustomers(ctx context.Context) ([]domain.CustomerOrderCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, COUNT(o.id) AS order_count
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		GROUP BY o.customer_id
		ORDER BY order_count DESC
		LIMIT ?
	`, topLimit)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()

	result := make([]domain.CustomerOrderCount, 0, topLimit)
	for rows.Next() {
		var entry domain.CustomerOrderCount
		if err := rows.Scan(&entry.Name, &entry.Orders); err != nil {
			return nil, fmt.Errorf("scan top customer: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top customers: %w", err)
	}

	return result, nil
}

var _ domain.StatsRepository = (*statsRepository)(nil)
