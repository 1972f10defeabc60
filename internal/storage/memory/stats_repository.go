package memory

import (
	"sort"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

const (
	recentWindow = 30 * 24 * time.Hour
	topLimit     = 5
)

type statsRepository struct {
	store *Store
}

func (r *statsRepository) OrderStatistics() (domain.OrderStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := domain.OrderStats{
		ByStatus: make(map[domain.OrderStatus]int64),
	}

	cutoff := now().Add(-recentWindow)
	boltTotals := make(map[string]int64)
	customerTotals := make(map[string]int64)

	var totalItemsRecorded int64
	for _, order := range r.store.orders {
		stats.TotalOrders++
		stats.ByStatus[order.Status]++
		if !order.OrderDate.Before(cutoff) {
			stats.RecentOrders++
		}
		totalItemsRecorded += order.TotalItems
		customerTotals[order.CustomerName]++
		for _, item := range order.Items {
			stats.TotalItemsOrdered += item.Qty
			boltTotals[item.BoltName] += item.Qty
		}
	}

	if stats.TotalOrders > 0 {
		stats.AvgItemsPerOrder = float64(totalItemsRecorded) / float64(stats.TotalOrders)
	}

	for name, qty := range boltTotals {
		stats.TopBolts = append(stats.TopBolts, domain.BoltOrderCount{Name: name, Qty: qty})
	}
	sort.Slice(stats.TopBolts, func(i, j int) bool {
		if stats.TopBolts[i].Qty == stats.TopBolts[j].Qty {
			return stats.TopBolts[i].Name < stats.TopBolts[j].Name
		}
		return stats.TopBolts[i].Qty > stats.TopBolts[j].Qty
	})
	if len(stats.TopBolts) > topLimit {
		stats.TopBolts = stats.TopBolts[:topLimit]
	}

	for name, count := range customerTotals {
		stats.TopCustomers = append(stats.TopCustomers, domain.CustomerOrderCount{Name: name, Orders: count})
	}
	sort.Slice(stats.TopCustomers, func(i, j int) bool {
		if stats.TopCustomers[i].Orders == stats.TopCustomers[j].Orders {
			return stats.TopCustomers[i].Name < stats.TopCustomers[j].Name
		}
		return stats.TopCustomers[i].Orders > stats.TopCustomers[j].Orders
	})
	if len(stats.TopCustomers) > topLimit {
		stats.TopCustomers = stats.TopCustomers[:topLimit]
	}

	return stats, nil
}

var _ domain.StatsRepository = (*statsRepository)(nil)
