package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

// Store хранит все сущности в памяти под общим мьютексом, чтобы
// ссылочные правила (запрет удаления, каскады) работали так же,
// как в файле базы. Используется в тестах и для demo-режима.
type Store struct {
	mu sync.RWMutex

	customers map[int64]domain.Customer
	bolts     map[int64]domain.Bolt
	orders    map[int64]domain.Order

	nextCustomerID int64
	nextBoltID     int64
	nextOrderID    int64
	nextItemID     int64
	nextChangeID   int64
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		customers: make(map[int64]domain.Customer),
		bolts:     make(map[int64]domain.Bolt),
		orders:    make(map[int64]domain.Order),
	}
}

// Customers возвращает репозиторий клиентов поверх этого хранилища.
func (s *Store) Customers() domain.CustomerRepository {
	return &customerRepository{store: s}
}

// Bolts возвращает репозиторий складских позиций.
func (s *Store) Bolts() domain.BoltRepository {
	return &boltRepository{store: s}
}

// Orders возвращает репозиторий заказов.
func (s *Store) Orders() domain.OrderRepository {
	return &orderRepository{store: s}
}

// Stats возвращает репозиторий статистики.
func (s *Store) Stats() domain.StatsRepository {
	return &statsRepository{store: s}
}

func now() time.Time {
	return time.Now().UTC()
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// sortKey разбирает выражение сортировки "column [ASC|DESC]" и сверяет
// колонку с белым списком, как это делает файловое хранилище.
func sortKey(orderBy, fallback string, allowed map[string]bool) (column string, desc bool, err error) {
	if orderBy == "" {
		orderBy = fallback
	}
	column = orderBy
	if i := strings.IndexByte(orderBy, ' '); i > 0 {
		column = orderBy[:i]
		switch strings.ToUpper(orderBy[i+1:]) {
		case "ASC":
		case "DESC":
			desc = true
		default:
			return "", false, domain.ErrInvalidOrderColumn
		}
	}
	if !allowed[column] {
		return "", false, domain.ErrInvalidOrderColumn
	}
	return column, desc, nil
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}
