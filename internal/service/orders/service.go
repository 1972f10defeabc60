package orders

import (
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/antonkravchenko/powerlock/internal/domain"
	"github.com/antonkravchenko/powerlock/internal/metrics"
)

// Service реализует рабочий процесс заказов: создание с агрегацией
// позиций, переходы статусов и удаление с проверкой предусловий.
type Service struct {
	orders    domain.OrderRepository
	bolts     domain.BoltRepository
	customers domain.CustomerRepository
	stats     domain.StatsRepository
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService создаёт сервис заказов поверх репозиториев.
func NewService(
	orders domain.OrderRepository,
	bolts domain.BoltRepository,
	customers domain.CustomerRepository,
	stats domain.StatsRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &Service{
		orders:    orders,
		bolts:     bolts,
		customers: customers,
		stats:     stats,
		logger:    logger,
		metrics:   metrics.NewOrderMetrics(),
	}
}

// Create собирает заказ из запрошенных позиций и записывает его атомарно.
// Имена болтов сопоставляются без учёта регистра; дубликаты сливаются
// суммированием количеств. Любое нераспознанное имя отменяет создание
// целиком — частичный заказ не записывается. Статус нового заказа
// всегда pending, независимо от пожеланий вызывающей стороны.
func (s *Service) Create(customerID int64, requested map[string]int64, notes string) (int64, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOpDuration("create_order", time.Since(start))
	}()

	merged := make(map[string]int64, len(requested))
	for name, qty := range requested {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if qty <= 0 {
			s.metrics.RecordOrderCreateFailed()
			return 0, fmt.Errorf("item %q: %w", name, domain.ErrItemQtyInvalid)
		}
		merged[key] += qty
	}
	if len(merged) == 0 {
		s.metrics.RecordOrderCreateFailed()
		return 0, domain.ErrItemsRequired
	}

	customer, err := s.customers.GetByID(customerID)
	if err != nil {
		s.metrics.RecordOrderCreateFailed()
		return 0, err
	}

	// Детерминированный порядок позиций в заказе.
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]domain.OrderItem, 0, len(names))
	var total int64
	for _, name := range names {
		bolt, err := s.bolts.GetByExactName(name)
		if err != nil {
			s.metrics.RecordOrderCreateFailed()
			return 0, fmt.Errorf("resolve item %q: %w", name, err)
		}
		items = append(items, domain.OrderItem{
			BoltID:   bolt.ID,
			BoltName: bolt.Name,
			Qty:      merged[name],
		})
		total += merged[name]
	}

	order := domain.Order{
		CustomerID:   customerID,
		CustomerName: customer.Name,
		Status:       domain.OrderStatusPending,
		Notes:        notes,
		TotalItems:   total,
	}

	id, err := s.orders.Create(order, items)
	if err != nil {
		s.metrics.RecordOrderCreateFailed()
		return 0, err
	}

	s.metrics.RecordOrderCreated()
	s.logger.WithFields(log.Fields{
		"order_id":    id,
		"customer_id": customerID,
		"positions":   len(items),
		"total_items": total,
	}).Info("order created")

	return id, nil
}

// ChangeStatus переводит заказ в новый статус и добавляет запись истории.
// Совпадающий статус — no-op: история, примечания и отметка времени не
// трогаются. Примечания, если переданы, обновляются отдельным шагом
// после состоявшегося перехода.
func (s *Service) ChangeStatus(orderID int64, status domain.OrderStatus, changedBy string, notes *string) (bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOpDuration("change_status", time.Since(start))
	}()

	if !status.IsValid() {
		return false, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, status)
	}
	if strings.TrimSpace(changedBy) == "" {
		changedBy = domain.SystemActor
	}

	changed, err := s.orders.UpdateStatus(orderID, status, changedBy)
	if err != nil {
		return false, err
	}

	if !changed {
		return false, nil
	}

	s.metrics.RecordStatusTransition(string(status))
	s.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"status":     status,
		"changed_by": changedBy,
	}).Info("order status changed")

	if notes != nil {
		if _, err := s.orders.UpdateNotes(orderID, *notes); err != nil {
			return true, err
		}
	}

	return true, nil
}

// UpdateNotes обновляет примечания заказа.
func (s *Service) UpdateNotes(orderID int64, notes string) (bool, error) {
	return s.orders.UpdateNotes(orderID, notes)
}

// Reassign переносит заказ на другого клиента.
func (s *Service) Reassign(orderID, customerID int64) (bool, error) {
	if _, err := s.customers.GetByID(customerID); err != nil {
		return false, err
	}
	return s.orders.UpdateCustomer(orderID, customerID)
}

// Delete удаляет заказ вместе с позициями и историей. Отгруженные и
// доставленные заказы не удаляются.
func (s *Service) Delete(orderID int64) error {
	start := time.Now()
	defer func() {
		s.metrics.RecordOpDuration("delete_order", time.Since(start))
	}()

	if _, err := s.orders.Delete(orderID); err != nil {
		return err
	}

	s.metrics.RecordOrderDeleted()
	s.logger.WithField("order_id", orderID).Info("order deleted")

	return nil
}

// Get возвращает заказ с позициями и историей статусов.
func (s *Service) Get(orderID int64) (domain.Order, error) {
	return s.orders.GetByID(orderID)
}

// List возвращает заказы с указанной сортировкой.
func (s *Service) List(orderBy string) ([]domain.Order, error) {
	return s.orders.List(orderBy)
}

// SearchByCustomerName ищет заказы по подстроке имени клиента.
func (s *Service) SearchByCustomerName(name string) ([]domain.Order, error) {
	return s.orders.FindByCustomerName(name)
}

// SearchByStatus возвращает заказы в указанном статусе.
func (s *Service) SearchByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, status)
	}
	return s.orders.FindByStatus(status)
}

// SearchByBoltName ищет заказы, содержащие болт с похожим именем.
func (s *Service) SearchByBoltName(name string) ([]domain.Order, error) {
	return s.orders.FindByBoltName(name)
}

// Recent возвращает последние заказы, не более limit.
func (s *Service) Recent(limit int) ([]domain.Order, error) {
	return s.orders.FindRecent(limit)
}

// SearchByDateRange возвращает заказы с датой в указанных границах.
func (s *Service) SearchByDateRange(start, end time.Time) ([]domain.Order, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end before start", domain.ErrInvalidDateRange)
	}
	return s.orders.FindByDateRange(start, end)
}

// History возвращает историю статусов заказа.
func (s *Service) History(orderID int64) ([]domain.StatusChange, error) {
	return s.orders.History(orderID)
}

// Statistics возвращает сводную статистику по заказам.
func (s *Service) Statistics() (domain.OrderStats, error) {
	return s.stats.OrderStatistics()
}
