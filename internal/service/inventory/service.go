package inventory

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/antonkravchenko/powerlock/internal/domain"
	"github.com/antonkravchenko/powerlock/internal/metrics"
)

// Service управляет складскими позициями: CRUD с валидацией и
// корректировка количества со знаком.
type Service struct {
	bolts   domain.BoltRepository
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewService создаёт сервис склада.
func NewService(bolts domain.BoltRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "inventory")
	}
	return &Service{
		bolts:   bolts,
		logger:  logger,
		metrics: metrics.NewOrderMetrics(),
	}
}

// Create валидирует и сохраняет новую позицию.
func (s *Service) Create(bolt domain.Bolt) (int64, error) {
	if err := bolt.Validate(); err != nil {
		return 0, err
	}

	id, err := s.bolts.Create(bolt)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(log.Fields{"bolt_id": id, "name": bolt.Name}).Info("bolt created")
	return id, nil
}

// Update валидирует и применяет изменения позиции.
func (s *Service) Update(bolt domain.Bolt) (bool, error) {
	if err := bolt.Validate(); err != nil {
		return false, err
	}
	return s.bolts.Update(bolt)
}

// Delete удаляет позицию. Болт, входящий в позиции заказов, не удаляется.
func (s *Service) Delete(id int64) (bool, error) {
	return s.bolts.Delete(id)
}

// AdjustQty применяет дельту к количеству на складе одним UPDATE.
// Пол нуля здесь не контролируется: если результату нельзя уходить
// в минус, вызывающая сторона проверяет дельту по текущему остатку.
func (s *Service) AdjustQty(id int64, delta int64) (bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOpDuration("adjust_qty", time.Since(start))
	}()

	changed, err := s.bolts.AdjustQty(id, delta)
	if err != nil {
		return false, err
	}

	if changed {
		s.metrics.RecordQtyAdjustment()
		s.logger.WithFields(log.Fields{"bolt_id": id, "delta": delta}).Info("bolt quantity adjusted")
	}

	return changed, nil
}

// Get возвращает позицию по идентификатору.
func (s *Service) Get(id int64) (domain.Bolt, error) {
	return s.bolts.GetByID(id)
}

// List возвращает позиции с указанной сортировкой.
func (s *Service) List(orderBy string) ([]domain.Bolt, error) {
	return s.bolts.List(orderBy)
}

// Search ищет позиции по подстроке имени.
func (s *Service) Search(name string) ([]domain.Bolt, error) {
	return s.bolts.FindByName(name)
}
