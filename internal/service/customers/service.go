package customers

import (
	log "github.com/sirupsen/logrus"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

// Service управляет клиентами: CRUD с нормализацией телефона.
type Service struct {
	customers domain.CustomerRepository
	logger    *log.Entry
}

// NewService создаёт сервис клиентов.
func NewService(customers domain.CustomerRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "customers")
	}
	return &Service{customers: customers, logger: logger}
}

// Create валидирует клиента и сохраняет его.
func (s *Service) Create(customer domain.Customer) (int64, error) {
	if err := customer.Validate(); err != nil {
		return 0, err
	}

	id, err := s.customers.Create(customer)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(log.Fields{"customer_id": id, "name": customer.Name}).Info("customer created")
	return id, nil
}

// Update валидирует и применяет изменения клиента.
func (s *Service) Update(customer domain.Customer) (bool, error) {
	if err := customer.Validate(); err != nil {
		return false, err
	}
	return s.customers.Update(customer)
}

// Delete удаляет клиента. Клиент, на которого есть заказы, не удаляется.
func (s *Service) Delete(id int64) (bool, error) {
	return s.customers.Delete(id)
}

// Get возвращает клиента по идентификатору.
func (s *Service) Get(id int64) (domain.Customer, error) {
	return s.customers.GetByID(id)
}

// List возвращает клиентов с указанной сортировкой.
func (s *Service) List(orderBy string) ([]domain.Customer, error) {
	return s.customers.List(orderBy)
}

// Search ищет клиентов по подстроке имени.
func (s *Service) Search(name string) ([]domain.Customer, error) {
	return s.customers.FindByName(name)
}
