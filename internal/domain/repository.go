package domain

import "time"

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// GetByID возвращает клиента или ErrCustomerNotFound, если его нет.
	GetByID(id int64) (Customer, error)
	// List возвращает всех клиентов, отсортированных по колонке из белого списка.
	List(orderBy string) ([]Customer, error)
	// Create сохраняет нового клиента и возвращает его id.
	Create(customer Customer) (int64, error)
	// Update применяет изменения; false — если запись не найдена.
	Update(customer Customer) (bool, error)
	// Delete удаляет клиента. Возвращает ErrCustomerHasOrders,
	// если на клиента ссылается хотя бы один заказ.
	Delete(id int64) (bool, error)
	// FindByName ищет по подстроке имени без учёта регистра.
	FindByName(name string) ([]Customer, error)
}

// BoltRepository описывает требования к хранилищу складских позиций.
type BoltRepository interface {
	GetByID(id int64) (Bolt, error)
	List(orderBy string) ([]Bolt, error)
	Create(bolt Bolt) (int64, error)
	Update(bolt Bolt) (bool, error)
	// Delete возвращает ErrBoltReferenced, если болт входит в позиции заказов.
	Delete(id int64) (bool, error)
	FindByName(name string) ([]Bolt, error)
	// GetByExactName ищет точное совпадение имени без учёта регистра.
	GetByExactName(name string) (Bolt, error)
	// AdjustQty применяет дельту к количеству одним UPDATE и обновляет
	// отметку времени. Пол нуля здесь не контролируется.
	AdjustQty(id int64, delta int64) (bool, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// GetByID возвращает заказ вместе с позициями и историей статусов.
	GetByID(id int64) (Order, error)
	// List возвращает заказы без позиций, с именем клиента.
	List(orderBy string) ([]Order, error)
	// Create записывает заказ, его позиции и первую запись истории
	// одной транзакцией. Возвращает id заказа.
	Create(order Order, items []OrderItem) (int64, error)
	// UpdateStatus меняет статус и добавляет запись истории одной
	// транзакцией. Совпадающий статус — no-op, возвращается false.
	UpdateStatus(id int64, status OrderStatus, changedBy string) (bool, error)
	// UpdateNotes обновляет примечания и отметку времени.
	UpdateNotes(id int64, notes string) (bool, error)
	// UpdateCustomer переносит заказ на другого клиента.
	UpdateCustomer(id int64, customerID int64) (bool, error)
	// Delete удаляет заказ вместе с позициями и историей. Проверка
	// статуса и удаление выполняются в одной транзакции; для
	// отгруженных и доставленных заказов возвращается ErrOrderNotDeletable.
	Delete(id int64) (bool, error)
	// FindByCustomer возвращает заказы клиента.
	FindByCustomer(customerID int64) ([]Order, error)
	// FindByCustomerName ищет заказы по подстроке имени клиента.
	FindByCustomerName(name string) ([]Order, error)
	// FindByStatus возвращает заказы в указанном статусе.
	FindByStatus(status OrderStatus) ([]Order, error)
	// FindByBoltName ищет заказы, содержащие болт с похожим именем.
	FindByBoltName(name string) ([]Order, error)
	// FindRecent возвращает не более limit последних заказов по дате.
	// Неположительный limit заменяется значением по умолчанию.
	FindRecent(limit int) ([]Order, error)
	// FindByDateRange возвращает заказы с датой в границах [start, end],
	// включительно, от новых к старым.
	FindByDateRange(start, end time.Time) ([]Order, error)
	// History возвращает записи истории статусов заказа по времени.
	History(orderID int64) ([]StatusChange, error)
}

// StatsRepository отдаёт сводную статистику по заказам.
type StatsRepository interface {
	OrderStatistics() (OrderStats, error)
}
