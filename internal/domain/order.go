package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и ожидает подтверждения.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusApproved — заказ подтверждён менеджером.
	OrderStatusApproved OrderStatus = "approved"
	// OrderStatusProcessing — заказ в работе.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped — заказ отгружен клиенту.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен и закрыт.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён до отгрузки.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses перечисляет допустимые статусы в порядке отображения.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusApproved,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid проверяет, что статус входит в фиксированный словарь.
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Deletable сообщает, можно ли удалить заказ в данном статусе.
// Отгруженные и доставленные заказы не удаляются.
func (s OrderStatus) Deletable() bool {
	return s != OrderStatusShipped && s != OrderStatusDelivered
}

// OrderItem представляет одну позицию заказа: болт и количество.
type OrderItem struct {
	ID      int64
	OrderID int64
	BoltID  int64
	// BoltName денормализован для отображения и отчётов.
	BoltName  string
	Qty       int64
	CreatedAt time.Time
}

// Order агрегирует заказ клиента, его позиции и историю статусов.
// Позиции неизменяемы после создания; история статусов append-only.
type Order struct {
	ID         int64
	CustomerID int64
	// CustomerName денормализован для списков и поиска.
	CustomerName string
	OrderDate    time.Time
	Status       OrderStatus
	Notes        string
	// TotalItems — сумма количеств позиций, зафиксированная при создании.
	TotalItems  int64
	LastUpdated time.Time
	Items       []OrderItem
	History     []StatusChange
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == 0 {
		errs = append(errs, ErrCustomerRequired)
	}
	if !o.Status.IsValid() {
		errs = append(errs, ErrInvalidStatus)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	var total int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		total += item.Qty
	}
	if total != o.TotalItems {
		errs = append(errs, ErrTotalItemsMismatch)
	}

	return errs
}
