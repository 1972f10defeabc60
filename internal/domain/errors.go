package domain

import "errors"

var (
	// Ошибка отсутствующего обязательного имени (клиент, болт).
	ErrNameRequired = errors.New("name is required")
	// Ошибка телефона с посторонними символами.
	ErrPhoneNotDigits = errors.New("phone number must contain only digits")
	// Ошибка телефона неверной длины.
	ErrPhoneLength = errors.New("phone number must be exactly 10 digits long")
	// Ошибка типа болта вне закрытого набора.
	ErrInvalidBoltType = errors.New("bolt type must be single or double")
	// Ошибка отрицательного количества на складе при создании/редактировании.
	ErrQtyNegative = errors.New("quantity cannot be negative")

	// Ошибка отсутствующего идентификатора клиента в заказе.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка несоответствия total_items сумме количеств позиций.
	ErrTotalItemsMismatch = errors.New("total_items does not match items sum")
	// Ошибка статуса вне фиксированного словаря.
	ErrInvalidStatus = errors.New("unknown order status")
	// Ошибка сортировки по колонке вне белого списка.
	ErrInvalidOrderColumn = errors.New("unsupported order by column")
	// Ошибка диапазона дат с концом раньше начала.
	ErrInvalidDateRange = errors.New("end date is before start date")

	// ErrCustomerNotFound возвращается, если клиент не найден в репозитории.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrBoltNotFound возвращается, если болт не найден по id или имени.
	ErrBoltNotFound = errors.New("bolt not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")

	// ErrCustomerHasOrders блокирует удаление клиента, на которого есть заказы.
	ErrCustomerHasOrders = errors.New("customer is referenced by existing orders")
	// ErrBoltReferenced блокирует удаление болта, входящего в позиции заказов.
	ErrBoltReferenced = errors.New("bolt is referenced by existing order items")
	// ErrOrderNotDeletable блокирует удаление отгруженных и доставленных заказов.
	ErrOrderNotDeletable = errors.New("shipped and delivered orders cannot be deleted")
)

// IsNotFound проверяет, является ли ошибка отсутствием сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrBoltNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsReferential проверяет, является ли ошибка блокировкой по ссылочной целостности.
func IsReferential(err error) bool {
	return errors.Is(err, ErrCustomerHasOrders) ||
		errors.Is(err, ErrBoltReferenced) ||
		errors.Is(err, ErrOrderNotDeletable)
}
