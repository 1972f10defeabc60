package domain

import "time"

// StatusChange описывает одну запись в истории статусов заказа.
// История append-only: записи никогда не изменяются и не удаляются,
// кроме каскадного удаления вместе с заказом.
type StatusChange struct {
	ID      int64
	OrderID int64
	// OldStatus пуст для записи, созданной вместе с заказом.
	OldStatus OrderStatus
	NewStatus OrderStatus
	ChangedAt time.Time
	ChangedBy string
}

// SystemActor используется как автор изменения, когда явный не указан.
const SystemActor = "system"
