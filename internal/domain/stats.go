package domain

// BoltOrderCount — болт и суммарное заказанное количество.
type BoltOrderCount struct {
	Name string
	Qty  int64
}

// CustomerOrderCount — клиент и число его заказов.
type CustomerOrderCount struct {
	Name   string
	Orders int64
}

// OrderStats агрегирует сводную статистику по заказам.
// Каждое поле считается независимым запросом: согласованность между
// полями при параллельной записи не гарантируется.
type OrderStats struct {
	TotalOrders int64
	ByStatus    map[OrderStatus]int64
	// RecentOrders — заказы за последние 30 дней.
	RecentOrders      int64
	TotalItemsOrdered int64
	AvgItemsPerOrder  float64
	// TopBolts — до пяти самых заказываемых болтов.
	TopBolts []BoltOrderCount
	// TopCustomers — до пяти клиентов с наибольшим числом заказов.
	TopCustomers []CustomerOrderCount
}
