package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики доменных операций над заказами и складом.
type OrderMetrics struct {
	// Счётчики операций
	ordersCreated      prometheus.Counter
	orderCreateFailed  prometheus.Counter
	ordersDeleted      prometheus.Counter
	statusTransitions  *prometheus.CounterVec
	historyRecords     prometheus.Counter
	qtyAdjustments     prometheus.Counter

	// Гистограмма времени выполнения операций
	opDuration *prometheus.HistogramVec
}

// NewOrderMetrics создаёт новый экземпляр метрик заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "powerlock_orders_created_total",
			Help: "Total number of orders created",
		}),
		orderCreateFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "powerlock_order_create_failed_total",
			Help: "Total number of rejected order creations",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "powerlock_orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "powerlock_status_transitions_total",
			Help: "Total number of order status transitions by target status",
		}, []string{"status"}),
		historyRecords: registerCounter(registerer, prometheus.CounterOpts{
			Name: "powerlock_status_history_records_total",
			Help: "Total number of status history rows appended",
		}),
		qtyAdjustments: registerCounter(registerer, prometheus.CounterOpts{
			Name: "powerlock_inventory_adjustments_total",
			Help: "Total number of inventory quantity adjustments",
		}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "powerlock_operation_duration_seconds",
			Help:    "Duration of domain operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"op"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
	m.historyRecords.Inc()
}

// RecordOrderCreateFailed увеличивает счётчик отклонённых созданий.
func (m *OrderMetrics) RecordOrderCreateFailed() {
	m.orderCreateFailed.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *OrderMetrics) RecordOrderDeleted() {
	m.ordersDeleted.Inc()
}

// RecordStatusTransition фиксирует переход в новый статус.
func (m *OrderMetrics) RecordStatusTransition(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
	m.historyRecords.Inc()
}

// RecordQtyAdjustment увеличивает счётчик корректировок склада.
func (m *OrderMetrics) RecordQtyAdjustment() {
	m.qtyAdjustments.Inc()
}

// RecordOpDuration записывает время выполнения доменной операции.
func (m *OrderMetrics) RecordOpDuration(op string, duration time.Duration) {
	m.opDuration.WithLabelValues(op).Observe(duration.Seconds())
}
