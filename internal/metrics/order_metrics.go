package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики операций над заказами.
type OrderMetrics struct {
	// Счётчики операций
	ordersFetched       prometheus.Counter
	ordersCreated       prometheus.Counter
	transitionsApplied  *prometheus.CounterVec
	transitionsRejected prometheus.Counter
	partialDeliveries   prometheus.Counter
	dashboardComputed   prometheus.Counter

	// Гистограмма времени обращений к бэкенду
	gatewayDuration *prometheus.HistogramVec

	// Gauge размера текущего снимка заказов
	sessionOrders prometheus.Gauge
}

// NewOrderMetrics создаёт и регистрирует метрики в default registerer.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersFetched: registerCounter(registerer, prometheus.CounterOpts{
			Name: "vendorhub_orders_fetched_total",
			Help: "Total number of orders fetched from the backend",
		}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "vendorhub_orders_created_total",
			Help: "Total number of orders created",
		}),
		transitionsApplied: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "vendorhub_status_transitions_total",
			Help: "Total number of order status transitions applied",
		}, []string{"status"}),
		transitionsRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "vendorhub_status_transitions_rejected_total",
			Help: "Total number of order status transitions rejected before any backend call",
		}),
		partialDeliveries: registerCounter(registerer, prometheus.CounterOpts{
			Name: "vendorhub_partial_deliveries_total",
			Help: "Total number of vendor partial delivery marks applied",
		}),
		dashboardComputed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "vendorhub_dashboard_computed_total",
			Help: "Total number of vendor dashboard aggregate computations",
		}),
		gatewayDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "vendorhub_gateway_request_duration_seconds",
			Help:    "Duration of backend gateway calls in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		sessionOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "vendorhub_session_orders",
			Help: "Number of orders in the most recent session snapshot",
		}),
	}
}

// RecordFetch фиксирует объём полученной выборки заказов.
func (m *OrderMetrics) RecordFetch(count int) {
	if m == nil {
		return
	}
	m.ordersFetched.Add(float64(count))
	m.sessionOrders.Set(float64(count))
}

// RecordOrderCreated фиксирует создание заказа.
func (m *OrderMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordTransition фиксирует применённый перевод статуса.
func (m *OrderMetrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.transitionsApplied.WithLabelValues(status).Inc()
}

// RecordTransitionRejected фиксирует отклонённый прекондициями перевод.
func (m *OrderMetrics) RecordTransitionRejected() {
	if m == nil {
		return
	}
	m.transitionsRejected.Inc()
}

// RecordPartialDelivery фиксирует отметку частичной доставки.
func (m *OrderMetrics) RecordPartialDelivery() {
	if m == nil {
		return
	}
	m.partialDeliveries.Inc()
}

// RecordDashboard фиксирует пересчёт агрегатов дашборда.
func (m *OrderMetrics) RecordDashboard() {
	if m == nil {
		return
	}
	m.dashboardComputed.Inc()
}

// ObserveGateway фиксирует длительность обращения к бэкенду.
func (m *OrderMetrics) ObserveGateway(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.gatewayDuration.WithLabelValues(operation).Observe(duration.Seconds())
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

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
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
