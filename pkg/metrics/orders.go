package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics tracks checkout outcomes.
type OrderMetrics struct {
	submitted *prometheus.CounterVec
	revenue   prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Orders submitted through checkout, by result.",
	}, []string{"result"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_revenue_vnd_total",
		Help: "Total VND amount of accepted orders.",
	})
	reg.MustRegister(submitted, revenue)
	return &OrderMetrics{
		submitted: submitted,
		revenue:   revenue,
	}
}

// IncSubmitted increments the submitted counter for the given result label.
func (m *OrderMetrics) IncSubmitted(result string) {
	if m == nil || m.submitted == nil {
		return
	}
	m.submitted.WithLabelValues(normalizeLabel(result)).Inc()
}

// AddRevenue adds an accepted order total to the revenue counter.
func (m *OrderMetrics) AddRevenue(amountVND int64) {
	if m == nil || m.revenue == nil {
		return
	}
	if amountVND < 0 {
		return
	}
	m.revenue.Add(float64(amountVND))
}
