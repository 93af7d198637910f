package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for the order lifecycle
var (
	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderhub_order_transitions_total",
			Help: "Total number of order status transitions",
		},
		[]string{"from", "to"},
	)

	CourierAssignmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderhub_courier_assignments_total",
			Help: "Total number of courier assignment runs by outcome",
		},
		[]string{"outcome"},
	)

	CourierAssignmentAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orderhub_courier_assignment_attempts",
			Help:    "Candidates tried per courier assignment",
			Buckets: []float64{1, 2, 3, 5},
		},
	)

	AuthenticationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderhub_authentications_total",
			Help: "Total number of authentication attempts by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orderhub_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Register registers all Prometheus metrics
func Register(reg prometheus.Registerer) {
	reg.MustRegister(OrderTransitionsTotal)
	reg.MustRegister(CourierAssignmentsTotal)
	reg.MustRegister(CourierAssignmentAttempts)
	reg.MustRegister(AuthenticationsTotal)
	reg.MustRegister(HTTPRequestsTotal)
	reg.MustRegister(HTTPRequestDuration)
}

// Recorder implements ports.Metrics on top of the package collectors.
type Recorder struct{}

func (Recorder) OrderTransitioned(from, to string) {
	OrderTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (Recorder) AssignmentFinished(outcome string, attempts int) {
	CourierAssignmentsTotal.WithLabelValues(outcome).Inc()
	CourierAssignmentAttempts.Observe(float64(attempts))
}

func (Recorder) AuthenticationFinished(outcome string) {
	AuthenticationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}
