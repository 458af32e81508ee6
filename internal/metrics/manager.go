package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests      *prometheus.CounterVec
	CounterWeightChanges *prometheus.CounterVec
	CounterWorkoutLogs   prometheus.Counter
	CounterForbidden     prometheus.Counter
	CounterHandlerPanics prometheus.Counter

	// histograms
	HistRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("liftlog", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("liftlog", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterWeightChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "weight_changes",
			Help:      "Exercise weight increments and decrements appended to the ledger",
		}, []string{"direction"}),
		CounterWorkoutLogs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workout_logs",
			Help:      "The total number of completed exercises logged",
		}),
		CounterForbidden: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "forbidden",
			Help:      "Accesses rejected because the resource belongs to another user",
		}),
		CounterHandlerPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handle_request_panic",
			Help:      "The total number of serve request panics",
		}),
		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// ObserveWeightChange is nil-safe so services can run without metrics.
func (m *Manager) ObserveWeightChange(direction string) {
	if m == nil {
		return
	}
	m.CounterWeightChanges.WithLabelValues(direction).Inc()
}

func (m *Manager) ObserveWorkoutLog() {
	if m == nil {
		return
	}
	m.CounterWorkoutLogs.Inc()
}

func (m *Manager) ObserveForbidden() {
	if m == nil {
		return
	}
	m.CounterForbidden.Inc()
}
