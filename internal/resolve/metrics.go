package resolve

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the set of Prometheus collectors a Scheduler reports through.
// A caller embedding this scheduler in a larger service registers its own
// *prometheus.Registry; the resolve command (cli/command_resolve.go) passes
// nil and gets a throwaway one, whose values its report does not print.
type Metrics struct {
	ItemsProcessed  *prometheus.CounterVec
	ActiveWorkers   prometheus.Gauge
	ParkEvents      prometheus.Counter
	UnparkEvents    prometheus.Counter
	ErrorsReported  prometheus.Counter
	PanicsRecovered prometheus.Counter
}

// NewMetrics constructs and registers a Metrics set on reg. reg may be nil,
// in which case a private, unregistered registry is used — useful for
// tests and one-off CLI runs that only read final values back.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		ItemsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forgelink",
			Subsystem: "resolve",
			Name:      "items_processed_total",
			Help:      "Work items processed, by kind.",
		}, []string{"kind"}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forgelink",
			Subsystem: "resolve",
			Name:      "active_workers",
			Help:      "Number of groups currently being run by a pool goroutine.",
		}),
		ParkEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forgelink",
			Subsystem: "resolve",
			Name:      "park_events_total",
			Help:      "Times a pool goroutine registered itself idle.",
		}),
		UnparkEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forgelink",
			Subsystem: "resolve",
			Name:      "unpark_events_total",
			Help:      "Times SendWork woke a parked goroutine.",
		}),
		ErrorsReported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forgelink",
			Subsystem: "resolve",
			Name:      "errors_reported_total",
			Help:      "Item errors appended to the shared error sink.",
		}),
		PanicsRecovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forgelink",
			Subsystem: "resolve",
			Name:      "panics_recovered_total",
			Help:      "Panics caught at the pool-goroutine boundary.",
		}),
	}

	reg.MustRegister(m.ItemsProcessed, m.ActiveWorkers, m.ParkEvents, m.UnparkEvents, m.ErrorsReported, m.PanicsRecovered)

	return m
}

func (m *Metrics) itemProcessed(kind Kind) {
	if m == nil {
		return
	}

	m.ItemsProcessed.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) workerStarted() {
	if m == nil {
		return
	}

	m.ActiveWorkers.Inc()
}

func (m *Metrics) workerStopped() {
	if m == nil {
		return
	}

	m.ActiveWorkers.Dec()
}

func (m *Metrics) parked() {
	if m == nil {
		return
	}

	m.ParkEvents.Inc()
}

func (m *Metrics) unparked() {
	if m == nil {
		return
	}

	m.UnparkEvents.Inc()
}

func (m *Metrics) errorReported() {
	if m == nil {
		return
	}

	m.ErrorsReported.Inc()
}

func (m *Metrics) panicRecovered() {
	if m == nil {
		return
	}

	m.PanicsRecovered.Inc()
}
