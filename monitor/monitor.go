// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	PlayersOnline prometheus.Gauge
	LiveRooms     prometheus.Gauge
	EventsTotal   prometheus.Counter
	EventLatency  prometheus.Histogram
	CompletedRuns prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		PlayersOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_online",
			Help:      "Number of connected players",
		}),
		LiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_rooms",
			Help:      "Number of rooms in the registry",
		}),
		EventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Total number of client events received",
		}),
		EventLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_latency_seconds",
			Help:      "Event handling latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		CompletedRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completed_runs_total",
			Help:      "Total number of rooms that finished the game",
		}),
	}

	prometheus.MustRegister(
		m.PlayersOnline,
		m.LiveRooms,
		m.EventsTotal,
		m.EventLatency,
		m.CompletedRuns,
	)

	return m
}

type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))
	mux.Handle("/debug/vars", expvar.Handler())

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) IncPlayersOnline() {
	m.metrics.PlayersOnline.Inc()
}

func (m *Monitor) DecPlayersOnline() {
	m.metrics.PlayersOnline.Dec()
}

func (m *Monitor) SetLiveRooms(count int) {
	m.metrics.LiveRooms.Set(float64(count))
}

func (m *Monitor) IncEvents() {
	m.metrics.EventsTotal.Inc()
}

func (m *Monitor) ObserveEventLatency(duration time.Duration) {
	m.metrics.EventLatency.Observe(duration.Seconds())
}

func (m *Monitor) IncCompletedRuns() {
	m.metrics.CompletedRuns.Inc()
}
