package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry      *prometheus.Registry
	Polls         prometheus.Counter
	PollErrors    *prometheus.CounterVec
	Published     prometheus.Counter
	PublishErrors prometheus.Counter
	ActiveTrains  prometheus.Gauge
	PollDuration  prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poller_polls_total",
			Help: "Total number of poll cycles attempted",
		}),
		PollErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poller_poll_errors_total",
			Help: "Poll cycles that failed, by error kind",
		}, []string{"kind"}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poller_updates_published_total",
			Help: "Train updates published to the queue",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poller_publish_errors_total",
			Help: "Train updates that failed to publish",
		}),
		ActiveTrains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poller_active_trains",
			Help: "Trains seen in the most recent successful poll",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "poller_poll_duration_seconds",
			Help:    "Wall time of each poll cycle",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.Polls, m.PollErrors, m.Published, m.PublishErrors, m.ActiveTrains, m.PollDuration)

	return m
}

func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
