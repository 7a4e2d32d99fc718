package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	feedback        *prometheus.CounterVec
	suggestLatency  prometheus.Histogram
	suggestionsSent prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "habits",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		feedback: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "habits",
			Name:      "feedback_total",
			Help:      "Recorded feedback events by rating.",
		}, []string{"rating"}),
		suggestLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "habits",
			Name:      "suggest_duration_seconds",
			Help:      "Time spent ranking suggestions.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		suggestionsSent: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "habits",
			Name:      "suggestions_returned",
			Help:      "Number of suggestions returned per request.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
	}
}
