package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos"

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type SaleMetrics struct {
	Submissions *prometheus.CounterVec
	Amount      prometheus.Histogram
}

func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sale",
		Name:      "submissions_total",
		Help:      "Total number of sale submissions by outcome.",
	}, []string{"status"})
	amount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sale",
		Name:      "amount",
		Help:      "Total amount of persisted sales.",
		Buckets:   []float64{5, 10, 20, 50, 100, 200, 500},
	})

	reg.MustRegister(submissions, amount)
	return &SaleMetrics{Submissions: submissions, Amount: amount}
}

type ReportMetrics struct {
	Queries *prometheus.CounterVec
}

func NewReportMetrics(reg prometheus.Registerer) *ReportMetrics {
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "report",
		Name:      "queries_total",
		Help:      "Total number of day report queries by source.",
	}, []string{"source"})

	reg.MustRegister(queries)
	return &ReportMetrics{Queries: queries}
}

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
