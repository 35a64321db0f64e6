package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the sounding service.
type Metrics struct {
	ReportsParsed prometheus.Counter
	ParseFailures prometheus.Counter

	// Upstream fetch metrics.
	GSLRequests        *prometheus.CounterVec // labels: model={Op40,Bak40,NAM,GFS,RAOB}, outcome={success,error}
	GSLRequestDuration prometheus.Histogram

	// Cache metrics.
	CacheLookups    *prometheus.CounterVec // labels: tier={lru,dynamo,memory,response,sites}, result={hit,miss}
	SiteCatalogSize prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aloft",
			Name:      "reports_parsed_total",
			Help:      "Total sounding reports decoded from GSD responses.",
		}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aloft",
			Name:      "parse_failures_total",
			Help:      "Total GSD payloads that failed to decode.",
		}),
		GSLRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aloft",
			Name:      "gsl_requests_total",
			Help:      "Upstream sounding requests by model and outcome.",
		}, []string{"model", "outcome"}),
		GSLRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aloft",
			Name:      "gsl_request_duration_seconds",
			Help:      "Upstream sounding request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aloft",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by tier and result.",
		}, []string{"tier", "result"}),
		SiteCatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aloft",
			Name:      "site_catalog_size",
			Help:      "Number of sites held in the in-memory catalog.",
		}),
	}

	prometheus.MustRegister(
		m.ReportsParsed,
		m.ParseFailures,
		m.GSLRequests,
		m.GSLRequestDuration,
		m.CacheLookups,
		m.SiteCatalogSize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsParsed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aloft", Name: "reports_parsed_total"}),
		ParseFailures:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aloft", Name: "parse_failures_total"}),
		GSLRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aloft", Name: "gsl_requests_total"}, []string{"model", "outcome"}),
		GSLRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aloft", Name: "gsl_request_duration_seconds"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aloft", Name: "cache_lookups_total"}, []string{"tier", "result"}),
		SiteCatalogSize:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aloft", Name: "site_catalog_size"}),
	}
}

// The observation helpers below are safe on a nil receiver so the Lambda
// entrypoints can run without a metrics registry.

// ObserveGSLRequest records one upstream request and its duration.
func (m *Metrics) ObserveGSLRequest(model, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.GSLRequests.WithLabelValues(model, outcome).Inc()
	m.GSLRequestDuration.Observe(seconds)
}

// ObserveCacheLookup records one cache lookup result for a tier.
func (m *Metrics) ObserveCacheLookup(tier, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(tier, result).Inc()
}

// AddReportsParsed records successfully decoded reports.
func (m *Metrics) AddReportsParsed(count int) {
	if m == nil {
		return
	}
	m.ReportsParsed.Add(float64(count))
}

// IncParseFailures records one undecodable GSD payload.
func (m *Metrics) IncParseFailures() {
	if m == nil {
		return
	}
	m.ParseFailures.Inc()
}

// SetSiteCatalogSize records the current site catalog size.
func (m *Metrics) SetSiteCatalogSize(count int) {
	if m == nil {
		return
	}
	m.SiteCatalogSize.Set(float64(count))
}
