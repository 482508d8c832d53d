// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(HTTPTotalRequests)
	prometheus.MustRegister(HTTPInflightRequests)
	prometheus.MustRegister(HTTPResponseDuration)
	prometheus.MustRegister(HTTPResponseSize)
	prometheus.MustRegister(Registrations)
	prometheus.MustRegister(Logins)
	prometheus.MustRegister(PropertiesImported)
}

const (
	namespace = "estateportal"

	LabelPath   = "path"
	LabelCode   = "code"
	LabelMethod = "method"
	LabelResult = "result"
	LabelKind   = "kind"
)

var (
	histogramBuckets = []float64{.005, .01, .05, .1, .25, .5, 1, 5}
	sizeBuckets      = prometheus.ExponentialBuckets(1000, 10, 4)

	// HTTPTotalRequests counts requests by route pattern, method and status.
	HTTPTotalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of total requests.",
		},
		[]string{LabelPath, LabelMethod, LabelCode})

	HTTPInflightRequests = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_inflight",
		Help:      "Number of inflight requests.",
	}, []string{LabelPath, LabelMethod})

	HTTPResponseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_response_time_seconds",
		Help:      "Duration of HTTP response.",
		Buckets:   histogramBuckets,
	}, []string{LabelPath, LabelMethod})

	HTTPResponseSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_response_size_bytes",
		Help:      "Size of HTTP response.",
		Buckets:   sizeBuckets,
	}, []string{LabelPath, LabelMethod})

	Registrations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Number of accounts registered.",
	})

	// Logins counts login attempts by kind (user, admin) and result
	// (success, failure).
	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Number of login attempts.",
	}, []string{LabelKind, LabelResult})

	PropertiesImported = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "properties_imported_total",
		Help:      "Number of listings created by spreadsheet import.",
	})
)

// LoginResult maps an authentication error to the result label.
func LoginResult(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
