package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "svc_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"route", "method", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "svc_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "svc_active_requests",
		Help: "Current in-flight requests",
	})

	CORSRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "svc_cors_rejected_total",
		Help: "Cross-origin requests from origins outside ALLOWED_ORIGINS",
	})

	DependencyUp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "svc_dependency_up",
		Help: "1 if the last readiness probe of the dependency succeeded",
	}, []string{"dependency"})

	BuildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "svc_build_info",
		Help: "Constant 1, labelled with the service name and version",
	}, []string{"service", "version"})
)

func RegisterAll(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, ActiveRequests,
		CORSRejectedTotal, DependencyUp, BuildInfo,
	)
}
