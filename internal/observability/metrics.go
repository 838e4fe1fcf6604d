package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors of the service.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	otpEvents      *prometheus.CounterVec
	loginAttempts  *prometheus.CounterVec
	alertsEmitted  *prometheus.CounterVec
	unreadAlerts   prometheus.Gauge
	registrations  *prometheus.CounterVec
	scanDuration   prometheus.Histogram
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decor_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "decor_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decor_http_errors_total",
			Help: "Errors rendered by the error middleware, by code.",
		}, []string{"path", "method", "code"}),
		otpEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decor_otp_events_total",
			Help: "OTP sends and verification outcomes.",
		}, []string{"outcome"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decor_login_attempts_total",
			Help: "Login attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		alertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decor_alerts_emitted_total",
			Help: "Alerts created, by type.",
		}, []string{"type"}),
		unreadAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "decor_alerts_unread",
			Help: "Unread alerts in the notification center.",
		}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decor_registrations_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "decor_scan_duration_seconds",
			Help:    "Duration of enquiry dedup scans.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.requests, m.requestLatency, m.errors, m.otpEvents, m.loginAttempts,
		m.alertsEmitted, m.unreadAlerts, m.registrations, m.scanDuration,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordOTP counts an OTP send or verify outcome.
func (m *Metrics) RecordOTP(outcome string) {
	if m == nil {
		return
	}
	m.otpEvents.WithLabelValues(outcome).Inc()
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(method, outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(method, outcome).Inc()
}

// RecordRegistration counts a registration attempt.
func (m *Metrics) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

// RecordAlert counts an emitted alert.
func (m *Metrics) RecordAlert(alertType string) {
	if m == nil {
		return
	}
	m.alertsEmitted.WithLabelValues(alertType).Inc()
}

// SetUnread publishes the unread badge count.
func (m *Metrics) SetUnread(count int) {
	if m == nil {
		return
	}
	m.unreadAlerts.Set(float64(count))
}

// ObserveScan records how long a dedup scan took.
func (m *Metrics) ObserveScan(duration time.Duration) {
	if m == nil {
		return
	}
	m.scanDuration.Observe(duration.Seconds())
}
