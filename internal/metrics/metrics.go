package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the storefront server.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Checkout metrics
	CheckoutsTotal    *prometheus.CounterVec
	CheckoutItemCount prometheus.Counter

	// Payment metrics
	PaymentsVerifiedTotal *prometheus.CounterVec
	PaymentAmountTotal    prometheus.Counter
	GatewayCallDuration   *prometheus.HistogramVec

	// Order metrics
	OrdersRecordedTotal prometheus.Counter

	// Identity metrics
	RegistrationsTotal *prometheus.CounterVec
	LoginsTotal        *prometheus.CounterVec

	// Chatbot metrics
	ChatbotRequestsTotal *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHitsTotal *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec

	// Mail metrics
	MailSendsTotal *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crb_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crb_http_request_duration_seconds",
				Help:    "HTTP request duration (supports p50, p95, p99 percentiles)",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "path"},
		),

		CheckoutsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crb_checkouts_total",
				Help: "Total number of checkout order creations",
			},
			[]string{"status"},
		),
		CheckoutItemCount: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "crb_checkout_items_total",
				Help: "Total number of line items across all checkouts",
			},
		),

		PaymentsVerifiedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crb_payments_verified_total",
				Help: "Total number of payment signature verifications",
			},
			[]string{"status"},
		),
		PaymentAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "crb_payment_amount_rupees_total",
				Help: "Total verified payment amount in rupees",
			},
		),
		GatewayCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crb_gateway_call_duration_seconds",
				Help:    "Payment gateway API call duration",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation"},
		),

		OrdersRecordedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "crb_orders_recorded_total",
				Help: "Total number of paid orders persisted",
			},
		),

		RegistrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crb_registrations_total",
				Help: "Total number of registration attempts",
			},
			[]string{"status"},
		),
		LoginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crb_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"method", "status"},
		),

		ChatbotRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crb_chatbot_requests_total",
				Help: "Total number of chatbot messages by matched category",
			},
			[]string{"category"},
		),

		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crb_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"limit_type"},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crb_db_query_duration_seconds",
				Help:    "Database query duration (supports p50, p95, p99 percentiles)",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"operation", "backend"},
		),

		MailSendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crb_mail_sends_total",
				Help: "Total number of outbound mail attempts",
			},
			[]string{"kind", "status"},
		),
	}
}

// ObserveHTTPRequest records a completed HTTP request.
// Nil receiver is a no-op so handlers can run without metrics in tests.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveCheckout records a checkout order creation attempt.
func (m *Metrics) ObserveCheckout(status string, itemCount int) {
	if m == nil {
		return
	}
	m.CheckoutsTotal.WithLabelValues(status).Inc()
	m.CheckoutItemCount.Add(float64(itemCount))
}

// ObservePaymentVerification records a signature verification outcome.
// Amount is only counted for verified payments.
func (m *Metrics) ObservePaymentVerification(verified bool, amountRupees int64) {
	if m == nil {
		return
	}
	if verified {
		m.PaymentsVerifiedTotal.WithLabelValues("verified").Inc()
		m.PaymentAmountTotal.Add(float64(amountRupees))
	} else {
		m.PaymentsVerifiedTotal.WithLabelValues("rejected").Inc()
	}
}

// ObserveGatewayCall records a payment gateway API call.
func (m *Metrics) ObserveGatewayCall(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GatewayCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveOrderRecorded increments the persisted paid order counter.
func (m *Metrics) ObserveOrderRecorded() {
	if m == nil {
		return
	}
	m.OrdersRecordedTotal.Inc()
}

// ObserveRegistration records a registration attempt.
func (m *Metrics) ObserveRegistration(status string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(status).Inc()
}

// ObserveLogin records a login attempt by method (otp, password).
func (m *Metrics) ObserveLogin(method, status string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(method, status).Inc()
}

// ObserveChatbotRequest records a chatbot message by matched category.
func (m *Metrics) ObserveChatbotRequest(category string) {
	if m == nil {
		return
	}
	m.ChatbotRequestsTotal.WithLabelValues(category).Inc()
}

// ObserveRateLimit records a rate limit hit.
func (m *Metrics) ObserveRateLimit(limitType string) {
	if m == nil {
		return
	}
	m.RateLimitHitsTotal.WithLabelValues(limitType).Inc()
}

// ObserveDBQuery records a database query.
func (m *Metrics) ObserveDBQuery(operation, backend string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation, backend).Observe(duration.Seconds())
}

// ObserveMailSend records an outbound mail attempt.
func (m *Metrics) ObserveMailSend(kind, status string) {
	if m == nil {
		return
	}
	m.MailSendsTotal.WithLabelValues(kind, status).Inc()
}

// MeasureDBQuery wraps a database call and records its duration.
func (m *Metrics) MeasureDBQuery(operation, backend string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.ObserveDBQuery(operation, backend, time.Since(start))
	return err
}
