package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	// None of these should panic
	m.ObserveHTTPRequest("GET", "/api/products", "200", time.Millisecond)
	m.ObserveCheckout("success", 3)
	m.ObservePaymentVerification(true, 900)
	m.ObserveOrderRecorded()
	m.ObserveChatbotRequest("pricing")
	m.ObserveRateLimit("global")
	m.ObserveMailSend("verification", "success")

	if err := m.MeasureDBQuery("list_products", "mongodb", func() error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPaymentVerificationCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ObservePaymentVerification(true, 900)
	m.ObservePaymentVerification(true, 450)
	m.ObservePaymentVerification(false, 900)

	verified := testutil.ToFloat64(m.PaymentsVerifiedTotal.WithLabelValues("verified"))
	if verified != 2 {
		t.Errorf("expected 2 verified payments, got %v", verified)
	}
	rejected := testutil.ToFloat64(m.PaymentsVerifiedTotal.WithLabelValues("rejected"))
	if rejected != 1 {
		t.Errorf("expected 1 rejected payment, got %v", rejected)
	}
	amount := testutil.ToFloat64(m.PaymentAmountTotal)
	if amount != 1350 {
		t.Errorf("rejected payments must not count toward amount, got %v", amount)
	}
}

func TestChatbotCategoryCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ObserveChatbotRequest("pricing")
	m.ObserveChatbotRequest("pricing")
	m.ObserveChatbotRequest("greeting")

	if got := testutil.ToFloat64(m.ChatbotRequestsTotal.WithLabelValues("pricing")); got != 2 {
		t.Errorf("expected 2 pricing requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.ChatbotRequestsTotal.WithLabelValues("greeting")); got != 1 {
		t.Errorf("expected 1 greeting request, got %v", got)
	}
}
