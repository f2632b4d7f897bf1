package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/crbuilding/server/internal/catalog"
	"github.com/crbuilding/server/internal/chatbot"
	"github.com/crbuilding/server/internal/config"
	"github.com/crbuilding/server/internal/identity"
	"github.com/crbuilding/server/internal/orders"
	"github.com/crbuilding/server/internal/pricing"
	"github.com/crbuilding/server/internal/razorpay"
)

const testKeySecret = "test_secret"

// recordingMailer captures outbound codes so tests can complete flows that
// normally run through email.
type recordingMailer struct {
	token    string
	otp      string
	loginOTP string
}

func (m *recordingMailer) SendVerification(_ context.Context, _, _, token, otp string) error {
	m.token = token
	m.otp = otp
	return nil
}

func (m *recordingMailer) SendLoginOTP(_ context.Context, _, otp string) error {
	m.loginOTP = otp
	return nil
}

// stubGateway answers order creation locally and defers signature checks to
// the real HMAC implementation.
type stubGateway struct {
	*razorpay.Client
	failCreate bool
}

func (g stubGateway) CreateOrder(_ context.Context, totalMajor int64) (razorpay.Order, error) {
	if g.failCreate {
		return razorpay.Order{}, fmt.Errorf("gateway down")
	}
	return razorpay.Order{
		ID:          "order_test_1",
		AmountMinor: razorpay.ToMinorUnits(totalMajor),
		Currency:    "INR",
	}, nil
}

type testEnv struct {
	router    chi.Router
	orders    *orders.MemoryRepository
	mailer    *recordingMailer
	analytics *chatbot.MemoryAnalytics
	gateway   stubGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{RoutePrefix: "/api"},
		Razorpay: config.RazorpayConfig{
			KeyID:     "rzp_test_abc",
			KeySecret: testKeySecret,
			Currency:  "INR",
		},
		Identity: config.IdentityConfig{
			RegisterOTPTTL: config.Duration{Duration: 10 * time.Minute},
			LoginOTPTTL:    config.Duration{Duration: 5 * time.Minute},
			VerifyTokenTTL: config.Duration{Duration: 24 * time.Hour},
			BcryptCost:     bcrypt.MinCost,
		},
		Chatbot: config.ChatbotConfig{FallbackPhone: "+91 123 456 7890"},
	}

	catalogRepo := catalog.NewYAMLRepository(map[string]config.CatalogProduct{
		"P1": {ID: "P1", Name: "Premium Cement", Price: 450},
		"P2": {ID: "P2", Name: "Red Bricks", Price: 10},
	})

	ordersRepo := orders.NewMemoryRepository()
	mail := &recordingMailer{}
	analytics := chatbot.NewMemoryAnalytics()
	gateway := stubGateway{Client: razorpay.NewClient(cfg.Razorpay, nil, nil)}

	router := chi.NewRouter()
	ConfigureRouter(router, cfg, Deps{
		Catalog:   catalogRepo,
		Pricing:   pricing.NewEngine(catalogRepo),
		Gateway:   gateway,
		Orders:    ordersRepo,
		Identity:  identity.NewService(identity.NewMemoryRepository(), mail, cfg.Identity),
		Responder: chatbot.NewResponder(),
		Analytics: analytics,
		Logger:    zerolog.Nop(),
	})

	return &testEnv{
		router:    router,
		orders:    ordersRepo,
		mailer:    mail,
		analytics: analytics,
		gateway:   gateway,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type errEnvelope struct {
	Error struct {
		Code      string                 `json:"code"`
		Message   string                 `json:"message"`
		Retryable bool                   `json:"retryable"`
		Details   map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) errEnvelope {
	t.Helper()
	var env errEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("Cache-Control = %q", cc)
	}

	var products []map[string]interface{}
	decodeBody(t, rec, &products)
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/create-order", map[string]interface{}{
		"items":  []interface{}{},
		"userId": "u1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env2 := decodeErr(t, rec)
	if env2.Error.Code != "empty_cart" {
		t.Errorf("code = %q, want empty_cart", env2.Error.Code)
	}
	if env2.Error.Message != "Cart empty" {
		t.Errorf("message = %q", env2.Error.Message)
	}
}

func TestCreateOrderRequiresUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/create-order", map[string]interface{}{
		"items": []map[string]interface{}{{"productId": "P1", "quantity": 1}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	got := decodeErr(t, rec)
	if got.Error.Message != "User not authenticated" {
		t.Errorf("message = %q", got.Error.Message)
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/create-order", map[string]interface{}{
		"items":  []map[string]interface{}{{"productId": "NOPE", "quantity": 1}},
		"userId": "u1",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	got := decodeErr(t, rec)
	if got.Error.Code != "product_not_found" {
		t.Errorf("code = %q", got.Error.Code)
	}
	if got.Error.Details["productId"] != "NOPE" {
		t.Errorf("details = %v", got.Error.Details)
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/create-order", map[string]interface{}{
		"items":  []map[string]interface{}{{"productId": "P1", "quantity": 2}},
		"userId": "u1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Products []struct {
			ProductID string `json:"productId"`
			Price     int64  `json:"price"`
			Quantity  int    `json:"quantity"`
		} `json:"products"`
		UserID string `json:"userId"`
		KeyID  string `json:"keyId"`
	}
	decodeBody(t, rec, &resp)

	if resp.ID != "order_test_1" {
		t.Errorf("id = %q", resp.ID)
	}
	// 2 x 450 rupees, reported in paise
	if resp.Amount != 90000 {
		t.Errorf("amount = %d, want 90000", resp.Amount)
	}
	if resp.Currency != "INR" {
		t.Errorf("currency = %q", resp.Currency)
	}
	if len(resp.Products) != 1 || resp.Products[0].Price != 450 || resp.Products[0].Quantity != 2 {
		t.Errorf("products = %+v", resp.Products)
	}
	if resp.UserID != "u1" {
		t.Errorf("userId = %q", resp.UserID)
	}
	if resp.KeyID != "rzp_test_abc" {
		t.Errorf("keyId = %q", resp.KeyID)
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	env := newTestEnv(t)

	cfg := &config.Config{
		Server:   config.ServerConfig{RoutePrefix: "/api"},
		Razorpay: config.RazorpayConfig{KeyID: "k", KeySecret: testKeySecret, Currency: "INR"},
		Identity: config.IdentityConfig{BcryptCost: bcrypt.MinCost},
	}
	catalogRepo := catalog.NewYAMLRepository(map[string]config.CatalogProduct{
		"P1": {ID: "P1", Name: "Premium Cement", Price: 450},
	})
	router := chi.NewRouter()
	ConfigureRouter(router, cfg, Deps{
		Catalog: catalogRepo,
		Pricing: pricing.NewEngine(catalogRepo),
		Gateway: stubGateway{Client: razorpay.NewClient(cfg.Razorpay, nil, nil), failCreate: true},
		Orders:  orders.NewMemoryRepository(),
		Logger:  zerolog.Nop(),
	})
	env.router = router

	rec := env.do(t, http.MethodPost, "/api/create-order", map[string]interface{}{
		"items":  []map[string]interface{}{{"productId": "P1", "quantity": 1}},
		"userId": "u1",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	got := decodeErr(t, rec)
	if got.Error.Code != "gateway_error" {
		t.Errorf("code = %q", got.Error.Code)
	}
	if !got.Error.Retryable {
		t.Error("gateway errors should be retryable")
	}
}

func TestVerifyPaymentRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	sig := razorpay.SignPayload("order_test_1", "pay_777", testKeySecret)
	rec := env.do(t, http.MethodPost, "/api/verify-payment", map[string]interface{}{
		"razorpay_order_id":   "order_test_1",
		"razorpay_payment_id": "pay_777",
		"razorpay_signature":  sig,
		"userId":              "u1",
		"items": []map[string]interface{}{
			{"productId": "P1", "name": "Premium Cement", "price": 450, "quantity": 2},
		},
		"amount": 90000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.Message != "Payment verified and order saved" {
		t.Errorf("response = %+v", resp)
	}

	stored, err := env.orders.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("got %d stored orders, want 1", len(stored))
	}
	order := stored[0]
	// Stored in rupees, received in paise
	if order.Amount != 900 {
		t.Errorf("amount = %d, want 900", order.Amount)
	}
	if order.Status != orders.StatusPaid {
		t.Errorf("status = %q", order.Status)
	}
	if order.PaymentID != "pay_777" || order.GatewayOrderID != "order_test_1" {
		t.Errorf("gateway refs = %q / %q", order.PaymentID, order.GatewayOrderID)
	}
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/verify-payment", map[string]interface{}{
		"razorpay_order_id":   "order_test_1",
		"razorpay_payment_id": "pay_777",
		"razorpay_signature":  "deadbeef",
		"userId":              "u1",
		"amount":              90000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	got := decodeErr(t, rec)
	if got.Error.Code != "signature_mismatch" {
		t.Errorf("code = %q", got.Error.Code)
	}
	if got.Error.Message != "Invalid signature" {
		t.Errorf("message = %q", got.Error.Message)
	}

	stored, err := env.orders.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("rejected payment must not be persisted, found %d orders", len(stored))
	}
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/verify-payment", map[string]interface{}{
		"razorpay_order_id": "order_test_1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeErr(t, rec); got.Error.Code != "missing_field" {
		t.Errorf("code = %q", got.Error.Code)
	}
}

func TestListOrdersOptionalFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i, userID := range []string{"u1", "u2"} {
		order := orders.PaidOrder{
			ID:        fmt.Sprintf("o%d", i+1),
			UserID:    userID,
			Amount:    450,
			Currency:  "INR",
			PaymentID: fmt.Sprintf("pay_%d", i+1),
			Status:    orders.StatusPaid,
			CreatedAt: time.Now(),
		}
		if err := env.orders.Record(ctx, order); err != nil {
			t.Fatalf("record order: %v", err)
		}
	}

	// No userId returns every order
	rec := env.do(t, http.MethodGet, "/api/orders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var all []orders.PaidOrder
	decodeBody(t, rec, &all)
	if len(all) != 2 {
		t.Fatalf("unfiltered list returned %d orders, want 2", len(all))
	}

	// With userId only that user's orders come back
	rec = env.do(t, http.MethodGet, "/api/orders?userId=u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var filtered []orders.PaidOrder
	decodeBody(t, rec, &filtered)
	if len(filtered) != 1 || filtered[0].UserID != "u1" {
		t.Fatalf("filtered list = %+v", filtered)
	}
}

func TestListOrdersEmptyArray(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/orders?userId=nobody", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/register", map[string]interface{}{
		"name":     "Asha",
		"email":    "Asha@Example.com",
		"password": "hunter22",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if env.mailer.otp == "" {
		t.Fatal("no OTP was mailed")
	}

	// Unverified account blocks password login with a dedicated status
	rec = env.do(t, http.MethodPost, "/api/login-password", map[string]interface{}{
		"email":    "asha@example.com",
		"password": "hunter22",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unverified login status = %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/verify-register-otp", map[string]interface{}{
		"email": "asha@example.com",
		"otp":   env.mailer.otp,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-register-otp status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var msg struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &msg)
	if msg.Message != "Email verified successfully! You can now log in." {
		t.Errorf("message = %q", msg.Message)
	}

	rec = env.do(t, http.MethodPost, "/api/login-password", map[string]interface{}{
		"email":    "asha@example.com",
		"password": "hunter22",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var login struct {
		Success bool `json:"success"`
		User    struct {
			Email    string `json:"email"`
			Verified bool   `json:"verified"`
		} `json:"user"`
	}
	decodeBody(t, rec, &login)
	if !login.Success || login.User.Email != "asha@example.com" || !login.User.Verified {
		t.Errorf("login response = %+v", login)
	}
}

func TestRegisterDuplicateVerified(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]interface{}{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "hunter22",
	}
	if rec := env.do(t, http.MethodPost, "/api/register", body); rec.Code != http.StatusOK {
		t.Fatalf("register status = %d", rec.Code)
	}
	env.do(t, http.MethodPost, "/api/verify-register-otp", map[string]interface{}{
		"email": "asha@example.com",
		"otp":   env.mailer.otp,
	})

	rec := env.do(t, http.MethodPost, "/api/register", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d, want 400", rec.Code)
	}
	if got := decodeErr(t, rec); got.Error.Code != "user_exists" {
		t.Errorf("code = %q", got.Error.Code)
	}
}

func TestVerifyEmailRedirects(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/register", map[string]interface{}{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "hunter22",
	})
	if env.mailer.token == "" {
		t.Fatal("no verification token was mailed")
	}

	rec := env.do(t, http.MethodGet,
		"/api/verify-email?token="+env.mailer.token+"&email=asha@example.com", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login.html" {
		t.Errorf("Location = %q", loc)
	}

	// Tokens are single use
	rec = env.do(t, http.MethodGet,
		"/api/verify-email?token="+env.mailer.token+"&email=asha@example.com", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("replay status = %d, want 400", rec.Code)
	}
}

func TestLoginOTPFlow(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/register", map[string]interface{}{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "hunter22",
	})
	env.do(t, http.MethodPost, "/api/verify-register-otp", map[string]interface{}{
		"email": "asha@example.com",
		"otp":   env.mailer.otp,
	})

	rec := env.do(t, http.MethodPost, "/api/login", map[string]interface{}{
		"email": "asha@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if env.mailer.loginOTP == "" {
		t.Fatal("no login OTP was mailed")
	}

	rec = env.do(t, http.MethodPost, "/api/verify-otp", map[string]interface{}{
		"email": "asha@example.com",
		"otp":   env.mailer.loginOTP,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-otp status = %d (body %s)", rec.Code, rec.Body.String())
	}

	// A consumed code cannot be replayed
	rec = env.do(t, http.MethodPost, "/api/verify-otp", map[string]interface{}{
		"email": "asha@example.com",
		"otp":   env.mailer.loginOTP,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("replay status = %d, want 400", rec.Code)
	}
	if got := decodeErr(t, rec); got.Error.Code != "invalid_or_expired_code" {
		t.Errorf("code = %q", got.Error.Code)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", map[string]interface{}{
		"email": "ghost@example.com",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeErr(t, rec); got.Error.Code != "user_not_found" {
		t.Errorf("code = %q", got.Error.Code)
	}
}

func TestVerifyRegisterOTPWrongCode(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/register", map[string]interface{}{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "hunter22",
	})

	rec := env.do(t, http.MethodPost, "/api/verify-register-otp", map[string]interface{}{
		"email": "asha@example.com",
		"otp":   "000000",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeErr(t, rec); got.Error.Code != "invalid_otp" {
		t.Errorf("code = %q", got.Error.Code)
	}
}

func TestChatbotMessage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/chatbot", map[string]interface{}{
		"message":   "what is the price of cement",
		"userId":    "u1",
		"sessionId": "s1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var reply struct {
		Response    string   `json:"response"`
		Category    string   `json:"category"`
		Suggestions []string `json:"suggestions"`
		Timestamp   string   `json:"timestamp"`
	}
	decodeBody(t, rec, &reply)
	if reply.Category != "pricing" {
		t.Errorf("category = %q, want pricing", reply.Category)
	}
	if reply.Timestamp == "" {
		t.Error("timestamp is empty")
	}

	if got := env.analytics.Count("pricing"); got != 1 {
		t.Errorf("analytics count = %d, want 1", got)
	}
	if len(env.analytics.Conversations) != 1 {
		t.Fatalf("got %d logged conversations, want 1", len(env.analytics.Conversations))
	}
	if conv := env.analytics.Conversations[0]; conv.UserID != "u1" || conv.SessionID != "s1" {
		t.Errorf("conversation = %+v", conv)
	}
}

func TestChatbotRequiresMessage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/chatbot", map[string]interface{}{
		"userId": "u1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	decodeBody(t, rec, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Uptime == "" {
		t.Error("uptime is empty")
	}
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
