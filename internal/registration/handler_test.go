package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/semzi/sledge/config"
	"github.com/semzi/sledge/internal/checkout"
	"github.com/semzi/sledge/internal/models"
)

type fakeStore struct {
	created []*models.Registration
}

func (f *fakeStore) Create(_ context.Context, reg *models.Registration) error {
	reg.ID = int64(len(f.created) + 1)
	f.created = append(f.created, reg)
	return nil
}

type fakePayments struct {
	created []*models.Payment
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	p.ID = int64(len(f.created) + 1)
	f.created = append(f.created, p)
	return nil
}

type fakeCheckout struct {
	calls   int
	lastReq checkout.SessionRequest
	session *checkout.Session
	err     error
}

func (f *fakeCheckout) CreateSession(_ context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type fakeCache struct {
	puts map[int64]models.ReceiptSummary
}

func (f *fakeCache) Put(_ context.Context, rid int64, s models.ReceiptSummary) error {
	if f.puts == nil {
		f.puts = map[int64]models.ReceiptSummary{}
	}
	f.puts[rid] = s
	return nil
}

func testProgram() config.ProgramConfig {
	return config.ProgramConfig{
		Cohort:   "2026",
		Fee:      decimal.RequireFromString("30.00"),
		Currency: "USD",
	}
}

func testRedirect() config.CheckoutConfig {
	return config.CheckoutConfig{
		SuccessURL: "http://localhost:5173/payment-success",
		CancelURL:  "http://localhost:5173/register",
	}
}

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/register", h.Register)
	return r
}

func validDraftJSON() map[string]string {
	return map[string]string{
		"full_name":                   "Ada Lovelace",
		"email":                       "ada@example.com",
		"phone":                       "+44 20 7946 0958",
		"country":                     "United Kingdom",
		"linkedin_url":                "https://www.linkedin.com/in/ada",
		"current_status":              "Professional",
		"institution_or_organization": "Analytical Engines Ltd",
		"field_or_role":               "Engineering",
		"highest_education":           "Masters",
		"motivation":                  "Career clarity",
		"confirm_commitment":          "yes",
		"agree_payment":               "yes",
	}
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterDeclinedPaymentAgreementSkipsCheckout(t *testing.T) {
	store := &fakeStore{}
	pay := &fakePayments{}
	co := &fakeCheckout{session: &checkout.Session{ID: "cs_1", URL: "https://pay.example/x"}}
	h := NewHandler(store, pay, co, &fakeCache{}, testProgram(), testRedirect(), nil)

	draft := validDraftJSON()
	draft["agree_payment"] = "no"
	w := postJSON(setupRouter(h), "/api/register", draft)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body struct {
		Missing []string `json:"missing"`
		Invalid []string `json:"invalid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	found := false
	for _, label := range body.Missing {
		if label == "Payment Agreement" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing = %v, want to contain %q", body.Missing, "Payment Agreement")
	}
	if co.calls != 0 {
		t.Errorf("checkout called %d times, want 0", co.calls)
	}
	if len(store.created) != 0 {
		t.Errorf("registration persisted despite invalid draft")
	}
}

func TestRegisterHandsOffToCheckout(t *testing.T) {
	store := &fakeStore{}
	pay := &fakePayments{}
	cache := &fakeCache{}
	co := &fakeCheckout{session: &checkout.Session{ID: "cs_1", URL: "https://pay.example/x"}}
	h := NewHandler(store, pay, co, cache, testProgram(), testRedirect(), nil)

	w := postJSON(setupRouter(h), "/api/register", validDraftJSON())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	if co.calls != 1 {
		t.Fatalf("checkout called %d times, want exactly 1", co.calls)
	}
	if len(store.created) != 1 {
		t.Fatalf("registrations created = %d, want 1", len(store.created))
	}

	var body struct {
		CheckoutURL       string `json:"checkout_url"`
		RegistrationID    int64  `json:"registration_id"`
		CheckoutSessionID string `json:"checkout_session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.CheckoutURL != "https://pay.example/x" || body.RegistrationID != 1 || body.CheckoutSessionID != "cs_1" {
		t.Errorf("body = %+v", body)
	}

	if !strings.Contains(co.lastReq.SuccessURL, "rid=1") ||
		!strings.Contains(co.lastReq.SuccessURL, "session_id="+SessionIDPlaceholder) {
		t.Errorf("success url = %q", co.lastReq.SuccessURL)
	}
	if !co.lastReq.Amount.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("amount = %s", co.lastReq.Amount)
	}

	if len(pay.created) != 1 || pay.created[0].CheckoutSessionID != "cs_1" {
		t.Errorf("payment rows = %+v", pay.created)
	}
	if _, ok := cache.puts[1]; !ok {
		t.Errorf("receipt summary not cached for rid 1")
	}
}

func TestRegisterCheckoutFailureReturnsBadGateway(t *testing.T) {
	store := &fakeStore{}
	co := &fakeCheckout{err: context.DeadlineExceeded}
	h := NewHandler(store, &fakePayments{}, co, &fakeCache{}, testProgram(), testRedirect(), nil)

	w := postJSON(setupRouter(h), "/api/register", validDraftJSON())
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message == "" {
		t.Error("expected a user-facing message")
	}
}
