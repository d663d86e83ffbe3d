package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreateSession(t *testing.T) {
	var gotAuth string
	var gotReq SessionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Session{ID: "cs_123", URL: "https://pay.example/abc", Status: "open", PaymentStatus: "unpaid"})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test")
	sess, err := c.CreateSession(context.Background(), SessionRequest{
		Amount:     decimal.RequireFromString("30.00"),
		Currency:   "USD",
		Reference:  "42",
		SuccessURL: "https://site.example/payment-success",
		CancelURL:  "https://site.example/payment",
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID != "cs_123" || sess.URL != "https://pay.example/abc" {
		t.Fatalf("session = %+v", sess)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotReq.Reference != "42" || gotReq.Currency != "USD" {
		t.Fatalf("request = %+v", gotReq)
	}
}

func TestCreateSessionMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Session{ID: "cs_123"})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test")
	if _, err := c.CreateSession(context.Background(), SessionRequest{}); err == nil {
		t.Fatal("expected error for session without url")
	}
}

func TestGetSessionPaid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/cs_9" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Session{ID: "cs_9", Status: "complete", PaymentStatus: "paid"})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test")
	sess, err := c.GetSession(context.Background(), "cs_9")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !sess.Paid() {
		t.Fatal("expected paid session")
	}
}

func TestGetSessionUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such session", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "sk_test")
	if _, err := c.GetSession(context.Background(), "cs_missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}
