package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		FullName:                  "Ada Lovelace",
		Email:                     "ada@example.com",
		Phone:                     "+44 20 7946 0958",
		Country:                   "United Kingdom",
		LinkedInURL:               "https://www.linkedin.com/in/ada",
		CurrentStatus:             "Professional",
		InstitutionOrOrganization: "Analytical Engines Ltd",
		FieldOrRole:               "Engineering",
		HighestEducation:          "Masters",
		Motivation:                "Career clarity",
		ConfirmCommitment:         "yes",
		AgreePayment:              "yes",
	}
}

func TestRegisterSingleRequestSurfacesCheckoutURL(t *testing.T) {
	var posts int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/register" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		atomic.AddInt64(&posts, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"checkout_url":        "https://pay.example/abc",
			"registration_id":     41,
			"checkout_session_id": "cs_test_1",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	handoff, err := c.Register(context.Background(), validForm())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := atomic.LoadInt64(&posts); got != 1 {
		t.Fatalf("expected exactly 1 POST, got %d", got)
	}
	if handoff.CheckoutURL != "https://pay.example/abc" {
		t.Errorf("checkout url = %q", handoff.CheckoutURL)
	}
	if handoff.RegistrationID != 41 || handoff.CheckoutSessionID != "cs_test_1" {
		t.Errorf("handoff = %+v", handoff)
	}
}

func TestRegisterSurfacesFieldLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"missing": []string{"Full Name", "Payment Agreement"},
			"invalid": []string{"Email Address"},
			"message": "Please review the form and try again.",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Register(context.Background(), RegistrationForm{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Missing) != 2 || verr.Missing[1] != "Payment Agreement" {
		t.Errorf("missing = %v", verr.Missing)
	}
	if len(verr.Invalid) != 1 || verr.Invalid[0] != "Email Address" {
		t.Errorf("invalid = %v", verr.Invalid)
	}
}

func TestVerifyPaymentFailsFastWithoutIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.VerifyPayment(context.Background(), "", "cs_1"); err == nil {
		t.Error("expected error for empty rid")
	}
	if _, err := c.VerifyPayment(context.Background(), "7", ""); err == nil {
		t.Error("expected error for empty session id")
	}
}

func TestFetchReceiptRejectsWrongTypes(t *testing.T) {
	// total as a JSON number instead of a string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":      "Ada Lovelace",
			"email":     "ada@example.com",
			"date_time": "2026-01-10T12:00:00Z",
			"cohort":    "2026",
			"subtotal":  "30.00",
			"total":     30.0,
			"currency":  "USD",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	rec, err := c.FetchReceipt(context.Background(), "41")
	if !errors.Is(err, ErrBadReceiptShape) {
		t.Fatalf("expected ErrBadReceiptShape, got %v", err)
	}
	if rec != nil {
		t.Errorf("expected no partial record, got %+v", rec)
	}
}

func TestFetchReceiptAcceptsNullOptionals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":      nil,
			"email":     nil,
			"date_time": "2026-01-10T12:00:00Z",
			"subtotal":  "30.00",
			"total":     "30.00",
			"currency":  "USD",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	rec, err := c.FetchReceipt(context.Background(), "41")
	if err != nil {
		t.Fatalf("FetchReceipt: %v", err)
	}
	if rec.Name != nil || rec.Cohort != nil {
		t.Errorf("optionals should be nil: %+v", rec)
	}
	if rec.Total != "30.00" || rec.Currency != "USD" {
		t.Errorf("record = %+v", rec)
	}
}

func TestFetchReceiptRequiresRIDLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.FetchReceipt(context.Background(), ""); err == nil {
		t.Error("expected error for empty rid")
	}
	if _, err := c.FetchVerifiedReceipt(context.Background(), "", ""); err == nil {
		t.Error("expected error for empty rid without session")
	}
	if _, err := c.FetchVerifiedReceipt(context.Background(), "", "cs_1"); err == nil {
		t.Error("expected error for empty rid with session")
	}
	if _, err := c.DownloadReceiptPDF(context.Background(), ""); err == nil {
		t.Error("expected error for empty rid on pdf download")
	}
}

func TestDeleteScheduleRejectsBadIDLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	c := New(srv.URL)
	for _, id := range []string{"abc", "", "-3", "0", "12x"} {
		err := c.DeleteSchedule(context.Background(), id)
		if err == nil || err.Error() != "invalid schedule id" {
			t.Errorf("DeleteSchedule(%q) = %v", id, err)
		}
	}
}

func TestLoginStoresTokenForAdminCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"token":   "tok-123",
				"admin":   map[string]interface{}{"id": 1, "email": "admin@example.com", "full_name": "Admin"},
			})
		case "/api/admin/dashboard":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"total_registrations": 12, "verified": 7, "pending": 5,
				"revenue": "210.00", "currency": "USD", "daily_signups": []interface{}{},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	admin, err := c.Login(context.Background(), "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if admin.Email != "admin@example.com" {
		t.Errorf("admin = %+v", admin)
	}
	sum, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if sum.Verified != 7 || sum.Revenue != "210.00" {
		t.Errorf("summary = %+v", sum)
	}
}
