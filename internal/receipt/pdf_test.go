package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/semzi/sledge/internal/models"
)

func strPtr(s string) *string { return &s }

func TestRenderProducesPDF(t *testing.T) {
	rec := models.ReceiptRecord{
		Name:               strPtr("Jane Mentee"),
		Email:              strPtr("jane@example.com"),
		DateTime:           time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC).Format(time.RFC3339),
		Cohort:             strPtr("2026"),
		Subtotal:           "30.00",
		Total:              "30.00",
		Currency:           "USD",
		RegistrationStatus: strPtr("verified"),
	}
	out, err := Render(rec)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF header")
	}
}

func TestRenderToleratesMissingOptionalFields(t *testing.T) {
	rec := models.ReceiptRecord{
		DateTime: "not-a-date",
		Subtotal: "30.00",
		Total:    "30.00",
		Currency: "USD",
	}
	if _, err := Render(rec); err != nil {
		t.Fatalf("Render with nil optionals: %v", err)
	}
}

func TestFmtMoney(t *testing.T) {
	cases := map[string]string{
		"30.00":    "30.00",
		"30":       "30.00",
		"29.999":   "30.00",
		"garbage":  "0.00",
		"":         "0.00",
		"1e3oops":  "0.00",
		"12345.50": "12345.50",
	}
	for in, want := range cases {
		if got := fmtMoney(in); got != want {
			t.Errorf("fmtMoney(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilename(t *testing.T) {
	name := Filename(time.UnixMilli(1700000000000))
	if !strings.HasPrefix(name, "payment-receipt-") || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("filename = %q", name)
	}
	if name != "payment-receipt-1700000000000.pdf" {
		t.Fatalf("filename = %q", name)
	}
}
