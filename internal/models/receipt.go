package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptRecord is the wire shape of a payment receipt. Money and date
// values travel as strings; name, email, cohort and status may be absent.
type ReceiptRecord struct {
	Name               *string `json:"name,omitempty"`
	Email              *string `json:"email,omitempty"`
	DateTime           string  `json:"date_time"`
	Cohort             *string `json:"cohort,omitempty"`
	Subtotal           string  `json:"subtotal"`
	Total              string  `json:"total"`
	Currency           string  `json:"currency"`
	RegistrationStatus *string `json:"registration_status,omitempty"`
}

// ReceiptSummary is the snapshot cached at submit time so the receipt
// view has something to show while the payment is still pending.
type ReceiptSummary struct {
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Cohort    string          `json:"cohort"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}
