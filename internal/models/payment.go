package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks a checkout session's lifecycle on our side.
type PaymentStatus string

const (
	PaymentCreated   PaymentStatus = "created"
	PaymentCompleted PaymentStatus = "completed"
)

// Payment links a registration to a checkout session at the external
// payment processor. Amounts are fixed at session creation.
type Payment struct {
	ID                int64           `json:"id"`
	RegistrationID    int64           `json:"registration_id"`
	CheckoutSessionID string          `json:"checkout_session_id"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Total             decimal.Decimal `json:"total"`
	Currency          string          `json:"currency"`
	Status            PaymentStatus   `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
}
