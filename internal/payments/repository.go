package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/semzi/sledge/internal/models"
)

// ErrNotFound is returned when no payment matches.
var ErrNotFound = errors.New("payment not found")

// Repository handles payment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a payments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a payment row for a freshly opened checkout session.
func (r *Repository) Create(ctx context.Context, p *models.Payment) error {
	const q = `INSERT INTO payments (registration_id, checkout_session_id, subtotal, total, currency, status)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q,
		p.RegistrationID, p.CheckoutSessionID,
		p.Subtotal.StringFixed(2), p.Total.StringFixed(2),
		p.Currency, string(p.Status),
	).Scan(&p.ID, &p.CreatedAt)
}

// GetBySession returns the payment for a registration/session pair.
func (r *Repository) GetBySession(ctx context.Context, registrationID int64, sessionID string) (*models.Payment, error) {
	const q = `SELECT id, registration_id, checkout_session_id, subtotal::text, total::text,
			currency, status, created_at, completed_at
		FROM payments WHERE registration_id = $1 AND checkout_session_id = $2`
	return r.scanOne(r.pool.QueryRow(ctx, q, registrationID, sessionID))
}

// GetLatestByRegistration returns the most recent payment for a registration.
func (r *Repository) GetLatestByRegistration(ctx context.Context, registrationID int64) (*models.Payment, error) {
	const q = `SELECT id, registration_id, checkout_session_id, subtotal::text, total::text,
			currency, status, created_at, completed_at
		FROM payments WHERE registration_id = $1 ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.pool.QueryRow(ctx, q, registrationID))
}

// Complete marks the payment completed and the registration verified in
// one transaction.
func (r *Repository) Complete(ctx context.Context, paymentID, registrationID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE payments SET status = 'completed', completed_at = NOW() WHERE id = $1 AND status <> 'completed'`,
		paymentID); err != nil {
		return fmt.Errorf("complete payment: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE registrations SET registration_status = 'verified' WHERE id = $1`,
		registrationID); err != nil {
		return fmt.Errorf("verify registration: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *Repository) scanOne(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	var subtotal, total, status string
	err := row.Scan(&p.ID, &p.RegistrationID, &p.CheckoutSessionID,
		&subtotal, &total, &p.Currency, &status, &p.CreatedAt, &p.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("parse subtotal: %w", err)
	}
	if p.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	p.Status = models.PaymentStatus(status)
	return &p, nil
}
