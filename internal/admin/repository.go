package admin

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/semzi/sledge/internal/models"
	"github.com/semzi/sledge/pkg/paginate"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// DailyCount is one day of the signup time series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is the dashboard aggregate payload.
type Summary struct {
	TotalRegistrations int                   `json:"total_registrations"`
	Verified           int                   `json:"verified"`
	Pending            int                   `json:"pending"`
	Revenue            string                `json:"revenue"`
	Currency           string                `json:"currency"`
	DailySignups       []DailyCount          `json:"daily_signups"`
	Recent             []models.Registration `json:"recent"`
}

// Repository runs the admin listing and aggregate queries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an admin repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRegistrations returns one page of registrations, newest first,
// optionally filtered by a name/email search.
func (r *Repository) ListRegistrations(ctx context.Context, p paginate.Params) ([]models.Registration, int, error) {
	pattern := "%" + p.Query + "%"

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE $1 = '' OR full_name ILIKE $2 OR email ILIKE $2`,
		p.Query, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, full_name, email, phone, country, linkedin_url, current_status,
			institution_or_organization, field_or_role, highest_education, motivation,
			energy_interest, previous_experience, clarity_tools_expectation,
			registration_status, created_at
		 FROM registrations
		 WHERE $1 = '' OR full_name ILIKE $2 OR email ILIKE $2
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3 OFFSET $4`,
		p.Query, pattern, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.Registration{}
	for rows.Next() {
		var reg models.Registration
		var status string
		if err := rows.Scan(&reg.ID, &reg.FullName, &reg.Email, &reg.Phone, &reg.Country,
			&reg.LinkedInURL, &reg.CurrentStatus, &reg.InstitutionOrOrganization,
			&reg.FieldOrRole, &reg.HighestEducation, &reg.Motivation,
			&reg.EnergyInterest, &reg.PreviousExperience,
			&reg.ClarityToolsExpectation, &status, &reg.CreatedAt); err != nil {
			return nil, 0, err
		}
		reg.Status = models.RegistrationStatus(status)
		items = append(items, reg)
	}
	return items, total, rows.Err()
}

// Dashboard collects totals, revenue, a 14-day signup series and the
// most recent registrations.
func (r *Repository) Dashboard(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE registration_status = 'verified'),
			COUNT(*) FILTER (WHERE registration_status = 'pending')
		 FROM registrations`).Scan(&s.TotalRegistrations, &s.Verified, &s.Pending)
	if err != nil {
		return nil, err
	}

	var revenue string
	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0)::text, COALESCE(MAX(currency), 'USD')
		 FROM payments WHERE status = 'completed'`).Scan(&revenue, &s.Currency)
	if err != nil {
		return nil, err
	}
	if d, err := decimal.NewFromString(revenue); err == nil {
		revenue = d.StringFixed(2)
	}
	s.Revenue = revenue

	rows, err := r.pool.Query(ctx,
		`SELECT created_at::date::text, COUNT(*)
		 FROM registrations
		 WHERE created_at >= NOW() - INTERVAL '14 days'
		 GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	s.DailySignups = []DailyCount{}
	for rows.Next() {
		var d DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		s.DailySignups = append(s.DailySignups, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recent, _, err := r.ListRegistrations(ctx, paginate.Params{Page: 1, Limit: 5})
	if err != nil {
		return nil, err
	}
	s.Recent = recent
	return &s, nil
}

// LookupReceipt returns the newest verified registration id for an email.
func (r *Repository) LookupReceipt(ctx context.Context, email string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM registrations
		 WHERE email = $1 AND registration_status = 'verified'
		 ORDER BY created_at DESC LIMIT 1`, email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}
