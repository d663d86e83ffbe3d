package registration

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/semzi/sledge/internal/models"
)

// ErrNotFound is returned when no registration matches.
var ErrNotFound = errors.New("registration not found")

// Repository handles registration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a registration with status pending.
func (r *Repository) Create(ctx context.Context, reg *models.Registration) error {
	const q = `INSERT INTO registrations (
			full_name, email, phone, country, linkedin_url, current_status,
			institution_or_organization, field_or_role, highest_education,
			motivation, energy_interest, previous_experience,
			clarity_tools_expectation, registration_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q,
		reg.FullName, reg.Email, reg.Phone, reg.Country, reg.LinkedInURL,
		reg.CurrentStatus, reg.InstitutionOrOrganization, reg.FieldOrRole,
		reg.HighestEducation, reg.Motivation, reg.EnergyInterest,
		reg.PreviousExperience, reg.ClarityToolsExpectation, string(reg.Status),
	).Scan(&reg.ID, &reg.CreatedAt)
}

// GetByID returns a registration by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	const q = `SELECT id, full_name, email, phone, country, linkedin_url,
			current_status, institution_or_organization, field_or_role,
			highest_education, motivation, energy_interest,
			previous_experience, clarity_tools_expectation,
			registration_status, created_at
		FROM registrations WHERE id = $1`
	var reg models.Registration
	var status string
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&reg.ID, &reg.FullName, &reg.Email, &reg.Phone, &reg.Country,
		&reg.LinkedInURL, &reg.CurrentStatus, &reg.InstitutionOrOrganization,
		&reg.FieldOrRole, &reg.HighestEducation, &reg.Motivation,
		&reg.EnergyInterest, &reg.PreviousExperience,
		&reg.ClarityToolsExpectation, &status, &reg.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	reg.Status = models.RegistrationStatus(status)
	return &reg, nil
}
