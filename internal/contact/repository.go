package contact

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/semzi/sledge/internal/models"
)

// Repository handles contact message persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a contact repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a contact message.
func (r *Repository) Create(ctx context.Context, m *models.ContactMessage) error {
	const q = `INSERT INTO contact_messages (full_name, email, message)
		VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, m.FullName, m.Email, m.Message).Scan(&m.ID, &m.CreatedAt)
}
