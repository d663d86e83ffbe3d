package schedule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/semzi/sledge/internal/models"
)

// ErrNotFound is returned when no schedule item matches.
var ErrNotFound = errors.New("schedule item not found")

// Repository handles schedule persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a schedule repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all items ordered by week.
func (r *Repository) List(ctx context.Context) ([]models.ScheduleItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, week, theme, key_learning_focus, facilitator, tentative_date
		 FROM schedule_items ORDER BY week, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []models.ScheduleItem{}
	for rows.Next() {
		var it models.ScheduleItem
		if err := rows.Scan(&it.ID, &it.Week, &it.Theme, &it.KeyLearningFocus, &it.Facilitator, &it.TentativeDate); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts an item.
func (r *Repository) Create(ctx context.Context, it *models.ScheduleItem) error {
	const q = `INSERT INTO schedule_items (week, theme, key_learning_focus, facilitator, tentative_date)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.pool.QueryRow(ctx, q, it.Week, it.Theme, it.KeyLearningFocus, it.Facilitator, it.TentativeDate).Scan(&it.ID)
}

// Update replaces an item's fields.
func (r *Repository) Update(ctx context.Context, it *models.ScheduleItem) error {
	const q = `UPDATE schedule_items
		SET week = $2, theme = $3, key_learning_focus = $4, facilitator = $5,
			tentative_date = $6, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, it.ID, it.Week, it.Theme, it.KeyLearningFocus, it.Facilitator, it.TentativeDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schedule_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
