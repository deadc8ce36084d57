package habit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifehubapp/lifehub/pkg/pg"
)

// PGRepository is the Postgres-backed habit store.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	if pool == nil {
		panic("habit: pgx pool is required")
	}
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, h *Habit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO habits (id, user_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		h.ID, h.UserID, h.Name, h.Description, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("habit: insert: %w", err)
	}
	return nil
}

func (r *PGRepository) ByID(ctx context.Context, userID, habitID uuid.UUID) (*Habit, error) {
	var h Habit
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, created_at, archived_at
		FROM habits WHERE id = $1 AND user_id = $2`, habitID, userID).
		Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.CreatedAt, &h.ArchivedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("habit: load: %w", err)
	}
	return &h, nil
}

func (r *PGRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, description, created_at, archived_at
		FROM habits WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("habit: list: %w", err)
	}
	defer rows.Close()

	var out []Habit
	for rows.Next() {
		var h Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Description,
			&h.CreatedAt, &h.ArchivedAt); err != nil {
			return nil, fmt.Errorf("habit: scan: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *PGRepository) Archive(ctx context.Context, userID, habitID uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE habits SET archived_at = $3
		WHERE id = $1 AND user_id = $2 AND archived_at IS NULL`, habitID, userID, at)
	if err != nil {
		return fmt.Errorf("habit: archive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM habits
		WHERE user_id = $1 AND archived_at IS NULL`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("habit: count: %w", err)
	}
	return n, nil
}

func (r *PGRepository) AddCompletion(ctx context.Context, c Completion) error {
	// ON CONFLICT keeps same-day completion idempotent.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO habit_completions (habit_id, day, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (habit_id, day) DO NOTHING`,
		c.HabitID, c.Day, c.CompletedAt)
	if err != nil {
		return fmt.Errorf("habit: add completion: %w", err)
	}
	return nil
}

func (r *PGRepository) CompletionDays(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day FROM habit_completions
		WHERE habit_id = $1 ORDER BY day`, habitID)
	if err != nil {
		return nil, fmt.Errorf("habit: completion days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("habit: scan day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
