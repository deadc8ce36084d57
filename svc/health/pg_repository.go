package health

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifehubapp/lifehub/pkg/pg"
)

// PGRepository is the Postgres-backed wellness log store.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	if pool == nil {
		panic("health: pgx pool is required")
	}
	return &PGRepository{pool: pool}
}

func (r *PGRepository) UpsertLog(ctx context.Context, l *WellnessLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wellness_logs (id, user_id, day, mood, sleep_hours, water_glasses, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, day) DO UPDATE SET
			mood = EXCLUDED.mood,
			sleep_hours = EXCLUDED.sleep_hours,
			water_glasses = EXCLUDED.water_glasses,
			note = EXCLUDED.note`,
		l.ID, l.UserID, l.Day, l.Mood, l.SleepHours, l.WaterGlasses, l.Note, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("health: upsert log: %w", err)
	}
	return nil
}

func (r *PGRepository) LogForDay(ctx context.Context, userID uuid.UUID, d time.Time) (*WellnessLog, error) {
	var l WellnessLog
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, day, mood, sleep_hours, water_glasses, note, created_at
		FROM wellness_logs WHERE user_id = $1 AND day = $2`, userID, d).
		Scan(&l.ID, &l.UserID, &l.Day, &l.Mood, &l.SleepHours, &l.WaterGlasses,
			&l.Note, &l.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("health: load log: %w", err)
	}
	return &l, nil
}

func (r *PGRepository) LogsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]WellnessLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, day, mood, sleep_hours, water_glasses, note, created_at
		FROM wellness_logs WHERE user_id = $1 AND day >= $2
		ORDER BY day`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("health: list logs: %w", err)
	}
	defer rows.Close()

	var out []WellnessLog
	for rows.Next() {
		var l WellnessLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Day, &l.Mood, &l.SleepHours,
			&l.WaterGlasses, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("health: scan log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PGRepository) DeleteLog(ctx context.Context, userID uuid.UUID, d time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM wellness_logs WHERE user_id = $1 AND day = $2`, userID, d)
	if err != nil {
		return fmt.Errorf("health: delete log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}
