package repository

import (
	"context"
	"fmt"
	"time"

	"quizclash/database"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"
)

// PlatformEarningsRepository implements the PlatformEarningsRepository interface
type PlatformEarningsRepository struct {
	q Queryable
}

// NewPlatformEarningsRepository creates a new earnings repository over the pool
func NewPlatformEarningsRepository(db *database.DB) *PlatformEarningsRepository {
	return &PlatformEarningsRepository{q: db.Pool}
}

func newPlatformEarningsRepository(tx Queryable) interfaces.PlatformEarningsRepository {
	return &PlatformEarningsRepository{q: tx}
}

// AddCommission accumulates commission into the per-day, per-kind bucket
func (r *PlatformEarningsRepository) AddCommission(ctx context.Context, day time.Time, kind entities.GameKind, amount int64) error {
	query := `
		INSERT INTO platform_earnings (day, game_kind, total_commission, games_count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (day, game_kind)
		DO UPDATE SET total_commission = platform_earnings.total_commission + EXCLUDED.total_commission,
		              games_count = platform_earnings.games_count + 1
	`
	if _, err := r.q.Exec(ctx, query, day, kind, amount); err != nil {
		return fmt.Errorf("failed to add commission: %w", err)
	}
	return nil
}

// TotalSince returns total commission earned on or after the given day
func (r *PlatformEarningsRepository) TotalSince(ctx context.Context, day time.Time) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_commission), 0)
		FROM platform_earnings
		WHERE day >= $1
	`, day).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum earnings: %w", err)
	}
	return total, nil
}
