package repository

import (
	"context"
	"errors"
	"fmt"

	"quizclash/database"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"

	"github.com/jackc/pgx/v5/pgconn"
)

// ReferralRepository implements the ReferralRepository interface
type ReferralRepository struct {
	q Queryable
}

// NewReferralRepository creates a new referral repository over the pool
func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

func newReferralRepository(tx Queryable) interfaces.ReferralRepository {
	return &ReferralRepository{q: tx}
}

// Create records a referral pair. The unique constraint keeps the bonus
// single-shot per signup.
func (r *ReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	query := `
		INSERT INTO referrals (referrer_id, referred_id, bonus, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		referral.ReferrerID,
		referral.ReferredID,
		referral.Bonus,
		referral.Status,
	).Scan(&referral.ID, &referral.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("referral already recorded for %s by %s", referral.ReferredID, referral.ReferrerID)
		}
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

// CountByReferrer returns how many signups a referrer has brought in
func (r *ReferralRepository) CountByReferrer(ctx context.Context, referrerUID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM referrals WHERE referrer_id = $1`, referrerUID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}
	return count, nil
}
