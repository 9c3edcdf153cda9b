package repository

import (
	"context"
	"errors"
	"fmt"

	"quizclash/database"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository over the pool
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

func newUserRepository(tx Queryable) interfaces.UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `uid, name, email, phone, wallet_balance, referral_code, referred_by, total_games, total_wins, created_at, updated_at, last_active`

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.UID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.WalletBalance,
		&user.ReferralCode,
		&user.ReferredBy,
		&user.TotalGames,
		&user.TotalWins,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// GetByUID retrieves a user by their UID
func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE uid = $1`, userColumns)
	return scanUser(r.q.QueryRow(ctx, query, uid))
}

// GetByReferralCode retrieves a user by their referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE referral_code = $1`, userColumns)
	return scanUser(r.q.QueryRow(ctx, query, code))
}

// Create inserts a new user, filling the generated timestamps back into
// the entity
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (uid, name, email, phone, wallet_balance, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at, last_active
	`
	err := r.q.QueryRow(ctx, query,
		user.UID,
		user.Name,
		user.Email,
		user.Phone,
		user.WalletBalance,
		user.ReferralCode,
		user.ReferredBy,
	).Scan(&user.CreatedAt, &user.UpdatedAt, &user.LastActive)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Credit adds amount to the wallet balance atomically
func (r *UserRepository) Credit(ctx context.Context, uid string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance + $2, updated_at = NOW()
		WHERE uid = $1
		RETURNING wallet_balance
	`
	var newBalance int64
	err := r.q.QueryRow(ctx, query, uid, amount).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, entities.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to credit wallet: %w", err)
	}
	return newBalance, nil
}

// Debit subtracts amount from the wallet balance. The balance guard is in
// the statement itself: a row only matches when the funds are there, so
// concurrent debits can never drive the balance negative.
func (r *UserRepository) Debit(ctx context.Context, uid string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance - $2, updated_at = NOW()
		WHERE uid = $1 AND wallet_balance >= $2
		RETURNING wallet_balance
	`
	var newBalance int64
	err := r.q.QueryRow(ctx, query, uid, amount).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a missing user from an underfunded one
		exists, existsErr := r.exists(ctx, uid)
		if existsErr != nil {
			return 0, existsErr
		}
		if !exists {
			return 0, entities.ErrUserNotFound
		}
		return 0, entities.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit wallet: %w", err)
	}
	return newBalance, nil
}

// IncrementStats bumps the games played counter and, on a win, the wins
// counter
func (r *UserRepository) IncrementStats(ctx context.Context, uid string, won bool) error {
	winInc := 0
	if won {
		winInc = 1
	}
	query := `
		UPDATE users
		SET total_games = total_games + 1, total_wins = total_wins + $2, updated_at = NOW(), last_active = NOW()
		WHERE uid = $1
	`
	tag, err := r.q.Exec(ctx, query, uid, winInc)
	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) exists(ctx context.Context, uid string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE uid = $1)`, uid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}
