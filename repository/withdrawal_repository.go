package repository

import (
	"context"
	"fmt"

	"quizclash/database"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"
)

// WithdrawalRepository implements the WithdrawalRepository interface
type WithdrawalRepository struct {
	q Queryable
}

// NewWithdrawalRepository creates a new withdrawal repository over the pool
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

func newWithdrawalRepository(tx Queryable) interfaces.WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create persists a withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, w *entities.WithdrawalRequest) error {
	query := `
		INSERT INTO withdrawals (user_id, amount, account_number, ifsc_code, account_holder_name, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		w.UserID,
		w.Amount,
		w.BankDetails.AccountNumber,
		w.BankDetails.IFSCCode,
		w.BankDetails.AccountHolderName,
		w.Status,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

// GetByUser returns a user's withdrawal requests, newest first
func (r *WithdrawalRepository) GetByUser(ctx context.Context, uid string, limit int) ([]*entities.WithdrawalRequest, error) {
	query := `
		SELECT id, user_id, amount, account_number, ifsc_code, account_holder_name, status, created_at, processed_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.q.Query(ctx, query, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []*entities.WithdrawalRequest
	for rows.Next() {
		var w entities.WithdrawalRequest
		err := rows.Scan(
			&w.ID,
			&w.UserID,
			&w.Amount,
			&w.BankDetails.AccountNumber,
			&w.BankDetails.IFSCCode,
			&w.BankDetails.AccountHolderName,
			&w.Status,
			&w.CreatedAt,
			&w.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &w)
	}
	return withdrawals, rows.Err()
}

// UpdateStatus transitions a withdrawal request, stamping processed_at for
// terminal states
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id int64, status entities.WithdrawalStatus) error {
	query := `
		UPDATE withdrawals
		SET status = $2,
		    processed_at = CASE WHEN $2 IN ('completed', 'rejected') THEN NOW() ELSE processed_at END
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal %d not found", id)
	}
	return nil
}
