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

// PaymentOrderRepository implements the PaymentOrderRepository interface
type PaymentOrderRepository struct {
	q Queryable
}

// NewPaymentOrderRepository creates a new payment order repository over the pool
func NewPaymentOrderRepository(db *database.DB) *PaymentOrderRepository {
	return &PaymentOrderRepository{q: db.Pool}
}

func newPaymentOrderRepository(tx Queryable) interfaces.PaymentOrderRepository {
	return &PaymentOrderRepository{q: tx}
}

// Create persists a newly created gateway order
func (r *PaymentOrderRepository) Create(ctx context.Context, order *entities.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (order_id, user_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		order.OrderID,
		order.UserID,
		order.Amount,
		order.Currency,
		order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

// GetForUpdate retrieves an order, holding the row lock so concurrent
// confirmations of the same order serialize
func (r *PaymentOrderRepository) GetForUpdate(ctx context.Context, orderID string) (*entities.PaymentOrder, error) {
	query := `
		SELECT order_id, user_id, amount, currency, status, payment_id, created_at, updated_at
		FROM payment_orders
		WHERE order_id = $1
		FOR UPDATE
	`
	var order entities.PaymentOrder
	err := r.q.QueryRow(ctx, query, orderID).Scan(
		&order.OrderID,
		&order.UserID,
		&order.Amount,
		&order.Currency,
		&order.Status,
		&order.PaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}
	return &order, nil
}

// MarkPaid records the gateway payment ID and flips the order to paid.
// The status guard makes the flip first-wins.
func (r *PaymentOrderRepository) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	query := `
		UPDATE payment_orders
		SET status = 'paid', payment_id = $2, updated_at = NOW()
		WHERE order_id = $1 AND status <> 'paid'
	`
	tag, err := r.q.Exec(ctx, query, orderID, paymentID)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrPaymentAlreadyProcessed
	}
	return nil
}
