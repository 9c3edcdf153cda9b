package entities

import "time"

// PaymentOrderStatus tracks an externally collected payment
type PaymentOrderStatus string

const (
	PaymentOrderStatusCreated PaymentOrderStatus = "created"
	PaymentOrderStatusPaid    PaymentOrderStatus = "paid"
	PaymentOrderStatusFailed  PaymentOrderStatus = "failed"
)

// PaymentOrder mirrors one gateway order. A wallet credit may be issued for
// a given order at most once: confirming an order that is already paid is
// rejected, never re-credited.
type PaymentOrder struct {
	OrderID   string             `db:"order_id"` // gateway-issued id
	UserID    string             `db:"user_id"`
	Amount    int64              `db:"amount"` // smallest currency unit
	Currency  string             `db:"currency"`
	Status    PaymentOrderStatus `db:"status"`
	PaymentID *string            `db:"payment_id"` // set once paid
	CreatedAt time.Time          `db:"created_at"`
	UpdatedAt time.Time          `db:"updated_at"`
}

// IsPaid reports whether the order already produced a wallet credit
func (o *PaymentOrder) IsPaid() bool {
	return o.Status == PaymentOrderStatusPaid
}
