package entities

import "time"

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// TransactionStatus is the settlement state of a ledger entry
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is one immutable ledger entry. Every wallet balance change
// corresponds to exactly one entry; entries are append-only and never
// edited after reaching completed.
type Transaction struct {
	ID          int64             `db:"id"`
	UserID      string            `db:"user_id"`
	Type        TransactionType   `db:"type"`
	Amount      int64             `db:"amount"`
	Description string            `db:"description"`
	Reference   string            `db:"reference"` // correlating game/payment/withdrawal id
	Status      TransactionStatus `db:"status"`
	CreatedAt   time.Time         `db:"created_at"`
}

// IsCredit reports whether the entry increases the wallet
func (t *Transaction) IsCredit() bool {
	return t.Type == TransactionTypeCredit
}

// IsDebit reports whether the entry decreases the wallet
func (t *Transaction) IsDebit() bool {
	return t.Type == TransactionTypeDebit
}
