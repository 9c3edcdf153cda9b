package entities

import "time"

// WithdrawalStatus is the back-office state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

// BankDetails is the destination account for a withdrawal
type BankDetails struct {
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
	AccountHolderName string `json:"accountHolderName"`
}

// Validate checks that all destination fields are present
func (b BankDetails) Validate() error {
	if b.AccountNumber == "" || b.IFSCCode == "" || b.AccountHolderName == "" {
		return ErrMissingBankDetails
	}
	return nil
}

// WithdrawalRequest escrows funds out of a wallet pending manual approval.
// The amount is debited at request time so the displayed balance never
// overstates spendable funds.
type WithdrawalRequest struct {
	ID          int64            `db:"id"`
	UserID      string           `db:"user_id"`
	Amount      int64            `db:"amount"`
	BankDetails BankDetails      `db:"-"`
	Status      WithdrawalStatus `db:"status"`
	CreatedAt   time.Time        `db:"created_at"`
	ProcessedAt *time.Time       `db:"processed_at"`
}
