package entities

import (
	"errors"
	"fmt"
)

// Resource-state errors. These are rejected before any partial mutation;
// callers may retry with corrected input but must not retry blindly.
var (
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrUserNotFound       = errors.New("user not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameFull           = errors.New("game is full")
	ErrAlreadyJoined      = errors.New("already joined this game")
	ErrAlreadyAnswered    = errors.New("answer already submitted for this question")
	ErrQuestionClosed     = errors.New("question is no longer accepting answers")
	ErrAlreadySettled     = errors.New("game already settled")
	ErrNotHost            = errors.New("only the host can perform this action")
)

// Payment and withdrawal errors.
var (
	ErrInvalidSignature        = errors.New("invalid payment signature")
	ErrAmountTooLow            = errors.New("amount below configured minimum")
	ErrBelowMinimumWithdrawal  = errors.New("amount below minimum withdrawal")
	ErrServiceUnavailable      = errors.New("payment service not configured")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	ErrInvalidReferralCode     = errors.New("invalid referral code")
	ErrMissingBankDetails      = errors.New("incomplete bank details")
)

// Content errors.
var (
	// ErrContentUnavailable indicates the fixed question pool cannot satisfy
	// a request. Should not occur absent a data-seeding bug.
	ErrContentUnavailable = errors.New("question content unavailable")
)

// PostVerificationError reports a wallet credit that failed after the external
// payment was already verified. Money was collected externally but is not yet
// reflected in the wallet, so this must be surfaced for manual reconciliation
// rather than reported as a plain failure.
type PostVerificationError struct {
	OrderID   string
	PaymentID string
	Err       error
}

func (e *PostVerificationError) Error() string {
	return fmt.Sprintf("payment %s verified but wallet update failed: %v", e.PaymentID, e.Err)
}

func (e *PostVerificationError) Unwrap() error {
	return e.Err
}
