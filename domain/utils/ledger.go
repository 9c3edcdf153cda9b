package utils

import (
	"context"
	"fmt"

	"quizclash/domain/entities"
	"quizclash/domain/events"
	"quizclash/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordWalletChange writes a ledger entry and emits a wallet change event.
// This is the single entry point for all wallet balance changes in the
// system: callers mutate the balance through the user repository first,
// then record the matching entry here within the same unit of work.
func RecordWalletChange(ctx context.Context, txRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher, tx *entities.Transaction, newBalance int64) error {
	if err := txRepo.Record(ctx, tx); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	oldBalance := newBalance - tx.Amount
	if tx.IsDebit() {
		oldBalance = newBalance + tx.Amount
	}
	event := events.WalletChangeEvent{
		UserID:      tx.UserID,
		OldBalance:  oldBalance,
		NewBalance:  newBalance,
		Direction:   tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
	}
	log.WithFields(log.Fields{
		"userID":     event.UserID,
		"direction":  event.Direction,
		"amount":     event.Amount,
		"newBalance": event.NewBalance,
		"reference":  tx.Reference,
	}).Debug("Publishing WalletChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish wallet change event")
	}

	return nil
}
