package application

import (
	"context"

	"quizclash/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Events published through EventBus during the transaction are buffered and
// only delivered after Commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	UserRepository() interfaces.UserRepository
	GameRepository() interfaces.GameRepository
	TransactionRepository() interfaces.TransactionRepository
	WithdrawalRepository() interfaces.WithdrawalRepository
	PaymentOrderRepository() interfaces.PaymentOrderRepository
	ReferralRepository() interfaces.ReferralRepository
	PlatformEarningsRepository() interfaces.PlatformEarningsRepository
	QuestionRepository() interfaces.QuestionRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// GameStarter triggers the waiting -> playing transition. Implemented by
// the orchestrator and consumed by the auto-start scheduler.
type GameStarter interface {
	StartGame(ctx context.Context, gameID string) error
}
