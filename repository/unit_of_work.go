package repository

import (
	"context"
	"fmt"

	"quizclash/application"
	"quizclash/database"
	"quizclash/domain/events"
	"quizclash/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db  *database.DB
	tx  pgx.Tx
	ctx context.Context

	bus *events.TransactionalBus

	userRepo       interfaces.UserRepository
	gameRepo       interfaces.GameRepository
	txRepo         interfaces.TransactionRepository
	withdrawalRepo interfaces.WithdrawalRepository
	orderRepo      interfaces.PaymentOrderRepository
	referralRepo   interfaces.ReferralRepository
	earningsRepo   interfaces.PlatformEarningsRepository
	questionRepo   interfaces.QuestionRepository
}

type unitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events published
// during a unit of work are buffered and delivered on the bus after commit.
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db, bus: bus}
}

func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:  f.db,
		bus: events.NewTransactionalBus(f.bus),
	}
}

// Begin starts a new transaction and binds the repositories to it
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepository(tx)
	u.gameRepo = newGameRepository(tx)
	u.txRepo = newTransactionRepository(tx)
	u.withdrawalRepo = newWithdrawalRepository(tx)
	u.orderRepo = newPaymentOrderRepository(tx)
	u.referralRepo = newReferralRepository(tx)
	u.earningsRepo = newPlatformEarningsRepository(tx)
	u.questionRepo = newQuestionRepository(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	if err := u.bus.Flush(u.ctx); err != nil {
		log.WithError(err).Error("Failed to flush events after commit")
	}
	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.bus.Discard()
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	u.mustBeStarted(u.userRepo == nil)
	return u.userRepo
}

func (u *unitOfWork) GameRepository() interfaces.GameRepository {
	u.mustBeStarted(u.gameRepo == nil)
	return u.gameRepo
}

func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	u.mustBeStarted(u.txRepo == nil)
	return u.txRepo
}

func (u *unitOfWork) WithdrawalRepository() interfaces.WithdrawalRepository {
	u.mustBeStarted(u.withdrawalRepo == nil)
	return u.withdrawalRepo
}

func (u *unitOfWork) PaymentOrderRepository() interfaces.PaymentOrderRepository {
	u.mustBeStarted(u.orderRepo == nil)
	return u.orderRepo
}

func (u *unitOfWork) ReferralRepository() interfaces.ReferralRepository {
	u.mustBeStarted(u.referralRepo == nil)
	return u.referralRepo
}

func (u *unitOfWork) PlatformEarningsRepository() interfaces.PlatformEarningsRepository {
	u.mustBeStarted(u.earningsRepo == nil)
	return u.earningsRepo
}

func (u *unitOfWork) QuestionRepository() interfaces.QuestionRepository {
	u.mustBeStarted(u.questionRepo == nil)
	return u.questionRepo
}

func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.bus
}

func (u *unitOfWork) mustBeStarted(repoMissing bool) {
	if repoMissing {
		panic("unit of work not started - call Begin() first")
	}
}
