package application

import (
	"context"
	"fmt"

	"quizclash/config"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"
	"quizclash/domain/services"

	log "github.com/sirupsen/logrus"
)

// App orchestrates domain services over units of work. Every operation runs
// inside a single transaction: the wallet mutation, the ledger entry and
// the room change commit or roll back together.
type App struct {
	uowFactory UnitOfWorkFactory
	questions  interfaces.QuestionService
	gateway    interfaces.PaymentGateway
	scheduler  *AutoStartScheduler
}

// NewApp creates the application orchestrator. The question service and
// payment gateway talk to external systems, so the App calls them before
// opening a transaction rather than from inside one.
func NewApp(uowFactory UnitOfWorkFactory, questions interfaces.QuestionService, gateway interfaces.PaymentGateway) *App {
	app := &App{
		uowFactory: uowFactory,
		questions:  questions,
		gateway:    gateway,
	}
	app.scheduler = NewAutoStartScheduler(app)
	return app
}

// Scheduler exposes the auto-start scheduler for shutdown wiring
func (a *App) Scheduler() *AutoStartScheduler {
	return a.scheduler
}

// withUnitOfWork runs fn inside one transaction, committing on success and
// rolling back on error or panic
func (a *App) withUnitOfWork(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := uow.Rollback(); rbErr != nil {
				log.WithError(rbErr).Error("Failed to rollback transaction")
			}
		}
	}()

	if err := fn(uow); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

func (a *App) userService(uow UnitOfWork) interfaces.UserService {
	return services.NewUserService(uow.UserRepository(), uow.TransactionRepository(), uow.ReferralRepository(), uow.EventBus())
}

func (a *App) gameService(uow UnitOfWork) interfaces.GameService {
	settler := a.settlementService(uow)
	return services.NewGameService(uow.UserRepository(), uow.GameRepository(), uow.TransactionRepository(), settler, uow.EventBus())
}

func (a *App) settlementService(uow UnitOfWork) interfaces.SettlementService {
	return services.NewSettlementService(uow.UserRepository(), uow.GameRepository(), uow.TransactionRepository(), uow.PlatformEarningsRepository(), uow.EventBus())
}

func (a *App) paymentService(uow UnitOfWork) interfaces.PaymentService {
	return services.NewPaymentService(uow.UserRepository(), uow.TransactionRepository(), uow.PaymentOrderRepository(), uow.WithdrawalRepository(), a.gateway, uow.EventBus())
}

// Register creates a user account with the welcome bonus, optionally
// crediting a referral
func (a *App) Register(ctx context.Context, uid, referralCode string) (*entities.User, error) {
	var user *entities.User
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		user, err = a.userService(uow).Register(ctx, uid, referralCode)
		return err
	})
	return user, err
}

// GetUser retrieves a user account
func (a *App) GetUser(ctx context.Context, uid string) (*entities.User, error) {
	var user *entities.User
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		user, err = a.userService(uow).GetUser(ctx, uid)
		return err
	})
	return user, err
}

// GetLedger returns the user's recent wallet ledger entries
func (a *App) GetLedger(ctx context.Context, uid string, limit int) ([]*entities.Transaction, error) {
	var ledger []*entities.Transaction
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		ledger, err = a.userService(uow).GetLedger(ctx, uid, limit)
		return err
	})
	return ledger, err
}

// CreateGame opens a new waiting room hosted by uid. The question set is
// fetched first, before any transaction opens: a slow trivia source must
// not stretch a database lock. Pass zero for entryFee and maxPlayers to
// take the kind's defaults.
func (a *App) CreateGame(ctx context.Context, kind entities.GameKind, hostUID string, entryFee int64, maxPlayers int) (*entities.GameRoom, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown game kind: %s", kind)
	}
	questions, err := a.questions.QuestionsFor(ctx, kind)
	if err != nil {
		return nil, err
	}

	var game *entities.GameRoom
	err = a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		game, err = a.gameService(uow).CreateGame(ctx, kind, hostUID, entryFee, maxPlayers, questions)
		return err
	})
	return game, err
}

// JoinGame adds uid to a waiting room. Reaching the minimum viable
// membership schedules the automatic start.
func (a *App) JoinGame(ctx context.Context, gameID, uid string) (*entities.GameRoom, error) {
	var game *entities.GameRoom
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		game, err = a.gameService(uow).JoinGame(ctx, gameID, uid)
		return err
	})
	if err != nil {
		return nil, err
	}
	if game.Status == entities.GameStatusWaiting && len(game.Players) >= entities.MinPlayersToStart {
		a.scheduler.Schedule(game.ID)
	}
	return game, nil
}

// StartGame transitions a waiting room to playing. Invoked by the
// auto-start scheduler; a room that no longer qualifies is left untouched.
func (a *App) StartGame(ctx context.Context, gameID string) error {
	return a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		_, err := a.gameService(uow).StartGame(ctx, gameID)
		return err
	})
}

// SubmitAnswer records uid's answer to the question at questionIndex
func (a *App) SubmitAnswer(ctx context.Context, gameID, uid string, questionIndex, selectedOption, timeSpent int) (*entities.GameRoom, error) {
	var game *entities.GameRoom
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		game, err = a.gameService(uow).SubmitAnswer(ctx, gameID, uid, questionIndex, selectedOption, timeSpent)
		return err
	})
	return game, err
}

// ForceEnd lets the host settle a playing room early
func (a *App) ForceEnd(ctx context.Context, gameID, uid string) (*entities.GameRoom, error) {
	var game *entities.GameRoom
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		game, err = a.gameService(uow).ForceEnd(ctx, gameID, uid)
		return err
	})
	return game, err
}

// TimeUp closes an expired question, recording the no-answer sentinel for
// silent players
func (a *App) TimeUp(ctx context.Context, gameID string) (*entities.GameRoom, error) {
	var game *entities.GameRoom
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		game, err = a.gameService(uow).TimeUp(ctx, gameID)
		return err
	})
	return game, err
}

// ListOpenGames returns joinable rooms of a kind
func (a *App) ListOpenGames(ctx context.Context, kind entities.GameKind) ([]*entities.GameRoom, error) {
	var games []*entities.GameRoom
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		games, err = a.gameService(uow).ListOpenGames(ctx, kind)
		return err
	})
	return games, err
}

// GetGame retrieves a room by ID
func (a *App) GetGame(ctx context.Context, gameID string) (*entities.GameRoom, error) {
	var game *entities.GameRoom
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		game, err = a.gameService(uow).GetGame(ctx, gameID)
		return err
	})
	return game, err
}

// CreateOrder opens a payment gateway order for a wallet recharge. The
// gateway round trip happens before the transaction opens; only the
// resulting order ID is persisted inside it.
func (a *App) CreateOrder(ctx context.Context, uid string, amount int64) (*entities.PaymentOrder, error) {
	cfg := config.Get()
	if amount < cfg.MinRechargeAmount {
		return nil, entities.ErrAmountTooLow
	}
	if !cfg.GatewayConfigured() {
		return nil, entities.ErrServiceUnavailable
	}
	gatewayOrderID, err := a.gateway.CreateOrder(ctx, amount, "wallet:"+uid)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	var order *entities.PaymentOrder
	err = a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		order, err = a.paymentService(uow).CreateOrder(ctx, uid, amount, gatewayOrderID)
		return err
	})
	return order, err
}

// ConfirmPayment verifies a gateway callback and credits the wallet
func (a *App) ConfirmPayment(ctx context.Context, orderID, paymentID, signature string) (*entities.PaymentOrder, error) {
	var order *entities.PaymentOrder
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		order, err = a.paymentService(uow).ConfirmPayment(ctx, orderID, paymentID, signature)
		return err
	})
	return order, err
}

// CreateWithdrawal opens a withdrawal request and escrows the amount
func (a *App) CreateWithdrawal(ctx context.Context, uid string, amount int64, bank entities.BankDetails) (*entities.WithdrawalRequest, error) {
	var withdrawal *entities.WithdrawalRequest
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		withdrawal, err = a.paymentService(uow).CreateWithdrawal(ctx, uid, amount, bank)
		return err
	})
	return withdrawal, err
}

// GetWithdrawals returns the user's withdrawal requests
func (a *App) GetWithdrawals(ctx context.Context, uid string, limit int) ([]*entities.WithdrawalRequest, error) {
	var withdrawals []*entities.WithdrawalRequest
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		withdrawals, err = uow.WithdrawalRepository().GetByUser(ctx, uid, limit)
		return err
	})
	return withdrawals, err
}
