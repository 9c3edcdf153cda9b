package interfaces

import (
	"context"
	"time"

	"quizclash/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByUID retrieves a user by their UID
	GetByUID(ctx context.Context, uid string) (*entities.User, error)

	// GetByReferralCode retrieves a user by their referral code
	GetByReferralCode(ctx context.Context, code string) (*entities.User, error)

	// Create creates a new user with the initial wallet balance
	Create(ctx context.Context, user *entities.User) error

	// Credit adds amount to a user's wallet balance atomically
	Credit(ctx context.Context, uid string, amount int64) (newBalance int64, err error)

	// Debit subtracts amount from a user's wallet balance atomically.
	// Returns entities.ErrInsufficientFunds when the balance would go negative.
	Debit(ctx context.Context, uid string, amount int64) (newBalance int64, err error)

	// IncrementStats bumps total_games and, when won is true, total_wins
	IncrementStats(ctx context.Context, uid string, won bool) error
}

// GameRepository defines the interface for game room data access
type GameRepository interface {
	// Create persists a new game room with its question set
	Create(ctx context.Context, game *entities.GameRoom) error

	// GetByID retrieves a game room with its players
	GetByID(ctx context.Context, id string) (*entities.GameRoom, error)

	// GetByIDForUpdate retrieves a game room with its players, locking the
	// game row for the duration of the transaction
	GetByIDForUpdate(ctx context.Context, id string) (*entities.GameRoom, error)

	// AddPlayer inserts a player into a game room
	AddPlayer(ctx context.Context, gameID string, player *entities.GamePlayer) error

	// UpdatePlayer persists a player's answers and score
	UpdatePlayer(ctx context.Context, gameID string, player *entities.GamePlayer) error

	// Update persists the mutable fields of a game room
	Update(ctx context.Context, game *entities.GameRoom) error

	// ListOpen returns joinable games of the given kind
	ListOpen(ctx context.Context, kind entities.GameKind) ([]*entities.GameRoom, error)

	// ListExpiredQuestions returns IDs of playing games whose current
	// question deadline passed before cutoff
	ListExpiredQuestions(ctx context.Context, cutoff time.Time) ([]string, error)
}

// TransactionRepository defines the interface for the wallet ledger
type TransactionRepository interface {
	// Record creates a new ledger entry
	Record(ctx context.Context, tx *entities.Transaction) error

	// GetByUser returns the most recent ledger entries for a user
	GetByUser(ctx context.Context, uid string, limit int) ([]*entities.Transaction, error)
}

// WithdrawalRepository defines the interface for withdrawal requests
type WithdrawalRepository interface {
	// Create persists a new withdrawal request
	Create(ctx context.Context, w *entities.WithdrawalRequest) error

	// GetByUser returns withdrawal requests for a user, newest first
	GetByUser(ctx context.Context, uid string, limit int) ([]*entities.WithdrawalRequest, error)

	// UpdateStatus transitions a withdrawal request to a new status
	UpdateStatus(ctx context.Context, id int64, status entities.WithdrawalStatus) error
}

// PaymentOrderRepository defines the interface for payment order tracking
type PaymentOrderRepository interface {
	// Create persists a newly created gateway order
	Create(ctx context.Context, order *entities.PaymentOrder) error

	// GetForUpdate retrieves an order by ID, locking the row for the
	// duration of the transaction
	GetForUpdate(ctx context.Context, orderID string) (*entities.PaymentOrder, error)

	// MarkPaid records the gateway payment ID and flips status to paid
	MarkPaid(ctx context.Context, orderID, paymentID string) error
}

// ReferralRepository defines the interface for referral tracking
type ReferralRepository interface {
	// Create records that referrer referred the given user.
	// Duplicate pairs are rejected by the unique constraint.
	Create(ctx context.Context, r *entities.Referral) error

	// CountByReferrer returns how many users a referrer has brought in
	CountByReferrer(ctx context.Context, referrerUID string) (int, error)
}

// PlatformEarningsRepository tracks commission retained per settlement
type PlatformEarningsRepository interface {
	// AddCommission accumulates commission for the given day and game kind
	AddCommission(ctx context.Context, day time.Time, kind entities.GameKind, amount int64) error

	// TotalSince returns total commission earned on or after the given day
	TotalSince(ctx context.Context, day time.Time) (int64, error)
}

// QuestionRepository defines the interface for the fixed question pool
type QuestionRepository interface {
	// GetRandom returns up to count random questions
	GetRandom(ctx context.Context, count int) ([]entities.Question, error)
}
