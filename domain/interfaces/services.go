package interfaces

import (
	"context"

	"quizclash/domain/entities"
)

// UserService defines the interface for user account operations
type UserService interface {
	// Register creates a user account, credits the welcome bonus and,
	// when referralCode is non-empty, pays the referral bonus to both sides
	Register(ctx context.Context, uid string, referralCode string) (*entities.User, error)

	// GetUser retrieves a user by UID
	GetUser(ctx context.Context, uid string) (*entities.User, error)

	// GetLedger returns the most recent wallet ledger entries for a user
	GetLedger(ctx context.Context, uid string, limit int) ([]*entities.Transaction, error)
}

// GameService defines the interface for game room operations
type GameService interface {
	// CreateGame creates a new waiting room hosted by uid, debiting the
	// entry fee from the host's wallet. The question set is supplied by the
	// caller so external fetches stay outside the transaction. Generic
	// question rooms may override the entry fee and capacity; math and quiz
	// rooms use the fixed kind config (pass zero for both).
	CreateGame(ctx context.Context, kind entities.GameKind, hostUID string, entryFee int64, maxPlayers int, questions []entities.Question) (*entities.GameRoom, error)

	// JoinGame adds a player to a waiting room, debiting the entry fee
	JoinGame(ctx context.Context, gameID, uid string) (*entities.GameRoom, error)

	// StartGame transitions a waiting room to playing. It is a no-op when
	// the room already started or no longer has enough players.
	StartGame(ctx context.Context, gameID string) (*entities.GameRoom, error)

	// SubmitAnswer records a player's answer to the question at
	// questionIndex and advances the room when every player has answered.
	// An index other than the current question returns ErrQuestionClosed.
	SubmitAnswer(ctx context.Context, gameID, uid string, questionIndex, selectedOption, timeSpent int) (*entities.GameRoom, error)

	// TimeUp closes the current question after its deadline, filling the
	// no-answer sentinel for silent players, and advances the room
	TimeUp(ctx context.Context, gameID string) (*entities.GameRoom, error)

	// ForceEnd lets the host terminate a playing room early, settling it
	// on the scores as they stand. Non-hosts get entities.ErrNotHost.
	ForceEnd(ctx context.Context, gameID, uid string) (*entities.GameRoom, error)

	// ListOpenGames returns joinable rooms of the given kind
	ListOpenGames(ctx context.Context, kind entities.GameKind) ([]*entities.GameRoom, error)

	// GetGame retrieves a game room by ID
	GetGame(ctx context.Context, gameID string) (*entities.GameRoom, error)
}

// SettlementService defines the interface for ending games and paying out
type SettlementService interface {
	// Settle determines the winner, credits the payout, records the
	// commission and marks the game finished. Settling an already
	// finished game returns entities.ErrAlreadySettled.
	Settle(ctx context.Context, gameID string) (*entities.GameRoom, error)
}

// PaymentService defines the interface for wallet recharge and withdrawal
type PaymentService interface {
	// CreateOrder persists a recharge order already opened at the gateway.
	// The gateway round trip happens before the transaction opens, so the
	// gateway-assigned order ID is supplied by the caller.
	CreateOrder(ctx context.Context, uid string, amount int64, gatewayOrderID string) (*entities.PaymentOrder, error)

	// ConfirmPayment verifies the gateway signature and credits the wallet.
	// Replays of an already processed payment return
	// entities.ErrPaymentAlreadyProcessed.
	ConfirmPayment(ctx context.Context, orderID, paymentID, signature string) (*entities.PaymentOrder, error)

	// CreateWithdrawal opens a withdrawal request, debiting the wallet
	// immediately to escrow the amount
	CreateWithdrawal(ctx context.Context, uid string, amount int64, bank entities.BankDetails) (*entities.WithdrawalRequest, error)
}

// QuestionService defines the interface for assembling question sets
type QuestionService interface {
	// QuestionsFor returns a full question set for a game of the given kind
	QuestionsFor(ctx context.Context, kind entities.GameKind) ([]entities.Question, error)
}
