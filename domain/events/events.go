package events

import (
	"quizclash/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeWalletChange    EventType = "wallet_change"
	EventTypeUserCreated     EventType = "user_created"
	EventTypeGameStateChange EventType = "game_state_change"
	EventTypeQuestionAdvance EventType = "question_advance"
	EventTypeGameSettled     EventType = "game_settled"
	EventTypePaymentCaptured EventType = "payment_captured"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// WalletChangeEvent represents a wallet balance change that occurred
type WalletChangeEvent struct {
	UserID      string
	OldBalance  int64
	NewBalance  int64
	Direction   entities.TransactionType
	Amount      int64
	Description string
}

func (e WalletChangeEvent) Type() EventType {
	return EventTypeWalletChange
}

// UserCreatedEvent represents a new user registration
type UserCreatedEvent struct {
	UserID       string
	Name         string
	WelcomeBonus int64
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// GameStateChangeEvent represents a room lifecycle transition
type GameStateChangeEvent struct {
	GameID   string
	Kind     entities.GameKind
	OldState string
	NewState string
}

func (e GameStateChangeEvent) Type() EventType {
	return EventTypeGameStateChange
}

// QuestionAdvanceEvent represents a room moving to the next question
type QuestionAdvanceEvent struct {
	GameID          string
	CurrentQuestion int
}

func (e QuestionAdvanceEvent) Type() EventType {
	return EventTypeQuestionAdvance
}

// GameSettledEvent represents a completed settlement
type GameSettledEvent struct {
	GameID     string
	Kind       entities.GameKind
	WinnerID   string
	PrizePool  int64
	Payout     int64
	Commission int64
}

func (e GameSettledEvent) Type() EventType {
	return EventTypeGameSettled
}

// PaymentCapturedEvent represents a verified gateway payment credited to a wallet
type PaymentCapturedEvent struct {
	OrderID   string
	PaymentID string
	UserID    string
	Amount    int64
}

func (e PaymentCapturedEvent) Type() EventType {
	return EventTypePaymentCaptured
}
