package infrastructure

import (
	"fmt"

	"quizclash/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeWalletChange:
		return "wallets.balance_changed"
	case events.EventTypeUserCreated:
		return "users.created"
	case events.EventTypeGameStateChange:
		return "games.state_changed"
	case events.EventTypeQuestionAdvance:
		return "games.question_advanced"
	case events.EventTypeGameSettled:
		return "games.settled"
	case events.EventTypePaymentCaptured:
		return "payments.captured"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}
