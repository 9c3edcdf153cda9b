package interfaces

import (
	"context"

	"quizclash/domain/entities"
	"quizclash/domain/events"
)

// TriviaClient fetches trivia questions from an external source
type TriviaClient interface {
	// FetchQuestions returns count multiple-choice questions.
	// Returns entities.ErrContentUnavailable when the source is down.
	FetchQuestions(ctx context.Context, count int) ([]entities.Question, error)
}

// PaymentGateway creates orders with the external payment provider
type PaymentGateway interface {
	// CreateOrder creates a gateway order for the given amount and returns
	// the gateway-assigned order ID
	CreateOrder(ctx context.Context, amount int64, receipt string) (orderID string, err error)

	// VerifySignature checks the gateway's HMAC over orderID|paymentID
	VerifySignature(orderID, paymentID, signature string) bool
}

// EventPublisher publishes domain events. Within a unit of work the
// publisher buffers events until commit.
type EventPublisher interface {
	Publish(event events.Event) error
}

// EventSubscriber allows the outer layers to react to domain events
// without depending on the bus implementation
type EventSubscriber interface {
	Subscribe(eventType events.EventType, handler func(context.Context, events.Event))
}
