package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"quizclash/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventEnvelope wraps a serialized domain event with delivery metadata
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventForwarder relays domain events from the in-process bus to NATS
// so external consumers can react to settlements and payments
type NATSEventForwarder struct {
	client *NATSClient
	mapper *EventSubjectMapper
}

// NewNATSEventForwarder creates a new forwarder
func NewNATSEventForwarder(client *NATSClient, mapper *EventSubjectMapper) *NATSEventForwarder {
	return &NATSEventForwarder{client: client, mapper: mapper}
}

// Attach subscribes the forwarder to every event type on the bus
func (f *NATSEventForwarder) Attach(bus *events.Bus) {
	forward := func(ctx context.Context, event events.Event) {
		f.forward(ctx, event)
	}
	for _, eventType := range []events.EventType{
		events.EventTypeWalletChange,
		events.EventTypeUserCreated,
		events.EventTypeGameStateChange,
		events.EventTypeQuestionAdvance,
		events.EventTypeGameSettled,
		events.EventTypePaymentCaptured,
	} {
		bus.Subscribe(eventType, forward)
	}
}

func (f *NATSEventForwarder) forward(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to marshal event payload")
		return
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: "quizclash",
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		log.WithError(err).Error("Failed to marshal event envelope")
		return
	}

	subject := f.mapper.MapEventToSubject(event)
	if err := f.client.Publish(ctx, subject, data); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"subject":   subject,
			"eventType": event.Type(),
		}).Error("Failed to forward event to NATS")
		return
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
}
