package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitForEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestBus_Emit(t *testing.T) {
	t.Run("delivers to all subscribers of the type", func(t *testing.T) {
		bus := NewBus()
		received := make(chan Event, 2)
		for i := 0; i < 2; i++ {
			bus.Subscribe(EventTypeGameSettled, func(ctx context.Context, ev Event) {
				received <- ev
			})
		}

		bus.Emit(context.Background(), GameSettledEvent{GameID: "game-1", WinnerID: "alice"})

		for i := 0; i < 2; i++ {
			ev := waitForEvent(t, received)
			settled, ok := ev.(GameSettledEvent)
			assert.True(t, ok)
			assert.Equal(t, "game-1", settled.GameID)
		}
	})

	t.Run("other event types are not delivered", func(t *testing.T) {
		bus := NewBus()
		received := make(chan Event, 1)
		bus.Subscribe(EventTypeWalletChange, func(ctx context.Context, ev Event) {
			received <- ev
		})

		bus.Emit(context.Background(), GameSettledEvent{GameID: "game-1"})

		select {
		case <-received:
			t.Fatal("wallet handler saw a settlement event")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("a panicking handler does not take down the others", func(t *testing.T) {
		bus := NewBus()
		received := make(chan Event, 1)
		bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, ev Event) {
			panic("boom")
		})
		bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, ev Event) {
			received <- ev
		})

		bus.Emit(context.Background(), UserCreatedEvent{UserID: "user-1"})
		waitForEvent(t, received)
	})
}

func TestTransactionalBus(t *testing.T) {
	t.Run("holds events until flush", func(t *testing.T) {
		bus := NewBus()
		received := make(chan Event, 2)
		bus.Subscribe(EventTypeWalletChange, func(ctx context.Context, ev Event) {
			received <- ev
		})

		txBus := NewTransactionalBus(bus)
		assert.NoError(t, txBus.Publish(WalletChangeEvent{UserID: "user-1", Amount: 10}))
		assert.NoError(t, txBus.Publish(WalletChangeEvent{UserID: "user-1", Amount: 5}))

		select {
		case <-received:
			t.Fatal("event escaped before flush")
		case <-time.After(100 * time.Millisecond):
		}

		assert.NoError(t, txBus.Flush(context.Background()))
		waitForEvent(t, received)
		waitForEvent(t, received)
	})

	t.Run("discard drops queued events", func(t *testing.T) {
		bus := NewBus()
		received := make(chan Event, 1)
		bus.Subscribe(EventTypeWalletChange, func(ctx context.Context, ev Event) {
			received <- ev
		})

		txBus := NewTransactionalBus(bus)
		assert.NoError(t, txBus.Publish(WalletChangeEvent{UserID: "user-1"}))
		txBus.Discard()
		assert.NoError(t, txBus.Flush(context.Background()))

		select {
		case <-received:
			t.Fatal("discarded event was delivered")
		case <-time.After(100 * time.Millisecond):
		}
	})
}
