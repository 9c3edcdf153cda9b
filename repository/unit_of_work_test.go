package repository

import (
	"context"
	"testing"
	"time"

	"quizclash/domain/events"
	"quizclash/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitRollback(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user := createTestUser(t, testDB.DB, 100)
	poolRepo := NewUserRepository(testDB.DB)

	t.Run("commit persists the change", func(t *testing.T) {
		uow := NewTestUnitOfWorkFactory(testDB.DB).Create()
		require.NoError(t, uow.Begin(ctx))

		_, err := uow.UserRepository().Debit(ctx, user.UID, 40)
		require.NoError(t, err)
		require.NoError(t, uow.Commit())

		found, err := poolRepo.GetByUID(ctx, user.UID)
		require.NoError(t, err)
		assert.Equal(t, int64(60), found.WalletBalance)
	})

	t.Run("rollback discards the change", func(t *testing.T) {
		uow := NewTestUnitOfWorkFactory(testDB.DB).Create()
		require.NoError(t, uow.Begin(ctx))

		_, err := uow.UserRepository().Debit(ctx, user.UID, 40)
		require.NoError(t, err)
		require.NoError(t, uow.Rollback())

		found, err := poolRepo.GetByUID(ctx, user.UID)
		require.NoError(t, err)
		assert.Equal(t, int64(60), found.WalletBalance)
	})

	t.Run("rollback after commit is harmless", func(t *testing.T) {
		uow := NewTestUnitOfWorkFactory(testDB.DB).Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Commit())
		assert.NoError(t, uow.Rollback())
	})

	t.Run("double begin rejected", func(t *testing.T) {
		uow := NewTestUnitOfWorkFactory(testDB.DB).Create()
		require.NoError(t, uow.Begin(ctx))
		defer func() { _ = uow.Rollback() }()
		assert.Error(t, uow.Begin(ctx))
	})

	t.Run("repositories panic before begin", func(t *testing.T) {
		uow := NewTestUnitOfWorkFactory(testDB.DB).Create()
		assert.Panics(t, func() { uow.UserRepository() })
	})
}

func TestUnitOfWork_EventDelivery(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	newFactoryWithListener := func() (chan events.Event, *events.Bus) {
		received := make(chan events.Event, 1)
		bus := events.NewBus()
		bus.Subscribe(events.EventTypeWalletChange, func(ctx context.Context, ev events.Event) {
			received <- ev
		})
		return received, bus
	}

	t.Run("events flush after commit", func(t *testing.T) {
		received, bus := newFactoryWithListener()
		uow := NewUnitOfWorkFactory(testDB.DB, bus).Create()
		require.NoError(t, uow.Begin(ctx))

		require.NoError(t, uow.EventBus().Publish(events.WalletChangeEvent{UserID: "user-1", Amount: 10}))

		select {
		case <-received:
			t.Fatal("event escaped before commit")
		case <-time.After(100 * time.Millisecond):
		}

		require.NoError(t, uow.Commit())

		select {
		case ev := <-received:
			change := ev.(events.WalletChangeEvent)
			assert.Equal(t, "user-1", change.UserID)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for flushed event")
		}
	})

	t.Run("events discard on rollback", func(t *testing.T) {
		received, bus := newFactoryWithListener()
		uow := NewUnitOfWorkFactory(testDB.DB, bus).Create()
		require.NoError(t, uow.Begin(ctx))

		require.NoError(t, uow.EventBus().Publish(events.WalletChangeEvent{UserID: "user-1", Amount: 10}))
		require.NoError(t, uow.Rollback())

		select {
		case <-received:
			t.Fatal("rolled-back event was delivered")
		case <-time.After(100 * time.Millisecond):
		}
	})
}
