package repository

import (
	"context"
	"testing"

	"quizclash/domain/entities"
	"quizclash/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentOrderRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewPaymentOrderRepository(testDB.DB)
	ctx := context.Background()

	user := createTestUser(t, testDB.DB, 0)

	createOrder := func(orderID string) *entities.PaymentOrder {
		order := &entities.PaymentOrder{
			OrderID:  orderID,
			UserID:   user.UID,
			Amount:   5000,
			Currency: "INR",
			Status:   entities.PaymentOrderStatusCreated,
		}
		require.NoError(t, repo.Create(ctx, order))
		return order
	}

	t.Run("round trip", func(t *testing.T) {
		createOrder("order_rt")

		found, err := repo.GetForUpdate(ctx, "order_rt")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(5000), found.Amount)
		assert.Equal(t, entities.PaymentOrderStatusCreated, found.Status)
		assert.Nil(t, found.PaymentID)
	})

	t.Run("unknown order returns nil without error", func(t *testing.T) {
		found, err := repo.GetForUpdate(ctx, "no-such-order")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("mark paid is first-wins", func(t *testing.T) {
		createOrder("order_fw")

		require.NoError(t, repo.MarkPaid(ctx, "order_fw", "pay_1"))
		err := repo.MarkPaid(ctx, "order_fw", "pay_2")
		assert.ErrorIs(t, err, entities.ErrPaymentAlreadyProcessed)

		found, err := repo.GetForUpdate(ctx, "order_fw")
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentOrderStatusPaid, found.Status)
		assert.Equal(t, "pay_1", *found.PaymentID)
	})
}
