package services

import (
	"context"
	"errors"
	"testing"

	"quizclash/config"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"
	"quizclash/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createTestPaymentService() (interfaces.PaymentService, *testhelpers.MockUserRepository, *testhelpers.MockTransactionRepository, *testhelpers.MockPaymentOrderRepository, *testhelpers.MockWithdrawalRepository, *testhelpers.MockPaymentGateway) {
	config.SetTestConfig(config.NewTestConfig())

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockTxRepo := new(testhelpers.MockTransactionRepository)
	mockOrderRepo := new(testhelpers.MockPaymentOrderRepository)
	mockWithdrawalRepo := new(testhelpers.MockWithdrawalRepository)
	mockGateway := new(testhelpers.MockPaymentGateway)

	service := NewPaymentService(mockUserRepo, mockTxRepo, mockOrderRepo, mockWithdrawalRepo, mockGateway, testhelpers.NoopEventPublisher{})
	return service, mockUserRepo, mockTxRepo, mockOrderRepo, mockWithdrawalRepo, mockGateway
}

func TestPaymentService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the gateway order", func(t *testing.T) {
		service, userRepo, _, orderRepo, _, gateway := createTestPaymentService()

		userRepo.On("GetByUID", ctx, "user-1").Return(&entities.User{UID: "user-1"}, nil)
		orderRepo.On("Create", ctx, mock.MatchedBy(func(o *entities.PaymentOrder) bool {
			return o.OrderID == "order_abc" && o.Amount == 5000 && o.Currency == "INR" &&
				o.Status == entities.PaymentOrderStatusCreated
		})).Return(nil)

		order, err := service.CreateOrder(ctx, "user-1", 5000, "order_abc")
		assert.NoError(t, err)
		assert.Equal(t, "order_abc", order.OrderID)
		// the gateway round trip is the caller's job, before the transaction
		gateway.AssertNotCalled(t, "CreateOrder", ctx, mock.Anything, mock.Anything)
		orderRepo.AssertExpectations(t)
	})

	t.Run("rejects amounts below the recharge floor", func(t *testing.T) {
		service, _, _, orderRepo, _, _ := createTestPaymentService()

		_, err := service.CreateOrder(ctx, "user-1", 999, "order_abc")
		assert.ErrorIs(t, err, entities.ErrAmountTooLow)
		orderRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		service, userRepo, _, _, _, _ := createTestPaymentService()
		userRepo.On("GetByUID", ctx, "ghost").Return(nil, nil)

		_, err := service.CreateOrder(ctx, "ghost", 5000, "order_abc")
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})
}

func TestPaymentService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	createdOrder := func() *entities.PaymentOrder {
		return &entities.PaymentOrder{
			OrderID:  "order_abc",
			UserID:   "user-1",
			Amount:   5000,
			Currency: "INR",
			Status:   entities.PaymentOrderStatusCreated,
		}
	}

	t.Run("verified payment credits the wallet", func(t *testing.T) {
		service, userRepo, txRepo, orderRepo, _, gateway := createTestPaymentService()

		orderRepo.On("GetForUpdate", ctx, "order_abc").Return(createdOrder(), nil)
		gateway.On("VerifySignature", "order_abc", "pay_1", "good-sig").Return(true)
		orderRepo.On("MarkPaid", ctx, "order_abc", "pay_1").Return(nil)
		userRepo.On("Credit", ctx, "user-1", int64(5000)).Return(int64(5010), nil)
		txRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
			return tx.Type == entities.TransactionTypeCredit && tx.Amount == 5000 &&
				tx.Reference == "payment:order_abc"
		})).Return(nil)

		order, err := service.ConfirmPayment(ctx, "order_abc", "pay_1", "good-sig")
		assert.NoError(t, err)
		assert.Equal(t, entities.PaymentOrderStatusPaid, order.Status)
		assert.Equal(t, "pay_1", *order.PaymentID)
		userRepo.AssertExpectations(t)
	})

	t.Run("forged signature rejected without touching anything", func(t *testing.T) {
		service, userRepo, txRepo, orderRepo, _, gateway := createTestPaymentService()

		orderRepo.On("GetForUpdate", ctx, "order_abc").Return(createdOrder(), nil)
		gateway.On("VerifySignature", "order_abc", "pay_1", "forged").Return(false)

		_, err := service.ConfirmPayment(ctx, "order_abc", "pay_1", "forged")
		assert.ErrorIs(t, err, entities.ErrInvalidSignature)
		// the order stays untouched so the genuine callback can still land
		orderRepo.AssertNotCalled(t, "MarkPaid", ctx, mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "Credit", ctx, mock.Anything, mock.Anything)
		txRepo.AssertNotCalled(t, "Record", ctx, mock.Anything)
	})

	t.Run("replayed confirmation rejected", func(t *testing.T) {
		service, _, _, orderRepo, _, gateway := createTestPaymentService()
		paid := createdOrder()
		paid.Status = entities.PaymentOrderStatusPaid
		orderRepo.On("GetForUpdate", ctx, "order_abc").Return(paid, nil)

		_, err := service.ConfirmPayment(ctx, "order_abc", "pay_1", "good-sig")
		assert.ErrorIs(t, err, entities.ErrPaymentAlreadyProcessed)
		gateway.AssertNotCalled(t, "VerifySignature", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failure after verification surfaces for reconciliation", func(t *testing.T) {
		service, userRepo, _, orderRepo, _, gateway := createTestPaymentService()

		orderRepo.On("GetForUpdate", ctx, "order_abc").Return(createdOrder(), nil)
		gateway.On("VerifySignature", "order_abc", "pay_1", "good-sig").Return(true)
		orderRepo.On("MarkPaid", ctx, "order_abc", "pay_1").Return(nil)
		userRepo.On("Credit", ctx, "user-1", int64(5000)).Return(int64(0), errors.New("connection reset"))

		_, err := service.ConfirmPayment(ctx, "order_abc", "pay_1", "good-sig")
		var pvErr *entities.PostVerificationError
		assert.ErrorAs(t, err, &pvErr)
		assert.Equal(t, "order_abc", pvErr.OrderID)
		assert.Equal(t, "pay_1", pvErr.PaymentID)
	})

	t.Run("unknown order", func(t *testing.T) {
		service, _, _, orderRepo, _, _ := createTestPaymentService()
		orderRepo.On("GetForUpdate", ctx, "missing").Return(nil, nil)

		_, err := service.ConfirmPayment(ctx, "missing", "pay_1", "sig")
		assert.Error(t, err)
	})
}

func TestPaymentService_CreateWithdrawal(t *testing.T) {
	ctx := context.Background()

	bank := entities.BankDetails{
		AccountNumber:     "1234567890",
		IFSCCode:          "HDFC0001234",
		AccountHolderName: "Test User",
	}

	t.Run("escrows the amount and records a pending entry", func(t *testing.T) {
		service, userRepo, txRepo, _, withdrawalRepo, _ := createTestPaymentService()

		userRepo.On("GetByUID", ctx, "user-1").Return(&entities.User{UID: "user-1", WalletBalance: 500}, nil)
		userRepo.On("Debit", ctx, "user-1", int64(200)).Return(int64(300), nil)
		withdrawalRepo.On("Create", ctx, mock.MatchedBy(func(w *entities.WithdrawalRequest) bool {
			return w.UserID == "user-1" && w.Amount == 200 && w.Status == entities.WithdrawalStatusPending
		})).Return(nil)
		txRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
			return tx.Type == entities.TransactionTypeDebit && tx.Amount == 200 &&
				tx.Status == entities.TransactionStatusPending
		})).Return(nil)

		withdrawal, err := service.CreateWithdrawal(ctx, "user-1", 200, bank)
		assert.NoError(t, err)
		assert.Equal(t, entities.WithdrawalStatusPending, withdrawal.Status)
		userRepo.AssertExpectations(t)
		txRepo.AssertExpectations(t)
	})

	t.Run("rejects amounts below the withdrawal floor", func(t *testing.T) {
		service, userRepo, _, _, _, _ := createTestPaymentService()

		_, err := service.CreateWithdrawal(ctx, "user-1", 99, bank)
		assert.ErrorIs(t, err, entities.ErrBelowMinimumWithdrawal)
		userRepo.AssertNotCalled(t, "Debit", ctx, mock.Anything, mock.Anything)
	})

	t.Run("incomplete bank details rejected", func(t *testing.T) {
		service, _, _, _, _, _ := createTestPaymentService()

		_, err := service.CreateWithdrawal(ctx, "user-1", 200, entities.BankDetails{AccountHolderName: "Test User"})
		assert.ErrorIs(t, err, entities.ErrMissingBankDetails)
	})

	t.Run("insufficient balance aborts the request", func(t *testing.T) {
		service, userRepo, _, _, withdrawalRepo, _ := createTestPaymentService()

		userRepo.On("GetByUID", ctx, "user-1").Return(&entities.User{UID: "user-1", WalletBalance: 50}, nil)
		userRepo.On("Debit", ctx, "user-1", int64(200)).Return(int64(0), entities.ErrInsufficientFunds)

		_, err := service.CreateWithdrawal(ctx, "user-1", 200, bank)
		assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
		withdrawalRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})
}
