package services

import (
	"context"
	"fmt"

	"quizclash/config"
	"quizclash/domain/entities"
	"quizclash/domain/events"
	"quizclash/domain/interfaces"
	"quizclash/domain/utils"

	log "github.com/sirupsen/logrus"
)

type paymentService struct {
	userRepo       interfaces.UserRepository
	txRepo         interfaces.TransactionRepository
	orderRepo      interfaces.PaymentOrderRepository
	withdrawalRepo interfaces.WithdrawalRepository
	gateway        interfaces.PaymentGateway
	eventPublisher interfaces.EventPublisher
}

// NewPaymentService creates a new payment service
func NewPaymentService(userRepo interfaces.UserRepository, txRepo interfaces.TransactionRepository, orderRepo interfaces.PaymentOrderRepository, withdrawalRepo interfaces.WithdrawalRepository, gateway interfaces.PaymentGateway, eventPublisher interfaces.EventPublisher) interfaces.PaymentService {
	return &paymentService{
		userRepo:       userRepo,
		txRepo:         txRepo,
		orderRepo:      orderRepo,
		withdrawalRepo: withdrawalRepo,
		gateway:        gateway,
		eventPublisher: eventPublisher,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, uid string, amount int64, gatewayOrderID string) (*entities.PaymentOrder, error) {
	cfg := config.Get()
	if amount < cfg.MinRechargeAmount {
		return nil, entities.ErrAmountTooLow
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, entities.ErrUserNotFound
	}

	order := &entities.PaymentOrder{
		OrderID:  gatewayOrderID,
		UserID:   uid,
		Amount:   amount,
		Currency: "INR",
		Status:   entities.PaymentOrderStatusCreated,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist payment order: %w", err)
	}

	log.WithFields(log.Fields{
		"orderID": gatewayOrderID,
		"userID":  uid,
		"amount":  amount,
	}).Info("Payment order created")
	return order, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, orderID, paymentID, signature string) (*entities.PaymentOrder, error) {
	order, err := s.orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("payment order %s not found", orderID)
	}
	if order.IsPaid() {
		return nil, entities.ErrPaymentAlreadyProcessed
	}

	// A forged signature rejects the request without touching the order:
	// the real payment for this order may still arrive later
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		log.WithFields(log.Fields{
			"orderID":   orderID,
			"paymentID": paymentID,
		}).Warn("Payment signature rejected")
		return nil, entities.ErrInvalidSignature
	}

	// The gateway has already captured the money at this point. Failures
	// below must surface with enough context for manual reconciliation
	// rather than looking like an ordinary rejection.
	if err := s.orderRepo.MarkPaid(ctx, orderID, paymentID); err != nil {
		return nil, &entities.PostVerificationError{OrderID: orderID, PaymentID: paymentID, Err: err}
	}
	newBalance, err := s.userRepo.Credit(ctx, order.UserID, order.Amount)
	if err != nil {
		return nil, &entities.PostVerificationError{OrderID: orderID, PaymentID: paymentID, Err: err}
	}
	if err := utils.RecordWalletChange(ctx, s.txRepo, s.eventPublisher, &entities.Transaction{
		UserID:      order.UserID,
		Type:        entities.TransactionTypeCredit,
		Amount:      order.Amount,
		Description: "Wallet recharge",
		Reference:   "payment:" + orderID,
		Status:      entities.TransactionStatusCompleted,
	}, newBalance); err != nil {
		return nil, &entities.PostVerificationError{OrderID: orderID, PaymentID: paymentID, Err: err}
	}

	order.Status = entities.PaymentOrderStatusPaid
	order.PaymentID = &paymentID

	if err := s.eventPublisher.Publish(events.PaymentCapturedEvent{
		OrderID:   orderID,
		PaymentID: paymentID,
		UserID:    order.UserID,
		Amount:    order.Amount,
	}); err != nil {
		return nil, &entities.PostVerificationError{OrderID: orderID, PaymentID: paymentID, Err: err}
	}

	log.WithFields(log.Fields{
		"orderID":   orderID,
		"paymentID": paymentID,
		"userID":    order.UserID,
		"amount":    order.Amount,
	}).Info("Payment captured")
	return order, nil
}

func (s *paymentService) CreateWithdrawal(ctx context.Context, uid string, amount int64, bank entities.BankDetails) (*entities.WithdrawalRequest, error) {
	cfg := config.Get()
	if amount < cfg.MinWithdrawalAmount {
		return nil, entities.ErrBelowMinimumWithdrawal
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, entities.ErrUserNotFound
	}

	// Escrow the amount immediately so the displayed balance never
	// overstates spendable funds while the request awaits approval
	newBalance, err := s.userRepo.Debit(ctx, uid, amount)
	if err != nil {
		return nil, err
	}

	withdrawal := &entities.WithdrawalRequest{
		UserID:      uid,
		Amount:      amount,
		BankDetails: bank,
		Status:      entities.WithdrawalStatusPending,
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	if err := utils.RecordWalletChange(ctx, s.txRepo, s.eventPublisher, &entities.Transaction{
		UserID:      uid,
		Type:        entities.TransactionTypeDebit,
		Amount:      amount,
		Description: "Withdrawal request",
		Reference:   fmt.Sprintf("withdrawal:%d", withdrawal.ID),
		Status:      entities.TransactionStatusPending,
	}, newBalance); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"withdrawalID": withdrawal.ID,
		"userID":       uid,
		"amount":       amount,
	}).Info("Withdrawal requested")
	return withdrawal, nil
}
