package services

import (
	"context"
	"fmt"
	"time"

	"quizclash/config"
	"quizclash/domain/entities"
	"quizclash/domain/events"
	"quizclash/domain/interfaces"
	"quizclash/domain/utils"
)

type userService struct {
	userRepo       interfaces.UserRepository
	txRepo         interfaces.TransactionRepository
	referralRepo   interfaces.ReferralRepository
	eventPublisher interfaces.EventPublisher
}

// NewUserService creates a new user service
func NewUserService(userRepo interfaces.UserRepository, txRepo interfaces.TransactionRepository, referralRepo interfaces.ReferralRepository, eventPublisher interfaces.EventPublisher) interfaces.UserService {
	return &userService{
		userRepo:       userRepo,
		txRepo:         txRepo,
		referralRepo:   referralRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *userService) Register(ctx context.Context, uid string, referralCode string) (*entities.User, error) {
	if uid == "" {
		return nil, fmt.Errorf("uid must not be empty")
	}

	// Registration is idempotent: a repeat call returns the existing account
	existing, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	cfg := config.Get()

	var referrer *entities.User
	if referralCode != "" {
		referrer, err = s.userRepo.GetByReferralCode(ctx, referralCode)
		if err != nil {
			return nil, fmt.Errorf("failed to look up referral code: %w", err)
		}
		if referrer == nil || referrer.UID == uid {
			return nil, entities.ErrInvalidReferralCode
		}
	}

	user := &entities.User{
		UID:           uid,
		WalletBalance: cfg.WelcomeBonus,
		ReferralCode:  utils.GenerateReferralCode(),
	}
	if referrer != nil {
		user.ReferredBy = &referrer.UID
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if cfg.WelcomeBonus > 0 {
		welcome := &entities.Transaction{
			UserID:      uid,
			Type:        entities.TransactionTypeCredit,
			Amount:      cfg.WelcomeBonus,
			Description: "Welcome bonus",
			Reference:   "signup:" + uid,
			Status:      entities.TransactionStatusCompleted,
		}
		if err := utils.RecordWalletChange(ctx, s.txRepo, s.eventPublisher, welcome, user.WalletBalance); err != nil {
			return nil, err
		}
	}

	if err := s.eventPublisher.Publish(events.UserCreatedEvent{
		UserID:       uid,
		Name:         user.Name,
		WelcomeBonus: cfg.WelcomeBonus,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish user created event: %w", err)
	}

	if referrer != nil {
		if err := s.payReferralBonus(ctx, referrer, user, cfg.ReferralBonus); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// payReferralBonus credits both sides of a referral and records the pair.
// The unique constraint on the pair guarantees the bonus is paid at most
// once per signup.
func (s *userService) payReferralBonus(ctx context.Context, referrer, referred *entities.User, bonus int64) error {
	if err := s.referralRepo.Create(ctx, &entities.Referral{
		ReferrerID: referrer.UID,
		ReferredID: referred.UID,
		Bonus:      bonus,
		Status:     "completed",
		CreatedAt:  time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to record referral: %w", err)
	}
	if bonus <= 0 {
		return nil
	}

	referrerBalance, err := s.userRepo.Credit(ctx, referrer.UID, bonus)
	if err != nil {
		return fmt.Errorf("failed to credit referrer: %w", err)
	}
	if err := utils.RecordWalletChange(ctx, s.txRepo, s.eventPublisher, &entities.Transaction{
		UserID:      referrer.UID,
		Type:        entities.TransactionTypeCredit,
		Amount:      bonus,
		Description: "Referral bonus",
		Reference:   "referral:" + referred.UID,
		Status:      entities.TransactionStatusCompleted,
	}, referrerBalance); err != nil {
		return err
	}

	referredBalance, err := s.userRepo.Credit(ctx, referred.UID, bonus)
	if err != nil {
		return fmt.Errorf("failed to credit referred user: %w", err)
	}
	referred.WalletBalance = referredBalance
	return utils.RecordWalletChange(ctx, s.txRepo, s.eventPublisher, &entities.Transaction{
		UserID:      referred.UID,
		Type:        entities.TransactionTypeCredit,
		Amount:      bonus,
		Description: "Referral signup bonus",
		Reference:   "referral:" + referred.UID,
		Status:      entities.TransactionStatusCompleted,
	}, referredBalance)
}

func (s *userService) GetUser(ctx context.Context, uid string) (*entities.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, entities.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetLedger(ctx context.Context, uid string, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.txRepo.GetByUser(ctx, uid, limit)
}
