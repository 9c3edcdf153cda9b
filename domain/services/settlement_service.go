package services

import (
	"context"
	"fmt"
	"time"

	"quizclash/domain/entities"
	"quizclash/domain/events"
	"quizclash/domain/interfaces"
	"quizclash/domain/utils"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	userRepo       interfaces.UserRepository
	gameRepo       interfaces.GameRepository
	txRepo         interfaces.TransactionRepository
	earningsRepo   interfaces.PlatformEarningsRepository
	eventPublisher interfaces.EventPublisher
}

// NewSettlementService creates a new settlement service
func NewSettlementService(userRepo interfaces.UserRepository, gameRepo interfaces.GameRepository, txRepo interfaces.TransactionRepository, earningsRepo interfaces.PlatformEarningsRepository, eventPublisher interfaces.EventPublisher) interfaces.SettlementService {
	return &settlementService{
		userRepo:       userRepo,
		gameRepo:       gameRepo,
		txRepo:         txRepo,
		earningsRepo:   earningsRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *settlementService) Settle(ctx context.Context, gameID string) (*entities.GameRoom, error) {
	game, err := s.gameRepo.GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, entities.ErrGameNotFound
	}
	if game.Status == entities.GameStatusFinished {
		return nil, entities.ErrAlreadySettled
	}
	if game.Status != entities.GameStatusPlaying {
		return nil, fmt.Errorf("game %s cannot settle from status %s", gameID, game.Status)
	}

	winner := game.DetermineWinner()
	if winner == nil {
		return nil, fmt.Errorf("game %s has no players to settle", gameID)
	}
	payout := game.WinnerPayout()
	commission := game.Commission()

	newBalance, err := s.userRepo.Credit(ctx, winner.UserID, payout)
	if err != nil {
		return nil, fmt.Errorf("failed to credit winner: %w", err)
	}
	if err := utils.RecordWalletChange(ctx, s.txRepo, s.eventPublisher, &entities.Transaction{
		UserID:      winner.UserID,
		Type:        entities.TransactionTypeCredit,
		Amount:      payout,
		Description: fmt.Sprintf("Winnings from %s game", game.Kind),
		Reference:   "game:" + game.ID,
		Status:      entities.TransactionStatusCompleted,
	}, newBalance); err != nil {
		return nil, err
	}

	day := time.Now().UTC().Truncate(24 * time.Hour)
	if err := s.earningsRepo.AddCommission(ctx, day, game.Kind, commission); err != nil {
		return nil, fmt.Errorf("failed to record commission: %w", err)
	}

	for _, p := range game.Players {
		if err := s.userRepo.IncrementStats(ctx, p.UserID, p.UserID == winner.UserID); err != nil {
			return nil, fmt.Errorf("failed to update stats for %s: %w", p.UserID, err)
		}
	}

	now := time.Now()
	oldStatus := game.Status
	game.Status = entities.GameStatusFinished
	game.WinnerID = &winner.UserID
	game.FinishedAt = &now
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to finish game: %w", err)
	}

	if err := s.eventPublisher.Publish(events.GameSettledEvent{
		GameID:     game.ID,
		Kind:       game.Kind,
		WinnerID:   winner.UserID,
		PrizePool:  game.PrizePool,
		Payout:     payout,
		Commission: commission,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish settlement event: %w", err)
	}
	if err := s.eventPublisher.Publish(events.GameStateChangeEvent{
		GameID:   game.ID,
		Kind:     game.Kind,
		OldState: string(oldStatus),
		NewState: string(game.Status),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish finish event: %w", err)
	}

	log.WithFields(log.Fields{
		"gameID":     game.ID,
		"winner":     winner.UserID,
		"payout":     payout,
		"commission": commission,
	}).Info("Game settled")
	return game, nil
}
