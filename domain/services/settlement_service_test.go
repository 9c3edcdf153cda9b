package services

import (
	"context"
	"testing"
	"time"

	"quizclash/config"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"
	"quizclash/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createTestSettlementService() (interfaces.SettlementService, *testhelpers.MockUserRepository, *testhelpers.MockGameRepository, *testhelpers.MockTransactionRepository, *testhelpers.MockPlatformEarningsRepository) {
	config.SetTestConfig(config.NewTestConfig())

	mockUserRepo := new(testhelpers.MockUserRepository)
	mockGameRepo := new(testhelpers.MockGameRepository)
	mockTxRepo := new(testhelpers.MockTransactionRepository)
	mockEarningsRepo := new(testhelpers.MockPlatformEarningsRepository)

	service := NewSettlementService(mockUserRepo, mockGameRepo, mockTxRepo, mockEarningsRepo, testhelpers.NoopEventPublisher{})
	return service, mockUserRepo, mockGameRepo, mockTxRepo, mockEarningsRepo
}

func settleableRoom(kind entities.GameKind, players ...*entities.GamePlayer) *entities.GameRoom {
	return &entities.GameRoom{
		ID:        "game-1",
		Kind:      kind,
		HostID:    players[0].UserID,
		EntryFee:  10,
		Status:    entities.GameStatusPlaying,
		PrizePool: int64(len(players)) * 10,
		Players:   players,
	}
}

func TestSettlementService_Settle(t *testing.T) {
	ctx := context.Background()

	t.Run("pays the top scorer and books the commission", func(t *testing.T) {
		service, userRepo, gameRepo, txRepo, earningsRepo := createTestSettlementService()
		game := settleableRoom(entities.GameKindMath,
			&entities.GamePlayer{UserID: "alice", Score: 45},
			&entities.GamePlayer{UserID: "bob", Score: 62},
		)
		// pool 20, math commission 20% = 4, payout 16
		gameRepo.On("GetByIDForUpdate", ctx, "game-1").Return(game, nil)
		userRepo.On("Credit", ctx, "bob", int64(16)).Return(int64(116), nil)
		txRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
			return tx.UserID == "bob" && tx.Type == entities.TransactionTypeCredit && tx.Amount == 16
		})).Return(nil)
		earningsRepo.On("AddCommission", ctx, mock.AnythingOfType("time.Time"), entities.GameKindMath, int64(4)).Return(nil)
		userRepo.On("IncrementStats", ctx, "alice", false).Return(nil)
		userRepo.On("IncrementStats", ctx, "bob", true).Return(nil)
		gameRepo.On("Update", ctx, game).Return(nil)

		settled, err := service.Settle(ctx, "game-1")
		assert.NoError(t, err)
		assert.Equal(t, entities.GameStatusFinished, settled.Status)
		assert.Equal(t, "bob", *settled.WinnerID)
		assert.NotNil(t, settled.FinishedAt)
		userRepo.AssertExpectations(t)
		earningsRepo.AssertExpectations(t)
	})

	t.Run("commission plus payout always equals the pool", func(t *testing.T) {
		for _, kind := range []entities.GameKind{entities.GameKindMath, entities.GameKindQuiz, entities.GameKindQuestion} {
			for players := 2; players <= 5; players++ {
				game := &entities.GameRoom{Kind: kind, PrizePool: int64(players) * 10}
				assert.Equal(t, game.PrizePool, game.Commission()+game.WinnerPayout(),
					"kind %s with %d players", kind, players)
			}
		}
	})

	t.Run("question kind keeps the lower commission rate", func(t *testing.T) {
		service, userRepo, gameRepo, txRepo, earningsRepo := createTestSettlementService()
		game := settleableRoom(entities.GameKindQuestion,
			&entities.GamePlayer{UserID: "alice", Score: 30},
			&entities.GamePlayer{UserID: "bob", Score: 10},
		)
		// pool 20, question commission 15% = 3, payout 17
		gameRepo.On("GetByIDForUpdate", ctx, "game-1").Return(game, nil)
		userRepo.On("Credit", ctx, "alice", int64(17)).Return(int64(117), nil)
		txRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
		earningsRepo.On("AddCommission", ctx, mock.AnythingOfType("time.Time"), entities.GameKindQuestion, int64(3)).Return(nil)
		userRepo.On("IncrementStats", ctx, mock.Anything, mock.AnythingOfType("bool")).Return(nil)
		gameRepo.On("Update", ctx, game).Return(nil)

		_, err := service.Settle(ctx, "game-1")
		assert.NoError(t, err)
		earningsRepo.AssertExpectations(t)
	})

	t.Run("tie goes to the earlier joiner", func(t *testing.T) {
		service, userRepo, gameRepo, txRepo, earningsRepo := createTestSettlementService()
		game := settleableRoom(entities.GameKindMath,
			&entities.GamePlayer{UserID: "first", Score: 50},
			&entities.GamePlayer{UserID: "second", Score: 50},
		)
		gameRepo.On("GetByIDForUpdate", ctx, "game-1").Return(game, nil)
		userRepo.On("Credit", ctx, "first", int64(16)).Return(int64(16), nil)
		txRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
		earningsRepo.On("AddCommission", ctx, mock.AnythingOfType("time.Time"), entities.GameKindMath, int64(4)).Return(nil)
		userRepo.On("IncrementStats", ctx, "first", true).Return(nil)
		userRepo.On("IncrementStats", ctx, "second", false).Return(nil)
		gameRepo.On("Update", ctx, game).Return(nil)

		settled, err := service.Settle(ctx, "game-1")
		assert.NoError(t, err)
		assert.Equal(t, "first", *settled.WinnerID)
	})

	t.Run("finished game settles at most once", func(t *testing.T) {
		service, userRepo, gameRepo, _, _ := createTestSettlementService()
		game := settleableRoom(entities.GameKindMath, &entities.GamePlayer{UserID: "alice", Score: 50})
		game.Status = entities.GameStatusFinished
		gameRepo.On("GetByIDForUpdate", ctx, "game-1").Return(game, nil)

		_, err := service.Settle(ctx, "game-1")
		assert.ErrorIs(t, err, entities.ErrAlreadySettled)
		userRepo.AssertNotCalled(t, "Credit", ctx, mock.Anything, mock.Anything)
	})

	t.Run("waiting game cannot settle", func(t *testing.T) {
		service, _, gameRepo, _, _ := createTestSettlementService()
		game := settleableRoom(entities.GameKindMath, &entities.GamePlayer{UserID: "alice"})
		game.Status = entities.GameStatusWaiting
		gameRepo.On("GetByIDForUpdate", ctx, "game-1").Return(game, nil)

		_, err := service.Settle(ctx, "game-1")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrAlreadySettled)
	})

	t.Run("missing game", func(t *testing.T) {
		service, _, gameRepo, _, _ := createTestSettlementService()
		gameRepo.On("GetByIDForUpdate", ctx, "missing").Return(nil, nil)

		_, err := service.Settle(ctx, "missing")
		assert.ErrorIs(t, err, entities.ErrGameNotFound)
	})

	t.Run("commission day is normalized to UTC midnight", func(t *testing.T) {
		service, userRepo, gameRepo, txRepo, earningsRepo := createTestSettlementService()
		game := settleableRoom(entities.GameKindMath,
			&entities.GamePlayer{UserID: "alice", Score: 50},
			&entities.GamePlayer{UserID: "bob", Score: 20},
		)
		gameRepo.On("GetByIDForUpdate", ctx, "game-1").Return(game, nil)
		userRepo.On("Credit", ctx, "alice", int64(16)).Return(int64(16), nil)
		txRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
		earningsRepo.On("AddCommission", ctx, mock.MatchedBy(func(day time.Time) bool {
			return day.Equal(day.UTC().Truncate(24*time.Hour))
		}), entities.GameKindMath, int64(4)).Return(nil)
		userRepo.On("IncrementStats", ctx, mock.Anything, mock.AnythingOfType("bool")).Return(nil)
		gameRepo.On("Update", ctx, game).Return(nil)

		_, err := service.Settle(ctx, "game-1")
		assert.NoError(t, err)
		earningsRepo.AssertExpectations(t)
	})
}
