package repository

import (
	"context"
	"fmt"
	"testing"

	"quizclash/database"
	"quizclash/domain/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testUserSeq int

// createTestUser inserts a funded account and returns it
func createTestUser(t *testing.T, db *database.DB, balance int64) *entities.User {
	t.Helper()
	testUserSeq++
	user := &entities.User{
		UID:           fmt.Sprintf("test-user-%d", testUserSeq),
		Name:          fmt.Sprintf("Test User %d", testUserSeq),
		WalletBalance: balance,
		ReferralCode:  fmt.Sprintf("TESTREF%d", testUserSeq),
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

// createTestGame inserts a waiting room hosted by the given user
func createTestGame(t *testing.T, db *database.DB, host *entities.User, kind entities.GameKind) *entities.GameRoom {
	t.Helper()
	game := &entities.GameRoom{
		ID:         uuid.New().String(),
		Kind:       kind,
		HostID:     host.UID,
		EntryFee:   kind.DefaultEntryFee(),
		MaxPlayers: kind.DefaultMaxPlayers(),
		Questions: []entities.Question{
			{Question: "2 + 2 = ?", Options: []string{"3", "4", "5", "6"}, Correct: 1, TimeLimit: kind.TimeLimit()},
			{Question: "3 + 3 = ?", Options: []string{"5", "6", "7", "8"}, Correct: 1, TimeLimit: kind.TimeLimit()},
		},
		Status:    entities.GameStatusWaiting,
		PrizePool: kind.DefaultEntryFee(),
	}
	repo := NewGameRepository(db)
	require.NoError(t, repo.Create(context.Background(), game))
	require.NoError(t, repo.AddPlayer(context.Background(), game.ID, &entities.GamePlayer{
		UserID:  host.UID,
		Name:    host.Name,
		Answers: []int{},
	}))
	return game
}
