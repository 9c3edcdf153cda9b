package repository

import (
	"context"
	"testing"
	"time"

	"quizclash/domain/entities"
	"quizclash/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_RoundTrip(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	host := createTestUser(t, testDB.DB, 100)
	game := createTestGame(t, testDB.DB, host, entities.GameKindMath)

	t.Run("question snapshot survives the round trip", func(t *testing.T) {
		found, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		require.NotNil(t, found)

		assert.Equal(t, game.Kind, found.Kind)
		assert.Equal(t, game.EntryFee, found.EntryFee)
		require.Len(t, found.Questions, 2)
		assert.Equal(t, "2 + 2 = ?", found.Questions[0].Question)
		assert.Equal(t, 1, found.Questions[0].Correct)
		assert.Equal(t, 10, found.Questions[0].TimeLimit)
	})

	t.Run("unknown id returns nil without error", func(t *testing.T) {
		found, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGameRepository_Players(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	host := createTestUser(t, testDB.DB, 100)
	game := createTestGame(t, testDB.DB, host, entities.GameKindMath)

	t.Run("players come back in join order", func(t *testing.T) {
		second := createTestUser(t, testDB.DB, 100)
		third := createTestUser(t, testDB.DB, 100)
		for _, u := range []*entities.User{second, third} {
			require.NoError(t, repo.AddPlayer(ctx, game.ID, &entities.GamePlayer{
				UserID:  u.UID,
				Name:    u.Name,
				Answers: []int{},
			}))
		}

		found, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		require.Len(t, found.Players, 3)
		assert.Equal(t, host.UID, found.Players[0].UserID)
		assert.Equal(t, second.UID, found.Players[1].UserID)
		assert.Equal(t, third.UID, found.Players[2].UserID)
	})

	t.Run("duplicate membership maps to the domain error", func(t *testing.T) {
		err := repo.AddPlayer(ctx, game.ID, &entities.GamePlayer{
			UserID:  host.UID,
			Name:    host.Name,
			Answers: []int{},
		})
		assert.ErrorIs(t, err, entities.ErrAlreadyJoined)
	})

	t.Run("player answers and score persist", func(t *testing.T) {
		found, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		player := found.Players[1]
		player.Answers = []int{1, entities.NoAnswerSentinel}
		player.Score = 17
		require.NoError(t, repo.UpdatePlayer(ctx, game.ID, player))

		reloaded, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{1, entities.NoAnswerSentinel}, reloaded.Players[1].Answers)
		assert.Equal(t, 17, reloaded.Players[1].Score)
	})

	t.Run("updating an absent player errors", func(t *testing.T) {
		err := repo.UpdatePlayer(ctx, game.ID, &entities.GamePlayer{UserID: "no-such-user", Answers: []int{}})
		assert.Error(t, err)
	})
}

func TestGameRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	host := createTestUser(t, testDB.DB, 100)

	t.Run("lifecycle fields persist", func(t *testing.T) {
		game := createTestGame(t, testDB.DB, host, entities.GameKindMath)
		now := time.Now().UTC()
		game.Status = entities.GameStatusPlaying
		game.CurrentQuestion = 1
		game.QuestionStartedAt = &now
		game.StartedAt = &now
		game.PrizePool = 20
		require.NoError(t, repo.Update(ctx, game))

		found, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.GameStatusPlaying, found.Status)
		assert.Equal(t, 1, found.CurrentQuestion)
		assert.Equal(t, int64(20), found.PrizePool)
		assert.NotNil(t, found.QuestionStartedAt)
	})

	t.Run("unknown game", func(t *testing.T) {
		err := repo.Update(ctx, &entities.GameRoom{ID: "00000000-0000-0000-0000-000000000000"})
		assert.ErrorIs(t, err, entities.ErrGameNotFound)
	})
}

func TestGameRepository_ListOpen(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	host := createTestUser(t, testDB.DB, 1000)

	waiting := createTestGame(t, testDB.DB, host, entities.GameKindMath)
	started := createTestGame(t, testDB.DB, host, entities.GameKindMath)
	started.Status = entities.GameStatusPlaying
	require.NoError(t, repo.Update(ctx, started))
	otherKind := createTestGame(t, testDB.DB, host, entities.GameKindQuiz)

	t.Run("only waiting rooms of the kind", func(t *testing.T) {
		games, err := repo.ListOpen(ctx, entities.GameKindMath)
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, waiting.ID, games[0].ID)
		assert.Len(t, games[0].Players, 1)
	})

	t.Run("full rooms excluded", func(t *testing.T) {
		games, err := repo.ListOpen(ctx, entities.GameKindQuiz)
		require.NoError(t, err)
		require.Len(t, games, 1)

		// fill the quiz room to capacity
		for i := 0; i < otherKind.MaxPlayers-1; i++ {
			u := createTestUser(t, testDB.DB, 100)
			require.NoError(t, repo.AddPlayer(ctx, otherKind.ID, &entities.GamePlayer{
				UserID:  u.UID,
				Name:    u.Name,
				Answers: []int{},
			}))
		}

		games, err = repo.ListOpen(ctx, entities.GameKindQuiz)
		require.NoError(t, err)
		assert.Empty(t, games)
	})
}

func TestGameRepository_ListExpiredQuestions(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	host := createTestUser(t, testDB.DB, 1000)

	startPlaying := func(game *entities.GameRoom, startedAt time.Time) {
		game.Status = entities.GameStatusPlaying
		game.QuestionStartedAt = &startedAt
		require.NoError(t, repo.Update(ctx, game))
	}

	// math questions carry a 15 second limit, quiz 20; both get 1 second of grace
	expired := createTestGame(t, testDB.DB, host, entities.GameKindMath)
	startPlaying(expired, time.Now().Add(-20*time.Second))

	fresh := createTestGame(t, testDB.DB, host, entities.GameKindMath)
	startPlaying(fresh, time.Now().Add(-5*time.Second))

	quizStillOpen := createTestGame(t, testDB.DB, host, entities.GameKindQuiz)
	startPlaying(quizStillOpen, time.Now().Add(-18*time.Second))

	stillWaiting := createTestGame(t, testDB.DB, host, entities.GameKindMath)
	_ = stillWaiting

	ids, err := repo.ListExpiredQuestions(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{expired.ID}, ids)
}
