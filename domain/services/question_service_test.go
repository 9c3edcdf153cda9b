package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"quizclash/config"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"
	"quizclash/domain/testhelpers"

	"github.com/stretchr/testify/assert"
)

func createTestQuestionService() (interfaces.QuestionService, *testhelpers.MockTriviaClient, *testhelpers.MockQuestionRepository) {
	config.SetTestConfig(config.NewTestConfig())

	mockTrivia := new(testhelpers.MockTriviaClient)
	mockPool := new(testhelpers.MockQuestionRepository)
	service := NewQuestionService(mockTrivia, mockPool)
	return service, mockTrivia, mockPool
}

func TestQuestionService_QuestionsFor(t *testing.T) {
	ctx := context.Background()

	t.Run("math questions are generated locally", func(t *testing.T) {
		service, trivia, pool := createTestQuestionService()

		questions, err := service.QuestionsFor(ctx, entities.GameKindMath)
		assert.NoError(t, err)
		assert.Len(t, questions, 10)
		trivia.AssertNotCalled(t, "FetchQuestions", ctx, 10)
		pool.AssertNotCalled(t, "GetRandom", ctx, 10)
	})

	t.Run("quiz questions come from the trivia source", func(t *testing.T) {
		service, trivia, _ := createTestQuestionService()

		fetched := []entities.Question{
			{Question: "Capital of France?", Options: []string{"Lyon", "Paris", "Nice", "Lille"}, Correct: 1},
		}
		trivia.On("FetchQuestions", ctx, 10).Return(fetched, nil)

		questions, err := service.QuestionsFor(ctx, entities.GameKindQuiz)
		assert.NoError(t, err)
		assert.Len(t, questions, 1)
		assert.Equal(t, 20, questions[0].TimeLimit)
	})

	t.Run("trivia outage falls back to the pool", func(t *testing.T) {
		service, trivia, pool := createTestQuestionService()

		pooled := make([]entities.Question, 10)
		for i := range pooled {
			pooled[i] = entities.Question{
				Question: strconv.Itoa(i),
				Options:  []string{"a", "b", "c", "d"},
				Correct:  0,
			}
		}
		pooled[0].TimeLimit = 12
		trivia.On("FetchQuestions", ctx, 10).Return(nil, entities.ErrContentUnavailable)
		pool.On("GetRandom", ctx, 10).Return(pooled, nil)

		questions, err := service.QuestionsFor(ctx, entities.GameKindQuiz)
		assert.NoError(t, err)
		assert.Len(t, questions, 10)
		// a stored per-question limit survives, the rest take the kind's
		assert.Equal(t, 12, questions[0].TimeLimit)
		assert.Equal(t, 20, questions[1].TimeLimit)
	})

	t.Run("other trivia errors are not masked by the fallback", func(t *testing.T) {
		service, trivia, pool := createTestQuestionService()

		trivia.On("FetchQuestions", ctx, 10).Return(nil, errors.New("malformed payload"))

		_, err := service.QuestionsFor(ctx, entities.GameKindQuiz)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrContentUnavailable)
		pool.AssertNotCalled(t, "GetRandom", ctx, 10)
	})

	t.Run("question kind draws from the pool", func(t *testing.T) {
		service, trivia, pool := createTestQuestionService()

		pool.On("GetRandom", ctx, 5).Return([]entities.Question{
			{Question: "Q1", Options: []string{"a", "b", "c", "d"}, Correct: 0},
			{Question: "Q2", Options: []string{"a", "b", "c", "d"}, Correct: 2},
			{Question: "Q3", Options: []string{"a", "b", "c", "d"}, Correct: 1},
			{Question: "Q4", Options: []string{"a", "b", "c", "d"}, Correct: 3},
			{Question: "Q5", Options: []string{"a", "b", "c", "d"}, Correct: 0},
		}, nil)

		questions, err := service.QuestionsFor(ctx, entities.GameKindQuestion)
		assert.NoError(t, err)
		assert.Len(t, questions, 5)
		assert.Equal(t, 15, questions[0].TimeLimit)
		trivia.AssertNotCalled(t, "FetchQuestions", ctx, 5)
	})

	t.Run("empty pool is a content outage", func(t *testing.T) {
		service, _, pool := createTestQuestionService()

		pool.On("GetRandom", ctx, 5).Return([]entities.Question{}, nil)

		_, err := service.QuestionsFor(ctx, entities.GameKindQuestion)
		assert.ErrorIs(t, err, entities.ErrContentUnavailable)
	})

	t.Run("short pool is a content outage", func(t *testing.T) {
		service, _, pool := createTestQuestionService()

		// 3 rows cannot fill a 5-question room
		pool.On("GetRandom", ctx, 5).Return([]entities.Question{
			{Question: "Q1", Options: []string{"a", "b", "c", "d"}, Correct: 0},
			{Question: "Q2", Options: []string{"a", "b", "c", "d"}, Correct: 1},
			{Question: "Q3", Options: []string{"a", "b", "c", "d"}, Correct: 2},
		}, nil)

		_, err := service.QuestionsFor(ctx, entities.GameKindQuestion)
		assert.ErrorIs(t, err, entities.ErrContentUnavailable)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		service, _, _ := createTestQuestionService()
		_, err := service.QuestionsFor(ctx, entities.GameKind("chess"))
		assert.Error(t, err)
	})
}

func TestGenerateMathQuestions(t *testing.T) {
	questions := generateMathQuestions(50)
	assert.Len(t, questions, 50)

	for _, q := range questions {
		assert.Len(t, q.Options, 4, "question %q", q.Question)
		assert.Equal(t, 15, q.TimeLimit)
		assert.GreaterOrEqual(t, q.Correct, 0)
		assert.Less(t, q.Correct, 4)

		// options are distinct non-negative integers
		seen := map[string]bool{}
		for _, opt := range q.Options {
			assert.False(t, seen[opt], "duplicate option %s in %q", opt, q.Question)
			seen[opt] = true
			value, err := strconv.Atoi(opt)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, value, 0, "negative option in %q", q.Question)
		}
	}
}
