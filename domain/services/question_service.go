package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"quizclash/domain/entities"
	"quizclash/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type questionService struct {
	trivia interfaces.TriviaClient
	pool   interfaces.QuestionRepository
}

// NewQuestionService creates a question service backed by the external
// trivia source and the seeded question pool
func NewQuestionService(trivia interfaces.TriviaClient, pool interfaces.QuestionRepository) interfaces.QuestionService {
	return &questionService{trivia: trivia, pool: pool}
}

func (s *questionService) QuestionsFor(ctx context.Context, kind entities.GameKind) ([]entities.Question, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown game kind %q", kind)
	}
	count := kind.QuestionCount()

	switch kind {
	case entities.GameKindMath:
		return generateMathQuestions(count), nil
	case entities.GameKindQuiz:
		questions, err := s.trivia.FetchQuestions(ctx, count)
		if err == nil {
			for i := range questions {
				questions[i].TimeLimit = kind.TimeLimit()
			}
			return questions, nil
		}
		if !errors.Is(err, entities.ErrContentUnavailable) {
			return nil, fmt.Errorf("failed to fetch trivia questions: %w", err)
		}
		// Trivia source down: fall back to the seeded pool so rooms can
		// still be created
		log.WithError(err).Warn("Trivia source unavailable, using question pool")
		return s.fromPool(ctx, kind, count)
	default:
		return s.fromPool(ctx, kind, count)
	}
}

func (s *questionService) fromPool(ctx context.Context, kind entities.GameKind, count int) ([]entities.Question, error) {
	questions, err := s.pool.GetRandom(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}
	// A partial set would change the room's question count mid-flight, so a
	// short pool counts as unavailable
	if len(questions) < count {
		return nil, entities.ErrContentUnavailable
	}
	for i := range questions {
		if questions[i].TimeLimit <= 0 {
			questions[i].TimeLimit = kind.TimeLimit()
		}
	}
	return questions, nil
}

type mathOp struct {
	symbol string
	apply  func(a, b int) int
}

var mathOps = []mathOp{
	{"+", func(a, b int) int { return a + b }},
	{"-", func(a, b int) int { return a - b }},
	{"×", func(a, b int) int { return a * b }},
}

// generateMathQuestions builds arithmetic questions with four answer
// options. Operand ranges keep every result a small non-negative integer:
// addition uses 1-50, subtraction keeps the minuend above the subtrahend,
// multiplication stays within the times tables.
func generateMathQuestions(count int) []entities.Question {
	questions := make([]entities.Question, 0, count)
	for i := 0; i < count; i++ {
		op := mathOps[rand.Intn(len(mathOps))]
		var a, b int
		switch op.symbol {
		case "+":
			a = rand.Intn(50) + 1
			b = rand.Intn(50) + 1
		case "-":
			a = rand.Intn(50) + 25
			b = rand.Intn(25) + 1
		default:
			a = rand.Intn(12) + 1
			b = rand.Intn(12) + 1
		}
		answer := op.apply(a, b)
		options, correct := mathOptions(answer)
		questions = append(questions, entities.Question{
			Question:   fmt.Sprintf("%d %s %d = ?", a, op.symbol, b),
			Options:    options,
			Correct:    correct,
			Category:   "Mathematics",
			Difficulty: "medium",
			TimeLimit:  entities.GameKindMath.TimeLimit(),
		})
	}
	return questions
}

// mathOptions returns four distinct options including the answer, with
// the answer at a random position
func mathOptions(answer int) ([]string, int) {
	seen := map[int]bool{answer: true}
	values := []int{answer}
	for len(values) < 4 {
		offset := rand.Intn(10) + 1
		if rand.Intn(2) == 0 {
			offset = -offset
		}
		distractor := answer + offset
		if distractor < 0 || seen[distractor] {
			continue
		}
		seen[distractor] = true
		values = append(values, distractor)
	}
	rand.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	options := make([]string, len(values))
	correct := 0
	for i, v := range values {
		options[i] = fmt.Sprintf("%d", v)
		if v == answer {
			correct = i
		}
	}
	return options, correct
}
