package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"quizclash/database"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"
)

// QuestionRepository implements the QuestionRepository interface over the
// seeded question pool
type QuestionRepository struct {
	q Queryable
}

// NewQuestionRepository creates a new question repository over the pool
func NewQuestionRepository(db *database.DB) *QuestionRepository {
	return &QuestionRepository{q: db.Pool}
}

func newQuestionRepository(tx Queryable) interfaces.QuestionRepository {
	return &QuestionRepository{q: tx}
}

// GetRandom returns up to count random questions. The pool is small, so
// ORDER BY random() is fine here.
func (r *QuestionRepository) GetRandom(ctx context.Context, count int) ([]entities.Question, error) {
	query := `
		SELECT question, options, correct, category, difficulty, time_limit
		FROM questions
		ORDER BY random()
		LIMIT $1
	`
	rows, err := r.q.Query(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.Question
	for rows.Next() {
		var q entities.Question
		var options []byte
		if err := rows.Scan(&q.Question, &options, &q.Correct, &q.Category, &q.Difficulty, &q.TimeLimit); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
