package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"quizclash/domain/entities"
	"quizclash/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// OpenTDBClient implements the TriviaClient interface against the Open
// Trivia Database API
type OpenTDBClient struct {
	baseURL string
	http    *http.Client
}

// NewOpenTDBClient creates a new trivia client
func NewOpenTDBClient(baseURL string) interfaces.TriviaClient {
	return &OpenTDBClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type triviaResponse struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Category         string   `json:"category"`
		Difficulty       string   `json:"difficulty"`
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

// FetchQuestions retrieves multiple-choice questions. The API is asked for
// RFC 3986 encoding so HTML entities never leak into question text.
func (c *OpenTDBClient) FetchQuestions(ctx context.Context, count int) ([]entities.Question, error) {
	reqURL := fmt.Sprintf("%s?amount=%d&type=multiple&encode=url3986", c.baseURL, count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build trivia request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("Trivia request failed")
		return nil, entities.ErrContentUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("Trivia source returned non-200")
		return nil, entities.ErrContentUnavailable
	}

	// A garbled body is treated the same as the source being down: the
	// caller can still fall back to the local pool
	var payload triviaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.WithError(err).Warn("Trivia response unreadable")
		return nil, entities.ErrContentUnavailable
	}
	if payload.ResponseCode != 0 || len(payload.Results) == 0 {
		log.WithField("responseCode", payload.ResponseCode).Warn("Trivia source has no questions")
		return nil, entities.ErrContentUnavailable
	}

	questions := make([]entities.Question, 0, len(payload.Results))
	for _, result := range payload.Results {
		question, err := decodeResult(result.Question, result.CorrectAnswer, result.IncorrectAnswers)
		if err != nil {
			log.WithError(err).Warn("Trivia response unreadable")
			return nil, entities.ErrContentUnavailable
		}
		question.Category, _ = url.QueryUnescape(result.Category)
		question.Difficulty, _ = url.QueryUnescape(result.Difficulty)
		questions = append(questions, question)
	}
	return questions, nil
}

// decodeResult unescapes one API item and shuffles the correct answer into
// a random position among the options
func decodeResult(rawQuestion, rawCorrect string, rawIncorrect []string) (entities.Question, error) {
	text, err := url.QueryUnescape(rawQuestion)
	if err != nil {
		return entities.Question{}, fmt.Errorf("failed to decode question text: %w", err)
	}
	correct, err := url.QueryUnescape(rawCorrect)
	if err != nil {
		return entities.Question{}, fmt.Errorf("failed to decode answer text: %w", err)
	}

	options := make([]string, 0, len(rawIncorrect)+1)
	for _, raw := range rawIncorrect {
		option, err := url.QueryUnescape(raw)
		if err != nil {
			return entities.Question{}, fmt.Errorf("failed to decode option text: %w", err)
		}
		options = append(options, option)
	}

	correctIndex := rand.Intn(len(options) + 1)
	options = append(options, "")
	copy(options[correctIndex+1:], options[correctIndex:])
	options[correctIndex] = correct

	return entities.Question{
		Question: text,
		Options:  options,
		Correct:  correctIndex,
	}, nil
}
