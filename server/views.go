package server

import (
	"time"

	"quizclash/domain/entities"
)

// questionView is the client-facing shape of a question. The correct
// option index never leaves the server while a room is live.
type questionView struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Category   string   `json:"category,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	TimeLimit  int      `json:"timeLimit"`
}

type playerView struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Answered bool   `json:"answered"`
}

type gameView struct {
	ID                string        `json:"id"`
	Kind              string        `json:"kind"`
	Status            string        `json:"status"`
	HostID            string        `json:"hostId"`
	EntryFee          int64         `json:"entryFee"`
	MaxPlayers        int           `json:"maxPlayers"`
	PrizePool         int64         `json:"prizePool"`
	QuestionCount     int           `json:"questionCount"`
	CurrentQuestion   int           `json:"currentQuestion"`
	Question          *questionView `json:"question,omitempty"`
	QuestionStartedAt *time.Time    `json:"questionStartedAt,omitempty"`
	Players           []playerView  `json:"players"`
	WinnerID          *string       `json:"winnerId,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	StartedAt         *time.Time    `json:"startedAt,omitempty"`
	FinishedAt        *time.Time    `json:"finishedAt,omitempty"`
}

func toGameView(game *entities.GameRoom) gameView {
	view := gameView{
		ID:                game.ID,
		Kind:              string(game.Kind),
		Status:            string(game.Status),
		HostID:            game.HostID,
		EntryFee:          game.EntryFee,
		MaxPlayers:        game.MaxPlayers,
		PrizePool:         game.PrizePool,
		QuestionCount:     len(game.Questions),
		CurrentQuestion:   game.CurrentQuestion,
		QuestionStartedAt: game.QuestionStartedAt,
		WinnerID:          game.WinnerID,
		CreatedAt:         game.CreatedAt,
		StartedAt:         game.StartedAt,
		FinishedAt:        game.FinishedAt,
	}

	for _, p := range game.Players {
		view.Players = append(view.Players, playerView{
			UserID:   p.UserID,
			Name:     p.Name,
			Score:    p.Score,
			Answered: p.HasAnswered(game.CurrentQuestion),
		})
	}

	if game.Status == entities.GameStatusPlaying && game.CurrentQuestion < len(game.Questions) {
		q := game.Questions[game.CurrentQuestion]
		view.Question = &questionView{
			Question:   q.Question,
			Options:    q.Options,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			TimeLimit:  q.TimeLimit,
		}
	}
	return view
}

func toGameViews(games []*entities.GameRoom) []gameView {
	views := make([]gameView, 0, len(games))
	for _, game := range games {
		views = append(views, toGameView(game))
	}
	return views
}
