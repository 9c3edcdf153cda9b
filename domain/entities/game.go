package entities

import (
	"fmt"
	"time"
)

// GameKind selects the content source, scoring window and commission rate
// for a room. The three kinds share one state machine.
type GameKind string

const (
	// GameKindMath uses generated arithmetic questions
	GameKindMath GameKind = "math"
	// GameKindQuiz uses externally supplied trivia questions
	GameKindQuiz GameKind = "quiz"
	// GameKindQuestion uses the pre-seeded fixed question pool
	GameKindQuestion GameKind = "question"
)

// BaseScore is awarded for every correct answer regardless of speed
const BaseScore = 10

// NoAnswerSentinel is recorded in a player's answer list when the question
// timed out before they submitted. It is out of range for every option set.
const NoAnswerSentinel = -1

// MinPlayersToStart is the membership at which a waiting room schedules
// its automatic start.
const MinPlayersToStart = 2

// AutoStartDelay is the fixed delay between reaching the minimum viable
// membership and the automatic waiting -> playing transition.
const AutoStartDelay = 3 * time.Second

// Valid reports whether the kind is one of the supported game kinds
func (k GameKind) Valid() bool {
	switch k {
	case GameKindMath, GameKindQuiz, GameKindQuestion:
		return true
	}
	return false
}

// BonusWindow returns the speed-bonus window in seconds for the kind.
// A correct answer earns max(0, window - timeSpent) on top of BaseScore.
func (k GameKind) BonusWindow() int {
	switch k {
	case GameKindMath:
		return 10
	default:
		return 15
	}
}

// TimeLimit returns the answering deadline in seconds for the kind. The
// deadline is longer than the speed-bonus window: a slow answer inside the
// limit still counts, it just earns no bonus.
func (k GameKind) TimeLimit() int {
	switch k {
	case GameKindQuiz:
		return 20
	default:
		return 15
	}
}

// CommissionPercent returns the platform cut taken from the prize pool at
// settlement. The rates are configured per kind, not globally.
func (k GameKind) CommissionPercent() int64 {
	switch k {
	case GameKindQuestion:
		return 15
	default:
		return 20
	}
}

// QuestionCount returns how many questions a room of this kind plays
func (k GameKind) QuestionCount() int {
	if k == GameKindQuestion {
		return 5
	}
	return 10
}

// DefaultEntryFee returns the fixed entry fee for math and quiz rooms.
// Generic question rooms take the fee from the host.
func (k GameKind) DefaultEntryFee() int64 {
	return 10
}

// DefaultMaxPlayers returns the room capacity for math and quiz rooms
func (k GameKind) DefaultMaxPlayers() int {
	if k == GameKindQuestion {
		return 4
	}
	return 10
}

// ScoreAnswer computes the points for one answer: BaseScore plus a speed
// bonus that shrinks by one point per second spent, floored at zero.
// Incorrect or unanswered questions score zero.
func (k GameKind) ScoreAnswer(correct bool, timeSpentSeconds int) int {
	if !correct {
		return 0
	}
	bonus := k.BonusWindow() - timeSpentSeconds
	if bonus < 0 {
		bonus = 0
	}
	return BaseScore + bonus
}

// GameStatus is the lifecycle state of a room
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusStarting GameStatus = "starting"
	GameStatusPlaying  GameStatus = "playing"
	GameStatusFinished GameStatus = "finished"
)

var statusOrder = map[GameStatus]int{
	GameStatusWaiting:  0,
	GameStatusStarting: 1,
	GameStatusPlaying:  2,
	GameStatusFinished: 3,
}

// CanTransitionTo enforces monotonic forward-only lifecycle transitions.
// waiting may jump straight to playing when auto-start fires.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	if to <= from {
		return false
	}
	if to-from > 1 {
		return s == GameStatusWaiting && next == GameStatusPlaying
	}
	return true
}

// GamePlayer is one member of a room. Join order is the player's position
// in the room's player list and is the settlement tie-break.
type GamePlayer struct {
	ID       int64     `db:"id"`
	GameID   string    `db:"game_id"`
	UserID   string    `db:"user_id"`
	Name     string    `db:"name"`
	Score    int       `db:"score"`
	Answers  []int     `db:"answers"` // index-aligned with the question order
	IsReady  bool      `db:"is_ready"`
	JoinedAt time.Time `db:"joined_at"`
}

// HasAnswered reports whether the player already submitted for the index
func (p *GamePlayer) HasAnswered(questionIndex int) bool {
	return len(p.Answers) > questionIndex
}

// GameRoom is one instance of a multiplayer game with its own question
// snapshot, membership and prize pool
type GameRoom struct {
	ID                string     `db:"id"`
	Kind              GameKind   `db:"kind"`
	HostID            string     `db:"host_id"`
	EntryFee          int64      `db:"entry_fee"`
	MaxPlayers        int        `db:"max_players"`
	Questions         []Question `db:"questions"`
	CurrentQuestion   int        `db:"current_question"`
	QuestionStartedAt *time.Time `db:"question_started_at"`
	Status            GameStatus `db:"status"`
	PrizePool         int64      `db:"prize_pool"`
	WinnerID          *string    `db:"winner_id"`
	CreatedAt         time.Time  `db:"created_at"`
	StartedAt         *time.Time `db:"started_at"`
	FinishedAt        *time.Time `db:"finished_at"`

	// Players is ordered by join sequence
	Players []*GamePlayer `db:"-"`
}

// IsFull reports whether the room reached its player capacity
func (g *GameRoom) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// IsJoinable reports whether new members may still enter
func (g *GameRoom) IsJoinable() bool {
	return g.Status == GameStatusWaiting && !g.IsFull()
}

// Player returns the member with the given user id, or nil
func (g *GameRoom) Player(userID string) *GamePlayer {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// HasPlayer reports whether the user id is already a member
func (g *GameRoom) HasPlayer(userID string) bool {
	return g.Player(userID) != nil
}

// AllAnswered reports whether every member has an answer recorded for the
// question index
func (g *GameRoom) AllAnswered(questionIndex int) bool {
	for _, p := range g.Players {
		if !p.HasAnswered(questionIndex) {
			return false
		}
	}
	return len(g.Players) > 0
}

// IsLastQuestion reports whether the index is the final question
func (g *GameRoom) IsLastQuestion(questionIndex int) bool {
	return questionIndex >= len(g.Questions)-1
}

// CurrentQuestionItem returns the question at the current index
func (g *GameRoom) CurrentQuestionItem() (*Question, error) {
	if g.CurrentQuestion < 0 || g.CurrentQuestion >= len(g.Questions) {
		return nil, fmt.Errorf("current question index %d out of range", g.CurrentQuestion)
	}
	return &g.Questions[g.CurrentQuestion], nil
}

// QuestionDeadlineExceeded reports whether the current question's time limit
// elapsed relative to now, with the given grace period added
func (g *GameRoom) QuestionDeadlineExceeded(now time.Time, grace time.Duration) bool {
	if g.Status != GameStatusPlaying || g.QuestionStartedAt == nil {
		return false
	}
	if g.CurrentQuestion >= len(g.Questions) {
		return false
	}
	limit := time.Duration(g.Questions[g.CurrentQuestion].TimeLimit) * time.Second
	return now.After(g.QuestionStartedAt.Add(limit + grace))
}

// DetermineWinner picks the member with the strictly highest score. Ties are
// broken by join order: among equal scores the earliest joined player wins.
// The player list order is the join order, so a single linear scan with a
// strict greater-than comparison is a stable selection.
func (g *GameRoom) DetermineWinner() *GamePlayer {
	var winner *GamePlayer
	for _, p := range g.Players {
		if winner == nil || p.Score > winner.Score {
			winner = p
		}
	}
	return winner
}

// Commission returns the platform cut of the prize pool, truncated toward
// zero by integer division
func (g *GameRoom) Commission() int64 {
	return g.PrizePool * g.Kind.CommissionPercent() / 100
}

// WinnerPayout returns the prize pool minus the platform commission
func (g *GameRoom) WinnerPayout() int64 {
	return g.PrizePool - g.Commission()
}
