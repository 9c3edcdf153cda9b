package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizclash/database"
	"quizclash/domain/entities"
	"quizclash/domain/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// GameRepository implements the GameRepository interface
type GameRepository struct {
	q Queryable
}

// NewGameRepository creates a new game repository over the pool
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

func newGameRepository(tx Queryable) interfaces.GameRepository {
	return &GameRepository{q: tx}
}

const gameColumns = `id, kind, host_id, entry_fee, max_players, questions, current_question, question_started_at, status, prize_pool, winner_id, created_at, started_at, finished_at`

// Create persists a new game room with its question snapshot
func (r *GameRepository) Create(ctx context.Context, game *entities.GameRoom) error {
	questions, err := json.Marshal(game.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	query := `
		INSERT INTO games (id, kind, host_id, entry_fee, max_players, questions, current_question, status, prize_pool)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err = r.q.QueryRow(ctx, query,
		game.ID,
		game.Kind,
		game.HostID,
		game.EntryFee,
		game.MaxPlayers,
		questions,
		game.CurrentQuestion,
		game.Status,
		game.PrizePool,
	).Scan(&game.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// GetByID retrieves a game room with its players
func (r *GameRepository) GetByID(ctx context.Context, id string) (*entities.GameRoom, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE id = $1`, gameColumns)
	return r.fetch(ctx, query, id)
}

// GetByIDForUpdate retrieves a game room with its players, holding the
// game row lock until the transaction ends. All room mutations go through
// this lock so concurrent joins, answers and settlement serialize.
func (r *GameRepository) GetByIDForUpdate(ctx context.Context, id string) (*entities.GameRoom, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE id = $1 FOR UPDATE`, gameColumns)
	return r.fetch(ctx, query, id)
}

func (r *GameRepository) fetch(ctx context.Context, query, id string) (*entities.GameRoom, error) {
	game, err := r.scanGame(r.q.QueryRow(ctx, query, id))
	if err != nil || game == nil {
		return game, err
	}
	game.Players, err = r.players(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	return game, nil
}

func (r *GameRepository) scanGame(row pgx.Row) (*entities.GameRoom, error) {
	var game entities.GameRoom
	var questions []byte
	err := row.Scan(
		&game.ID,
		&game.Kind,
		&game.HostID,
		&game.EntryFee,
		&game.MaxPlayers,
		&questions,
		&game.CurrentQuestion,
		&game.QuestionStartedAt,
		&game.Status,
		&game.PrizePool,
		&game.WinnerID,
		&game.CreatedAt,
		&game.StartedAt,
		&game.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}
	if err := json.Unmarshal(questions, &game.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	return &game, nil
}

// players returns a room's members in join order
func (r *GameRepository) players(ctx context.Context, gameID string) ([]*entities.GamePlayer, error) {
	query := `
		SELECT id, game_id, user_id, name, score, answers, is_ready, joined_at
		FROM game_players
		WHERE game_id = $1
		ORDER BY id
	`
	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []*entities.GamePlayer
	for rows.Next() {
		var p entities.GamePlayer
		var answers []byte
		if err := rows.Scan(&p.ID, &p.GameID, &p.UserID, &p.Name, &p.Score, &answers, &p.IsReady, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		if err := json.Unmarshal(answers, &p.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

// AddPlayer inserts a member, filling the join-order id back into the
// entity. A duplicate membership maps to ErrAlreadyJoined.
func (r *GameRepository) AddPlayer(ctx context.Context, gameID string, player *entities.GamePlayer) error {
	answers, err := json.Marshal(player.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	query := `
		INSERT INTO game_players (game_id, user_id, name, score, answers)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, joined_at
	`
	err = r.q.QueryRow(ctx, query, gameID, player.UserID, player.Name, player.Score, answers).
		Scan(&player.ID, &player.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entities.ErrAlreadyJoined
		}
		return fmt.Errorf("failed to add player: %w", err)
	}
	player.GameID = gameID
	return nil
}

// UpdatePlayer persists a member's answers and score
func (r *GameRepository) UpdatePlayer(ctx context.Context, gameID string, player *entities.GamePlayer) error {
	answers, err := json.Marshal(player.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	query := `
		UPDATE game_players
		SET score = $3, answers = $4, is_ready = $5
		WHERE game_id = $1 AND user_id = $2
	`
	tag, err := r.q.Exec(ctx, query, gameID, player.UserID, player.Score, answers, player.IsReady)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %s not found in game %s", player.UserID, gameID)
	}
	return nil
}

// Update persists the mutable fields of a game room
func (r *GameRepository) Update(ctx context.Context, game *entities.GameRoom) error {
	query := `
		UPDATE games
		SET current_question = $2, question_started_at = $3, status = $4,
		    prize_pool = $5, winner_id = $6, started_at = $7, finished_at = $8
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query,
		game.ID,
		game.CurrentQuestion,
		game.QuestionStartedAt,
		game.Status,
		game.PrizePool,
		game.WinnerID,
		game.StartedAt,
		game.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrGameNotFound
	}
	return nil
}

// ListOpen returns waiting rooms of the given kind that still have space
func (r *GameRepository) ListOpen(ctx context.Context, kind entities.GameKind) ([]*entities.GameRoom, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games g
		WHERE kind = $1 AND status = 'waiting'
		  AND (SELECT COUNT(*) FROM game_players gp WHERE gp.game_id = g.id) < max_players
		ORDER BY created_at DESC
		LIMIT 50
	`, gameColumns)
	rows, err := r.q.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query open games: %w", err)
	}
	defer rows.Close()

	var games []*entities.GameRoom
	for rows.Next() {
		game, err := r.scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, game := range games {
		game.Players, err = r.players(ctx, game.ID)
		if err != nil {
			return nil, err
		}
	}
	return games, nil
}

// ListExpiredQuestions returns playing rooms whose current question's
// deadline, taken from the stored snapshot, passed before cutoff
func (r *GameRepository) ListExpiredQuestions(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		SELECT id FROM games
		WHERE status = 'playing'
		  AND question_started_at IS NOT NULL
		  AND question_started_at
		      + make_interval(secs => COALESCE((questions -> current_question ->> 'timeLimit')::int, 15) + 1)
		      < $1
	`
	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired questions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
