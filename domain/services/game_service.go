package services

import (
	"context"
	"fmt"
	"time"

	"quizclash/domain/entities"
	"quizclash/domain/events"
	"quizclash/domain/interfaces"
	"quizclash/domain/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// QuestionGrace is added to every question deadline before a silent player
// is marked as unanswered, absorbing client clock and network skew.
const QuestionGrace = time.Second

type gameService struct {
	userRepo       interfaces.UserRepository
	gameRepo       interfaces.GameRepository
	txRepo         interfaces.TransactionRepository
	settler        interfaces.SettlementService
	eventPublisher interfaces.EventPublisher
}

// NewGameService creates a new game service. The settler runs within the
// same unit of work when the final question closes.
func NewGameService(userRepo interfaces.UserRepository, gameRepo interfaces.GameRepository, txRepo interfaces.TransactionRepository, settler interfaces.SettlementService, eventPublisher interfaces.EventPublisher) interfaces.GameService {
	return &gameService{
		userRepo:       userRepo,
		gameRepo:       gameRepo,
		txRepo:         txRepo,
		settler:        settler,
		eventPublisher: eventPublisher,
	}
}

func (s *gameService) CreateGame(ctx context.Context, kind entities.GameKind, hostUID string, entryFee int64, maxPlayers int, questions []entities.Question) (*entities.GameRoom, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown game kind %q", kind)
	}
	if len(questions) == 0 {
		return nil, entities.ErrContentUnavailable
	}

	fee := kind.DefaultEntryFee()
	capacity := kind.DefaultMaxPlayers()
	if entryFee != 0 || maxPlayers != 0 {
		// Only generic question rooms are host-configurable
		if kind != entities.GameKindQuestion {
			return nil, fmt.Errorf("entry fee and max players are fixed for %s games", kind)
		}
		if entryFee != 0 {
			if entryFee < 0 {
				return nil, fmt.Errorf("entry fee must be positive, got %d", entryFee)
			}
			fee = entryFee
		}
		if maxPlayers != 0 {
			if maxPlayers < entities.MinPlayersToStart {
				return nil, fmt.Errorf("max players must be at least %d, got %d", entities.MinPlayersToStart, maxPlayers)
			}
			capacity = maxPlayers
		}
	}

	host, err := s.userRepo.GetByUID(ctx, hostUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}
	if host == nil {
		return nil, entities.ErrUserNotFound
	}

	newBalance, err := s.userRepo.Debit(ctx, hostUID, fee)
	if err != nil {
		return nil, err
	}

	game := &entities.GameRoom{
		ID:         uuid.New().String(),
		Kind:       kind,
		HostID:     hostUID,
		EntryFee:   fee,
		MaxPlayers: capacity,
		Questions:  questions,
		Status:     entities.GameStatusWaiting,
		PrizePool:  fee,
		CreatedAt:  time.Now(),
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	player := &entities.GamePlayer{
		GameID:   game.ID,
		UserID:   hostUID,
		Name:     host.Name,
		Answers:  []int{},
		JoinedAt: time.Now(),
	}
	if err := s.gameRepo.AddPlayer(ctx, game.ID, player); err != nil {
		return nil, fmt.Errorf("failed to add host to game: %w", err)
	}
	game.Players = append(game.Players, player)

	if err := utils.RecordWalletChange(ctx, s.txRepo, s.eventPublisher, &entities.Transaction{
		UserID:      hostUID,
		Type:        entities.TransactionTypeDebit,
		Amount:      fee,
		Description: fmt.Sprintf("Entry fee for %s game", kind),
		Reference:   "game:" + game.ID,
		Status:      entities.TransactionStatusCompleted,
	}, newBalance); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.GameStateChangeEvent{
		GameID:   game.ID,
		Kind:     game.Kind,
		NewState: string(game.Status),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish game created event: %w", err)
	}

	log.WithFields(log.Fields{
		"gameID": game.ID,
		"kind":   kind,
		"host":   hostUID,
	}).Info("Game created")
	return game, nil
}

func (s *gameService) JoinGame(ctx context.Context, gameID, uid string) (*entities.GameRoom, error) {
	game, err := s.gameRepo.GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, entities.ErrGameNotFound
	}
	if game.Status != entities.GameStatusWaiting {
		return nil, entities.ErrGameAlreadyStarted
	}
	if game.HasPlayer(uid) {
		return nil, entities.ErrAlreadyJoined
	}
	if game.IsFull() {
		return nil, entities.ErrGameFull
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, entities.ErrUserNotFound
	}

	newBalance, err := s.userRepo.Debit(ctx, uid, game.EntryFee)
	if err != nil {
		return nil, err
	}

	player := &entities.GamePlayer{
		GameID:   game.ID,
		UserID:   uid,
		Name:     user.Name,
		Answers:  []int{},
		JoinedAt: time.Now(),
	}
	if err := s.gameRepo.AddPlayer(ctx, game.ID, player); err != nil {
		return nil, fmt.Errorf("failed to add player: %w", err)
	}
	game.Players = append(game.Players, player)

	game.PrizePool += game.EntryFee
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update prize pool: %w", err)
	}

	if err := utils.RecordWalletChange(ctx, s.txRepo, s.eventPublisher, &entities.Transaction{
		UserID:      uid,
		Type:        entities.TransactionTypeDebit,
		Amount:      game.EntryFee,
		Description: fmt.Sprintf("Entry fee for %s game", game.Kind),
		Reference:   "game:" + game.ID,
		Status:      entities.TransactionStatusCompleted,
	}, newBalance); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.GameStateChangeEvent{
		GameID:   game.ID,
		Kind:     game.Kind,
		OldState: string(entities.GameStatusWaiting),
		NewState: string(game.Status),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish join event: %w", err)
	}
	return game, nil
}

// StartGame transitions a waiting room to playing. The auto-start timer
// fires this without knowing whether the room still qualifies, so every
// precondition failure is a silent no-op rather than an error.
func (s *gameService) StartGame(ctx context.Context, gameID string) (*entities.GameRoom, error) {
	game, err := s.gameRepo.GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, entities.ErrGameNotFound
	}
	if game.Status != entities.GameStatusWaiting && game.Status != entities.GameStatusStarting {
		return game, nil
	}
	if len(game.Players) < entities.MinPlayersToStart {
		return game, nil
	}

	now := time.Now()
	oldStatus := game.Status
	game.Status = entities.GameStatusPlaying
	game.StartedAt = &now
	game.CurrentQuestion = 0
	game.QuestionStartedAt = &now
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	if err := s.eventPublisher.Publish(events.GameStateChangeEvent{
		GameID:   game.ID,
		Kind:     game.Kind,
		OldState: string(oldStatus),
		NewState: string(game.Status),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish start event: %w", err)
	}
	if err := s.eventPublisher.Publish(events.QuestionAdvanceEvent{
		GameID:          game.ID,
		CurrentQuestion: 0,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish question event: %w", err)
	}

	log.WithFields(log.Fields{
		"gameID":  game.ID,
		"players": len(game.Players),
	}).Info("Game started")
	return game, nil
}

func (s *gameService) SubmitAnswer(ctx context.Context, gameID, uid string, questionIndex, selectedOption, timeSpent int) (*entities.GameRoom, error) {
	game, err := s.gameRepo.GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, entities.ErrGameNotFound
	}
	if game.Status != entities.GameStatusPlaying {
		return nil, entities.ErrQuestionClosed
	}
	// An in-flight answer for a question the room already moved past must
	// not be recorded against the current one
	if questionIndex != game.CurrentQuestion {
		return nil, entities.ErrQuestionClosed
	}

	player := game.Player(uid)
	if player == nil {
		return nil, fmt.Errorf("user %s is not a member of game %s", uid, gameID)
	}
	if player.HasAnswered(game.CurrentQuestion) {
		return nil, entities.ErrAlreadyAnswered
	}
	if game.QuestionDeadlineExceeded(time.Now(), QuestionGrace) {
		return nil, entities.ErrQuestionClosed
	}

	question, err := game.CurrentQuestionItem()
	if err != nil {
		return nil, err
	}
	if timeSpent < 0 {
		timeSpent = 0
	}

	player.Answers = append(player.Answers, selectedOption)
	player.Score += game.Kind.ScoreAnswer(question.IsCorrect(selectedOption), timeSpent)
	if err := s.gameRepo.UpdatePlayer(ctx, game.ID, player); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	if game.AllAnswered(game.CurrentQuestion) {
		return s.advance(ctx, game)
	}
	return game, nil
}

// TimeUp closes the current question after its deadline. Players who never
// answered get the no-answer sentinel and zero points. The sweeper may race
// a submission that already advanced the room, so a fresh deadline is a
// no-op.
func (s *gameService) TimeUp(ctx context.Context, gameID string) (*entities.GameRoom, error) {
	game, err := s.gameRepo.GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, entities.ErrGameNotFound
	}
	if game.Status != entities.GameStatusPlaying {
		return game, nil
	}
	if !game.QuestionDeadlineExceeded(time.Now(), QuestionGrace) {
		return game, nil
	}

	for _, p := range game.Players {
		if p.HasAnswered(game.CurrentQuestion) {
			continue
		}
		p.Answers = append(p.Answers, entities.NoAnswerSentinel)
		if err := s.gameRepo.UpdatePlayer(ctx, game.ID, p); err != nil {
			return nil, fmt.Errorf("failed to record timeout answer: %w", err)
		}
	}
	return s.advance(ctx, game)
}

// ForceEnd lets the host cut a playing room short, settling it on the
// scores as they stand.
func (s *gameService) ForceEnd(ctx context.Context, gameID, uid string) (*entities.GameRoom, error) {
	game, err := s.gameRepo.GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, entities.ErrGameNotFound
	}
	if game.HostID != uid {
		return nil, entities.ErrNotHost
	}

	settled, err := s.settler.Settle(ctx, gameID)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"gameID": gameID,
		"host":   uid,
	}).Info("Game force-ended by host")
	return settled, nil
}

// advance moves the room to the next question, or settles it when the
// final question just closed. Callers hold the game row lock.
func (s *gameService) advance(ctx context.Context, game *entities.GameRoom) (*entities.GameRoom, error) {
	if game.IsLastQuestion(game.CurrentQuestion) {
		return s.settler.Settle(ctx, game.ID)
	}

	now := time.Now()
	game.CurrentQuestion++
	game.QuestionStartedAt = &now
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to advance question: %w", err)
	}

	if err := s.eventPublisher.Publish(events.QuestionAdvanceEvent{
		GameID:          game.ID,
		CurrentQuestion: game.CurrentQuestion,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish question event: %w", err)
	}
	return game, nil
}

func (s *gameService) ListOpenGames(ctx context.Context, kind entities.GameKind) ([]*entities.GameRoom, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown game kind %q", kind)
	}
	return s.gameRepo.ListOpen(ctx, kind)
}

func (s *gameService) GetGame(ctx context.Context, gameID string) (*entities.GameRoom, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, entities.ErrGameNotFound
	}
	return game, nil
}
