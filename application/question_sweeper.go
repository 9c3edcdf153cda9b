package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// SweepInterval is how often the sweeper scans for expired questions
const SweepInterval = time.Second

// QuestionSweeper closes questions whose deadline passed without every
// player answering. Clients are expected to report timeouts themselves,
// so the sweeper is the safety net for players who silently disconnect.
type QuestionSweeper struct {
	app *App
}

// NewQuestionSweeper creates a new sweeper
func NewQuestionSweeper(app *App) *QuestionSweeper {
	return &QuestionSweeper{app: app}
}

// Start launches the sweep loop and returns a stop function
func (w *QuestionSweeper) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()
		log.Info("Question deadline sweeper started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Question sweeper shutting down (context cancelled)")
				return
			case <-stopChan:
				log.Info("Question sweeper shutting down (stop requested)")
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

func (w *QuestionSweeper) sweep(ctx context.Context) {
	expired, err := w.listExpired(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list expired questions")
		return
	}

	// Each room is closed in its own transaction so one failure does not
	// stall the rest
	for _, gameID := range expired {
		if _, err := w.app.TimeUp(ctx, gameID); err != nil {
			log.WithError(err).WithField("gameID", gameID).Error("Failed to close expired question")
		}
	}
}

func (w *QuestionSweeper) listExpired(ctx context.Context) ([]string, error) {
	var expired []string
	err := w.app.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		expired, err = uow.GameRepository().ListExpiredQuestions(ctx, time.Now())
		return err
	})
	return expired, err
}
