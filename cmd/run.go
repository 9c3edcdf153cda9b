package cmd

import (
	"context"
	"fmt"
	"time"

	"quizclash/application"
	"quizclash/config"
	"quizclash/database"
	"quizclash/domain/events"
	"quizclash/domain/services"
	"quizclash/infrastructure"
	"quizclash/repository"
	"quizclash/server"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting quizclash...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Optional: forward committed events to NATS for downstream consumers
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()
		forwarder := infrastructure.NewNATSEventForwarder(natsClient, infrastructure.NewEventSubjectMapper())
		forwarder.Attach(eventBus)
	}

	trivia := infrastructure.NewOpenTDBClient(cfg.TriviaAPIURL)
	questions := services.NewQuestionService(trivia, repository.NewQuestionRepository(db))
	gateway := infrastructure.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)

	app := application.NewApp(uowFactory, questions, gateway)
	defer app.Scheduler().Stop()

	sweeper := application.NewQuestionSweeper(app)
	stopSweeper := sweeper.Start(ctx)
	defer stopSweeper()

	srv := server.New(app, eventBus)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	log.WithField("environment", cfg.Environment).Info("Service is running")

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP shutdown failed")
	}
	return nil
}
