package server

import (
	"context"
	"net/http"
	"time"

	"quizclash/application"
	"quizclash/config"
	"quizclash/domain/events"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP and WebSocket surface of the service
type Server struct {
	app    *application.App
	hub    *Hub
	engine *gin.Engine
	http   *http.Server
}

// New creates a server wired to the application and the event bus
func New(app *application.App, bus *events.Bus) *Server {
	cfg := config.Get()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		app:    app,
		hub:    NewHub(),
		engine: gin.New(),
	}
	s.hub.AttachBus(bus)

	s.engine.Use(gin.Recovery())
	s.engine.Use(CORSMiddleware())
	s.routes()

	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api", AuthMiddleware())

	api.POST("/users/register", s.handleRegister)
	api.GET("/users/me", s.handleGetMe)
	api.GET("/users/me/transactions", s.handleGetLedger)
	api.GET("/users/me/withdrawals", s.handleGetWithdrawals)

	api.POST("/games", s.handleCreateGame)
	api.GET("/games", s.handleListGames)
	api.GET("/games/:id", s.handleGetGame)
	api.POST("/games/:id/join", s.handleJoinGame)
	api.POST("/games/:id/answer", s.handleSubmitAnswer)
	api.POST("/games/:id/timeup", s.handleTimeUp)
	api.POST("/games/:id/end", s.handleForceEnd)

	api.POST("/payments/orders", s.handleCreateOrder)
	api.POST("/payments/verify", s.handleVerifyPayment)
	api.POST("/payments/withdrawals", s.handleCreateWithdrawal)

	api.GET("/ws", s.handleWebSocket)
}

// Start begins serving. Blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	log.WithField("addr", s.http.Addr).Info("HTTP server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
