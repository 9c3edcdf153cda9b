package server

import (
	"net/http"

	"quizclash/domain/entities"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	Kind       string `json:"kind" binding:"required"`
	EntryFee   int64  `json:"entryFee"`
	MaxPlayers int    `json:"maxPlayers"`
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}
	kind := entities.GameKind(req.Kind)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game kind"})
		return
	}

	game, err := s.app.CreateGame(c.Request.Context(), kind, c.GetString(userIDKey), req.EntryFee, req.MaxPlayers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGameView(game))
}

func (s *Server) handleListGames(c *gin.Context) {
	kind := entities.GameKind(c.DefaultQuery("kind", string(entities.GameKindQuiz)))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game kind"})
		return
	}

	games, err := s.app.ListOpenGames(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": toGameViews(games)})
}

func (s *Server) handleGetGame(c *gin.Context) {
	game, err := s.app.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGameView(game))
}

func (s *Server) handleJoinGame(c *gin.Context) {
	game, err := s.app.JoinGame(c.Request.Context(), c.Param("id"), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGameView(game))
}

type answerRequest struct {
	QuestionIndex  *int `json:"questionIndex" binding:"required"`
	SelectedOption *int `json:"selectedOption" binding:"required"`
	TimeSpent      int  `json:"timeSpent"`
}

func (s *Server) handleSubmitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionIndex and selectedOption are required"})
		return
	}

	game, err := s.app.SubmitAnswer(c.Request.Context(), c.Param("id"), c.GetString(userIDKey), *req.QuestionIndex, *req.SelectedOption, req.TimeSpent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGameView(game))
}

// handleForceEnd lets the host settle a room before its last question
func (s *Server) handleForceEnd(c *gin.Context) {
	game, err := s.app.ForceEnd(c.Request.Context(), c.Param("id"), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGameView(game))
}

// handleTimeUp lets a client report that the current question's timer ran
// out. The server re-checks the deadline, so a premature report is a no-op.
func (s *Server) handleTimeUp(c *gin.Context) {
	game, err := s.app.TimeUp(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGameView(game))
}
