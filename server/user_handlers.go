package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	ReferralCode string `json:"referralCode"`
}

func (s *Server) handleRegister(c *gin.Context) {
	uid := c.GetString(userIDKey)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.app.Register(c.Request.Context(), uid, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"uid":           user.UID,
		"walletBalance": user.WalletBalance,
		"referralCode":  user.ReferralCode,
	})
}

func (s *Server) handleGetMe(c *gin.Context) {
	user, err := s.app.GetUser(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uid":           user.UID,
		"name":          user.Name,
		"walletBalance": user.WalletBalance,
		"referralCode":  user.ReferralCode,
		"totalGames":    user.TotalGames,
		"totalWins":     user.TotalWins,
		"winRate":       user.WinRate(),
	})
}

func (s *Server) handleGetLedger(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ledger, err := s.app.GetLedger(c.Request.Context(), c.GetString(userIDKey), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": ledger})
}

func (s *Server) handleGetWithdrawals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	withdrawals, err := s.app.GetWithdrawals(c.Request.Context(), c.GetString(userIDKey), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}
