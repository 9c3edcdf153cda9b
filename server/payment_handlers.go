package server

import (
	"net/http"

	"quizclash/domain/entities"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required"})
		return
	}

	order, err := s.app.CreateOrder(c.Request.Context(), c.GetString(userIDKey), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"orderId":  order.OrderID,
		"amount":   order.Amount,
		"currency": order.Currency,
	})
}

type verifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (s *Server) handleVerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId, paymentId and signature are required"})
		return
	}

	order, err := s.app.ConfirmPayment(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orderId": order.OrderID,
		"status":  order.Status,
		"amount":  order.Amount,
	})
}

type withdrawalRequest struct {
	Amount      int64                `json:"amount" binding:"required"`
	BankDetails entities.BankDetails `json:"bankDetails"`
}

func (s *Server) handleCreateWithdrawal(c *gin.Context) {
	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required"})
		return
	}

	withdrawal, err := s.app.CreateWithdrawal(c.Request.Context(), c.GetString(userIDKey), req.Amount, req.BankDetails)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":     withdrawal.ID,
		"amount": withdrawal.Amount,
		"status": withdrawal.Status,
	})
}
