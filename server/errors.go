package server

import (
	"errors"
	"net/http"

	"quizclash/domain/entities"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInsufficientFunds),
		errors.Is(err, entities.ErrAmountTooLow),
		errors.Is(err, entities.ErrBelowMinimumWithdrawal),
		errors.Is(err, entities.ErrMissingBankDetails),
		errors.Is(err, entities.ErrInvalidReferralCode):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrGameAlreadyStarted),
		errors.Is(err, entities.ErrGameFull),
		errors.Is(err, entities.ErrAlreadyJoined),
		errors.Is(err, entities.ErrAlreadyAnswered),
		errors.Is(err, entities.ErrQuestionClosed),
		errors.Is(err, entities.ErrAlreadySettled),
		errors.Is(err, entities.ErrPaymentAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, entities.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, entities.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrServiceUnavailable),
		errors.Is(err, entities.ErrContentUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the domain error as JSON. Post-verification payment
// failures are logged loudly since they require manual reconciliation.
func respondError(c *gin.Context, err error) {
	var pvErr *entities.PostVerificationError
	if errors.As(err, &pvErr) {
		log.WithFields(log.Fields{
			"orderID":   pvErr.OrderID,
			"paymentID": pvErr.PaymentID,
		}).WithError(pvErr.Err).Error("Payment captured but wallet credit failed, needs reconciliation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment processing failed, support has been notified"})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
