package handlers

import (
	"errors"
	"net/http"
	"strconv"

	userRepo "timebank/database/repository/user"
	"timebank/middleware"
	"timebank/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking request workflow.
type BookingHandler struct {
	Service booking.BookingService
	Users   userRepo.UserRepository
	Logger  *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(svc booking.BookingService, users userRepo.UserRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Users: users, Logger: logger}
}

// QuoteHandler returns the caller's quota standing and the credit hold for a
// candidate duration, without creating anything.
func (h *BookingHandler) QuoteHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	serviceID := c.Query("service_id")
	if serviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_id is required"})
		return
	}
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be an integer"})
		return
	}

	quote, err := h.Service.Quote(c.Request.Context(), session.UserID, serviceID, duration)
	if err != nil {
		var durErr *booking.InvalidDurationError
		switch {
		case errors.As(err, &durErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.Logger.Error("Quote failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute quote"})
		}
		return
	}
	c.JSON(http.StatusOK, quote)
}

// SubmitHandler runs the booking submit flow. Non-demo callers are checked
// against the soft quota here, before the submit state machine runs; demo
// callers pass straight through and are blocked by the state machine itself.
func (h *BookingHandler) SubmitHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	var req booking.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !session.Demo {
		user, err := h.Users.GetByID(session.UserID)
		if err != nil {
			h.Logger.Error("Submit guard: failed to fetch user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking. Please try again."})
			return
		}
		if elig := booking.EvaluateEligibility(user); !elig.CanRequest {
			c.JSON(http.StatusConflict, gin.H{
				"error":   booking.ErrQuotaReached.Error(),
				"balance": elig.Balance,
			})
			return
		}
	}

	result, err := h.Service.Submit(c.Request.Context(), session, req)
	if err != nil {
		var durErr *booking.InvalidDurationError
		switch {
		case errors.As(err, &durErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrInvalidSchedule):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.Logger.Error("Submit failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking. Please try again."})
		}
		return
	}

	switch result.Outcome {
	case booking.OutcomeDemoBlocked:
		c.JSON(http.StatusForbidden, result)
	case booking.OutcomeFailed:
		c.JSON(http.StatusBadGateway, result)
	default:
		// Accepted and QuotaExceeded both mean the booking was created.
		c.JSON(http.StatusCreated, result)
	}
}

// RespondHandler lets the provider confirm or decline a pending booking.
func (h *BookingHandler) RespondHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.Service.Respond(c.Request.Context(), session, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrNotProvider):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListMineHandler returns the caller's booking requests.
func (h *BookingHandler) ListMineHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	bookings, err := h.Service.ListForRequester(c.Request.Context(), session.UserID)
	if err != nil {
		h.Logger.Error("Failed to list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
