package handlers

import (
	"net/http"

	userRepo "timebank/database/repository/user"
	"timebank/middleware"
	"timebank/services/booking"
	"timebank/services/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes the authenticated user's own record.
type UserHandler struct {
	Repo     userRepo.UserRepository
	Identity identity.IdentityService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(repo userRepo.UserRepository, ident identity.IdentityService) *UserHandler {
	return &UserHandler{Repo: repo, Identity: ident}
}

// MeHandler returns the caller's user snapshot together with the derived
// service balance the booking dialog shows.
func (h *UserHandler) MeHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	user, err := h.Repo.GetByID(session.UserID)
	if err != nil {
		getLogger(c).Error("Failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	elig := booking.EvaluateEligibility(user)
	c.JSON(http.StatusOK, gin.H{
		"user":            user,
		"service_balance": elig.Balance,
		"can_request":     elig.CanRequest,
		"demo":            session.Demo,
	})
}

// LogoutHandler revokes the caller's session token.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	if err := h.Identity.RevokeSession(session.UserID); err != nil {
		getLogger(c).Error("Failed to revoke session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}
