package handlers

import (
	"io"
	"net/http"
	"strconv"

	"timebank/middleware"
	"timebank/services/chat"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler exposes the chat transport over HTTP.
type ChatHandler struct {
	Transport *chat.Transport
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(transport *chat.Transport) *ChatHandler {
	return &ChatHandler{Transport: transport}
}

// HistoryHandler returns the persisted conversation with a peer about a
// service, oldest first.
func (h *ChatHandler) HistoryHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	messages, err := h.Transport.History(c.Request.Context(),
		session.UserID, c.Param("peerID"), c.Param("serviceID"), limit)
	if err != nil {
		getLogger(c).Error("Failed to fetch chat history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendHandler sends a text message to a peer about a service.
func (h *ChatHandler) SendHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	msg, err := h.Transport.Send(c.Request.Context(),
		session.UserID, c.Param("peerID"), c.Param("serviceID"), req.Text)
	if err != nil {
		getLogger(c).Error("Failed to send chat message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// StreamHandler delivers live messages for a conversation as server-sent
// events until the client disconnects.
func (h *ChatHandler) StreamHandler(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	channel, err := h.Transport.OpenChannel(c.Request.Context(),
		session.UserID, c.Param("peerID"), c.Param("serviceID"))
	if err != nil {
		getLogger(c).Error("Failed to open chat channel", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open chat channel"})
		return
	}
	defer channel.Close()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case msg, ok := <-channel.Receive():
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		}
	})
}
