package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"secularai/internal/models"
	"secularai/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
	authService services.AuthService
}

func NewChatHandler(chatService services.ChatService, authService services.AuthService) *ChatHandler {
	return &ChatHandler{chatService: chatService, authService: authService}
}

func (h *ChatHandler) abortChatErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, services.ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
	default:
		log.Printf("[chat] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat operation failed"})
	}
}

// @Summary      Create a chat session
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.ChatSession
// @Router       /chat/sessions [post]
func (h *ChatHandler) CreateSession(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req struct {
		ScriptureID string `json:"scripture_id" binding:"required"`
		ReligionID  string `json:"religion_id" binding:"required"`
		Title       string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.chatService.CreateSession(user.ID, req.ScriptureID, req.ReligionID, req.Title)
	if err != nil {
		h.abortChatErr(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// @Summary      List sessions for a scripture, newest first
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        scripture_id  path  string  true  "Scripture id"
// @Success      200  {array}  models.ChatSession
// @Router       /chat/sessions/{scripture_id} [get]
func (h *ChatHandler) ListSessions(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	sessions, err := h.chatService.ListSessions(user.ID, c.Param("scripture_id"))
	if err != nil {
		h.abortChatErr(c, err)
		return
	}
	if sessions == nil {
		sessions = []*models.ChatSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// @Summary      List session messages, oldest first
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        session_id  path  string  true  "Session id"
// @Success      200  {array}  models.ChatMessage
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /chat/messages/{session_id} [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(user.ID, c.Param("session_id"))
	if err != nil {
		h.abortChatErr(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// @Summary      Delete a session and its messages
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        session_id  path  string  true  "Session id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /chat/sessions/{session_id} [delete]
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	if err := h.chatService.DeleteSession(user.ID, c.Param("session_id")); err != nil {
		h.abortChatErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

// @Summary      Download a session transcript as PDF
// @Tags         Chat
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        session_id  path  string  true  "Session id"
// @Router       /chat/messages/{session_id}/export [get]
func (h *ChatHandler) ExportTranscript(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	data, err := h.chatService.ExportTranscript(user.ID, sessionID)
	if err != nil {
		h.abortChatErr(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="transcript-%s.pdf"`, sessionID))
	c.Data(http.StatusOK, "application/pdf", data)
}
