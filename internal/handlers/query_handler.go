package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"secularai/internal/models"
	"secularai/internal/services"
)

type QueryHandler struct {
	chatService services.ChatService
	responder   services.ResponderService
}

func NewQueryHandler(chatService services.ChatService, responder services.ResponderService) *QueryHandler {
	return &QueryHandler{chatService: chatService, responder: responder}
}

// @Summary      Ask the scripture guide
// @Description  Appends the user message, runs the retrieval-augmented pipeline, persists and returns the answer
// @Tags         Query
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /query [post]
func (h *QueryHandler) Query(c *gin.Context) {
	var req struct {
		UserQuery string `json:"user_query" binding:"required"`
		Religion  string `json:"religion"`
		Scripture string `json:"scripture"`
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.chatService.GetSession(req.SessionID)
	if err != nil {
		log.Printf("[query] session lookup failed id=%s: %v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	// the user turn is committed before the pipeline runs; a pipeline
	// failure must leave the transcript with the question but no answer
	userMsg := &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.RoleUser,
		Content:   req.UserQuery,
	}
	if err := h.chatService.AppendMessage(userMsg); err != nil {
		log.Printf("[query] persist user message failed session=%s: %v", session.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	answer, verses, err := h.responder.Respond(c.Request.Context(), req.UserQuery, session.ID, req.Religion, req.Scripture)
	if err != nil {
		log.Printf("[query] pipeline failed session=%s: %v", session.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "The guide is unavailable right now. Please try again."})
		return
	}

	aiMsg := &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.RoleAI,
		Content:   answer,
		Verses:    verses,
	}
	if err := h.chatService.AppendMessage(aiMsg); err != nil {
		log.Printf("[query] persist ai message failed session=%s: %v", session.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
