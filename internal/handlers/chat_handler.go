package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expenza/internal/chat"
	apperrors "expenza/internal/errors"
	"expenza/internal/services"
)

// ChatHandler handles the conversational expense entry endpoints
type ChatHandler struct {
	chatService services.ChatServicer
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService services.ChatServicer) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest represents a natural-language expense message
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// ChatResponse represents the outcome of a processed chat message
type ChatResponse struct {
	Summary  string      `json:"summary"`
	Expenses interface{} `json:"expenses"`
}

// Submit handles a natural-language expense message
// @Summary     Submit a chat message
// @Description Extract and record expenses from a natural-language message
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChatRequest true "Chat message"
// @Success     200 {object} ChatResponse "Expenses recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "No expenses found or unparseable response"
// @Failure     502 {object} ErrorResponse "Language model error"
// @Failure     503 {object} ErrorResponse "Language model unavailable"
// @Router      /chat [post]
func (h *ChatHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.chatService.Submit(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Summary:  result.Summary,
		Expenses: result.Expenses,
	})
}

// History returns the user's recent chat exchanges
// @Summary     Get chat history
// @Description Get the user's recent chat messages and responses, oldest first
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Chat history"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /chat/history [get]
func (h *ChatHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries := h.chatService.History(userID)
	if entries == nil {
		entries = []chat.Entry{}
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// Clear removes the user's chat history
// @Summary     Clear chat history
// @Description Remove all of the user's chat history entries
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "History cleared"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /chat/clear [post]
func (h *ChatHandler) Clear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.chatService.ClearHistory(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared"})
}
