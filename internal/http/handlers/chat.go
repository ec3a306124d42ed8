package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adaptlearn/adaptlearn-backend/internal/http/response"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/services"
)

type ChatHandler struct {
	turns        services.TurnService
	conversation services.ConversationService
}

func NewChatHandler(turns services.TurnService, conversation services.ConversationService) *ChatHandler {
	return &ChatHandler{turns: turns, conversation: conversation}
}

type sendMessageReq struct {
	UserID uuid.UUID `json:"user_id"`
	Text   string    `json:"text"`
}

// POST /api/chat
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.UserID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingUserID)
		return
	}
	res, err := h.turns.HandleTurn(c.Request.Context(), req.UserID, req.Text)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"turn": res})
}

// GET /api/chat/history?user_id=...&limit=50
func (h *ChatHandler) History(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	limit := 50
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	msgs, err := h.conversation.Recent(dbc, userID, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	total, err := h.conversation.Count(dbc, userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs, "total": total})
}
