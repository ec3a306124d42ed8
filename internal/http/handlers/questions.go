package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/adaptlearn-backend/internal/http/response"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/services"
)

var (
	errMissingPack       = errors.New("pack is required")
	errBankNotConfigured = errors.New("question bank not configured")
)

type QuestionsHandler struct {
	stats     services.StatsService
	questions services.QuestionService
}

// NewQuestionsHandler wires the practice surface. questions may be nil
// when no bank file is configured; the next-question route then reports
// the bank as unavailable.
func NewQuestionsHandler(stats services.StatsService, questions services.QuestionService) *QuestionsHandler {
	return &QuestionsHandler{stats: stats, questions: questions}
}

// POST /api/questions/answer
func (h *QuestionsHandler) RecordAnswer(c *gin.Context) {
	var req services.AnswerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	row, err := h.stats.RecordAnswer(dbc, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stat": row})
}

// GET /api/questions/stats?pack=...
func (h *QuestionsHandler) Summary(c *gin.Context) {
	pack := c.Query("pack")
	if pack == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingPack)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	summary, err := h.stats.Summarize(dbc, pack)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"pack_name": pack, "categories": summary})
}

// GET /api/questions/next?pack=...&category=...&n=3
func (h *QuestionsHandler) Next(c *gin.Context) {
	if h.questions == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "bank_unavailable", errBankNotConfigured)
		return
	}
	pack := c.Query("pack")
	if pack == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingPack)
		return
	}
	n := 3
	if v := strings.TrimSpace(c.Query("n")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	questions, err := h.questions.NextQuestions(dbc, pack, c.Query("category"), n)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"pack_name": pack, "questions": questions})
}
