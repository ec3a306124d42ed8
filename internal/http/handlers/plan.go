package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	planrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/plan"
	"github.com/adaptlearn/adaptlearn-backend/internal/http/response"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
)

type PlanHandler struct {
	plans planrepo.Repo
}

func NewPlanHandler(plans planrepo.Repo) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// GET /api/plan?user_id=...
func (h *PlanHandler) GetLatest(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	plan, err := h.plans.GetLatest(dbc, userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan})
}

// GET /api/plan/revisions?user_id=...&limit=20
func (h *PlanHandler) ListRevisions(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	limit := 20
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	plans, err := h.plans.ListRevisions(dbc, userID, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plans": plans})
}
