package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adaptlearn/adaptlearn-backend/internal/http/response"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/services"
)

var errMissingUserID = errors.New("user_id is required")

type SettingsHandler struct {
	profiles services.ProfileService
}

func NewSettingsHandler(profiles services.ProfileService) *SettingsHandler {
	return &SettingsHandler{profiles: profiles}
}

// POST /api/settings
func (h *SettingsHandler) Save(c *gin.Context) {
	var req services.SettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	profile, err := h.profiles.Save(dbc, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

// GET /api/settings?user_id=... or ?tester_name=...
func (h *SettingsHandler) Get(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		profile, err := h.profiles.Get(dbc, userID)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"profile": profile})
		return
	}

	if name := c.Query("tester_name"); name != "" {
		profile, err := h.profiles.GetByName(dbc, name)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"profile": profile})
		return
	}

	response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingUserID)
}
