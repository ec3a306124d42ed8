package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "adaptlearn-backend",
		"endpoints": []string{
			"POST /api/chat",
			"GET /api/chat/history",
			"POST /api/settings",
			"GET /api/settings",
			"GET /api/plan",
			"GET /api/plan/revisions",
			"POST /api/questions/answer",
			"GET /api/questions/stats",
			"GET /api/questions/next",
		},
	})
}
