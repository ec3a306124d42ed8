package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/adaptlearn/adaptlearn-backend/internal/http/handlers"
	httpMW "github.com/adaptlearn/adaptlearn-backend/internal/http/middleware"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

type RouterConfig struct {
	ChatHandler      *httpH.ChatHandler
	SettingsHandler  *httpH.SettingsHandler
	PlanHandler      *httpH.PlanHandler
	QuestionsHandler *httpH.QuestionsHandler
	HealthHandler    *httpH.HealthHandler

	Log *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("", cfg.HealthHandler.Info)
		}

		if cfg.ChatHandler != nil {
			api.POST("/chat", cfg.ChatHandler.SendMessage)
			api.GET("/chat/history", cfg.ChatHandler.History)
		}

		if cfg.SettingsHandler != nil {
			api.POST("/settings", cfg.SettingsHandler.Save)
			api.GET("/settings", cfg.SettingsHandler.Get)
		}

		if cfg.PlanHandler != nil {
			api.GET("/plan", cfg.PlanHandler.GetLatest)
			api.GET("/plan/revisions", cfg.PlanHandler.ListRevisions)
		}

		if cfg.QuestionsHandler != nil {
			api.POST("/questions/answer", cfg.QuestionsHandler.RecordAnswer)
			api.GET("/questions/stats", cfg.QuestionsHandler.Summary)
			api.GET("/questions/next", cfg.QuestionsHandler.Next)
		}
	}

	return r
}
