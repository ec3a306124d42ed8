package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	chatrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/chat"
	planrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/plan"
	statsrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/stats"
	userrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/user"

	redisclient "github.com/adaptlearn/adaptlearn-backend/internal/clients/redis"
	"github.com/adaptlearn/adaptlearn-backend/internal/data/db"
	httpx "github.com/adaptlearn/adaptlearn-backend/internal/http"
	"github.com/adaptlearn/adaptlearn-backend/internal/http/handlers"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/envutil"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/openai"
	"github.com/adaptlearn/adaptlearn-backend/internal/questionbank"
	"github.com/adaptlearn/adaptlearn-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	profileRepo := userrepo.NewProfileRepo(thePG, log)
	messageRepo := chatrepo.NewMessageRepo(thePG, log)
	sessionRepo := chatrepo.NewSessionRepo(thePG, log)
	plansRepo := planrepo.NewRepo(thePG, log)
	statRepo := statsrepo.NewRepo(thePG, log)

	// Clients
	aiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	turnBus, err := redisclient.NewTurnBus(log)
	if err != nil {
		log.Warn("Turn bus disabled", "error", err)
		turnBus = nil
	}
	var bank *questionbank.Bank
	if path := envutil.String("QUESTION_BANK_PATH", ""); path != "" {
		bank, err = questionbank.Load(path)
		if err != nil {
			log.Error("Could not load question bank", "path", path, "error", err)
			os.Exit(1)
		}
		log.Info("Question bank loaded", "path", path, "questions", bank.Len())
	} else {
		log.Warn("QUESTION_BANK_PATH unset, question serving disabled")
	}

	// Services
	log.Info("Setting up services...")
	conversationService := services.NewConversationService(thePG, log, messageRepo)
	profileService := services.NewProfileService(thePG, log, profileRepo)
	statsService := services.NewStatsService(thePG, log, statRepo)
	var questionService services.QuestionService
	if bank != nil {
		questionService = services.NewQuestionService(thePG, log, bank, statRepo)
	}
	notifier := services.NewTurnNotifier(log, turnBus)
	generationTimeout := envutil.DurationSeconds("GENERATION_TIMEOUT_SECONDS", 30*time.Second)
	turnService := services.NewTurnService(
		thePG,
		log,
		aiClient,
		conversationService,
		profileService,
		sessionRepo,
		plansRepo,
		statsService,
		notifier,
		generationTimeout,
	)

	// Handlers
	log.Info("Setting up handlers...")
	server := httpx.NewServer(httpx.RouterConfig{
		ChatHandler:      handlers.NewChatHandler(turnService, conversationService),
		SettingsHandler:  handlers.NewSettingsHandler(profileService),
		PlanHandler:      handlers.NewPlanHandler(plansRepo),
		QuestionsHandler: handlers.NewQuestionsHandler(statsService, questionService),
		HealthHandler:    handlers.NewHealthHandler(),
		Log:              log,
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
