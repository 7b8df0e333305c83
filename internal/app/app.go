package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/northstarhq/northstar/internal/config"
	"github.com/northstarhq/northstar/internal/db"
	"github.com/northstarhq/northstar/internal/llm"
	"github.com/northstarhq/northstar/internal/repository"
	"github.com/northstarhq/northstar/internal/service"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	AuthService      *service.AuthService
	EmailService     *service.EmailService
	GoalService      *service.GoalService
	MilestoneService *service.MilestoneService
	CheckinService   *service.CheckinService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	milestoneRepository := repository.NewMilestoneRepository(database)
	checkinRepository := repository.NewCheckinRepository(database)

	// LLM client shared by milestone and feedback generation
	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMHTTPTimeout)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenPasswordResetExpiry,
	)
	goalService := service.NewGoalService(goalRepository, milestoneRepository)
	milestoneService := service.NewMilestoneService(goalRepository, milestoneRepository, llmClient)
	checkinService := service.NewCheckinService(checkinRepository, goalRepository, llmClient)

	return &App{
		Cfg:              cfg,
		DB:               database,
		AuthService:      authService,
		EmailService:     emailService,
		GoalService:      goalService,
		MilestoneService: milestoneService,
		CheckinService:   checkinService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
