package routes

import (
	"net/http"

	"github.com/northstarhq/northstar/internal/app"
	"github.com/northstarhq/northstar/internal/handler"
	"github.com/northstarhq/northstar/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	goal := handler.NewGoalHandler(app.GoalService)
	milestone := handler.NewMilestoneHandler(app.MilestoneService)
	checkin := handler.NewCheckinHandler(app.CheckinService)
	dashboard := handler.NewDashboardHandler(app.GoalService, app.CheckinService)
	ai := handler.NewAIHandler(app.MilestoneService, app.CheckinService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", handler.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("POST /api/auth/forgot-password", rateLimiter(auth.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", rateLimiter(auth.ResetPassword))

	// Goals
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PATCH /api/goals/{id}/status", middleware.RequireAuth(goal.UpdateStatus))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Milestones
	mux.HandleFunc("PATCH /api/milestones/{id}/toggle", middleware.RequireAuth(milestone.Toggle))

	// Check-ins
	mux.HandleFunc("POST /api/checkins", middleware.RequireAuth(checkin.Create))
	mux.HandleFunc("GET /api/checkins", middleware.RequireAuth(checkin.List))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", middleware.RequireAuth(dashboard.Stats))

	// AI generation proxies
	mux.HandleFunc("POST /api/ai/generate-milestones", middleware.RequireAuth(ai.GenerateMilestones))
	mux.HandleFunc("POST /api/ai/checkin-feedback", middleware.RequireAuth(ai.CheckinFeedback))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	)

	return h
}
