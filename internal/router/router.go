package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"sata-backend/internal/handlers"
	"sata-backend/internal/middleware"
	"sata-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	sessionHandler *handlers.SessionHandler,
	progressHandler *handlers.ProgressHandler,
	shopHandler *handlers.ShopHandler,
	bankHandler *handlers.BankHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *websocket.Hub,
	frontendURL string,
	env string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", sessionHandler.Start)
			r.Post("/daily", sessionHandler.StartDaily)
			r.Post("/recovery", sessionHandler.StartRecovery)
			r.Post("/flashcards", sessionHandler.StartFlashcards)
			r.Get("/current", sessionHandler.Get)
			r.Post("/answer", sessionHandler.Answer)
			r.Post("/navigate", sessionHandler.Navigate)
			r.Post("/pause", sessionHandler.Pause)
			r.Post("/resume", sessionHandler.Resume)
			r.Post("/finish", sessionHandler.Finish)
			r.Post("/abandon", sessionHandler.Abandon)
			r.Get("/result", sessionHandler.Result)
			r.Post("/flashcards/complete", sessionHandler.CompleteFlashcards)
		})

		// ──── Progress & Streak Routes ────
		r.Route("/progress", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", progressHandler.Get)
			r.Get("/streak", progressHandler.Streak)
			r.Post("/streak/check", progressHandler.CheckStreak)
			r.Post("/streak/accept-loss", progressHandler.AcceptLoss)
			r.Post("/reset", progressHandler.Reset)
		})

		// ──── Shop Routes ────
		r.Route("/shop", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/items", shopHandler.Catalog)
			r.Post("/buy", shopHandler.Buy)
			r.Post("/equip", shopHandler.Equip)
		})

		// ──── Question Bank Routes ────
		r.Route("/bank", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", bankHandler.List)
		})

		// ──── Admin Routes (dev console, non-production only) ────
		if env != "production" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/level", adminHandler.SetLevel)
				r.Post("/streak", adminHandler.SetStreak)
			})
		}

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
