package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sata-backend/internal/config"
	"sata-backend/internal/database"
	"sata-backend/internal/handlers"
	"sata-backend/internal/middleware"
	"sata-backend/internal/repository"
	"sata-backend/internal/router"
	"sata-backend/internal/services"
	"sata-backend/internal/session"
	"sata-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting SAT A! Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	stateRepo := repository.NewStateRepo(pool)
	bankRepo := repository.NewBankRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClients.Tokens, jwtAuth)
	notifier := services.NewNotifier(redisClients.Tokens)
	userLocks := services.NewUserLocks()
	sessionManager := session.NewManager()
	quizService := services.NewQuizService(geminiService, sessionManager, stateRepo, bankRepo, notifier, userLocks)
	shopService := services.NewShopService(stateRepo, notifier, userLocks)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewSessionHandler(quizService)
	progressHandler := handlers.NewProgressHandler(quizService)
	shopHandler := handlers.NewShopHandler(shopService)
	bankHandler := handlers.NewBankHandler(quizService)
	adminHandler := handlers.NewAdminHandler(quizService)

	// ──── Step 6: Start Streak Sweeper ────
	sweeper := services.NewStreakSweeper(quizService, stateRepo)
	sweeper.Start()
	log.Println("✓ Streak sweeper scheduled (daily at 00:00 UTC)")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		sessionHandler,
		progressHandler,
		shopHandler,
		bankHandler,
		adminHandler,
		wsHub,
		cfg.FrontendURL,
		cfg.Env,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		sweeper.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ SAT A! Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
