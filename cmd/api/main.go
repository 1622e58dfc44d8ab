// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/damilolaoke/carelink-backend/internal/alerts"
	"github.com/damilolaoke/carelink-backend/internal/auth"
	"github.com/damilolaoke/carelink-backend/internal/common/database"
	"github.com/damilolaoke/carelink-backend/internal/config"
	"github.com/damilolaoke/carelink-backend/internal/match"
	"github.com/damilolaoke/carelink-backend/internal/profile"
	"github.com/damilolaoke/carelink-backend/internal/social"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("Starting CareLink API")

	// 1. Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: ", err)
	}

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDB(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// 4. Connect to Redis (optional; token revocation degrades without it)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Redis unavailable (%v), continuing without token revocation cache", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("Connected to Redis")
		}
	}

	// 5. Run database migrations
	if err := runMigrations(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	log.Println("Database migrations completed")

	// 6. Auth module
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, redisClient, cfg)
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)

	// 7. Profile module
	var uploadService profile.UploadService
	if cfg.UseS3 {
		uploadService, err = profile.NewS3UploadService(cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			log.Fatal("Failed to initialize S3 uploads: ", err)
		}
	} else {
		uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL)
	}
	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo, uploadService)
	profileHandler := profile.NewHandler(profileService)

	// 8. Social module (friend requests and friendships)
	socialRepo := social.NewPostgresRepository(db)
	socialService := social.NewService(socialRepo)
	socialHandler := social.NewHandler(socialService)

	// 9. Match module (hobby matchmaking)
	matchRepo := match.NewPostgresRepository(db)
	matchService := match.NewService(matchRepo, socialService)
	matchHandler := match.NewHandler(matchService)

	// 10. Alerts module (caregiver notifications)
	var smsSender alerts.SMSSender
	if cfg.SMSProvider == "twilio" {
		smsSender = alerts.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	} else {
		smsSender = alerts.NewMockSMSSender()
	}

	var emailSender alerts.EmailSender
	if cfg.EmailProvider == "sendgrid" {
		emailSender = alerts.NewSendGridEmailSender(cfg.SendGridAPIKey, cfg.EmailFrom)
	} else {
		emailSender = alerts.NewMockEmailSender()
	}

	alertHub := alerts.NewHub()
	go alertHub.Run()

	alertsRepo := alerts.NewPostgresRepository(db)
	alertsService := alerts.NewService(alertsRepo, smsSender, emailSender, alertHub)
	alertsHandler := alerts.NewHandler(alertsService, alertHub)

	// 11. Routes
	router := mux.NewRouter()

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}

	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	authHandler.RegisterRoutes(router)
	authHandler.RegisterProtectedRoutes(router, authMiddleware)
	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	social.RegisterRoutes(router, socialHandler, authMiddleware)
	match.RegisterRoutes(router, matchHandler, authMiddleware)
	alerts.RegisterRoutes(router, alertsHandler, authMiddleware)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 12. Session cleanup job
	go startSessionCleanup(authRepo)

	// 13. Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s (%s)", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := alertHub.Shutdown(ctx); err != nil {
		log.Printf("Alert hub shutdown: %v", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// startSessionCleanup purges expired refresh sessions once a day
func startSessionCleanup(repo auth.Repository) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if n, err := repo.DeleteExpiredSessions(ctx); err != nil {
			log.Printf("Session cleanup failed: %v", err)
		} else if n > 0 {
			log.Printf("Session cleanup removed %d expired sessions", n)
		}
		cancel()
	}
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("%s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nquery: %s", err, migration)
		}
	}

	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		public_id UUID UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		username VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255),
		display_name VARCHAR(100) NOT NULL DEFAULT '',
		bio TEXT,
		date_of_birth DATE,
		phone VARCHAR(20),
		city VARCHAR(100),
		mobility_notes TEXT,
		avatar_url TEXT,
		provider VARCHAR(50) NOT NULL DEFAULT 'local',
		provider_id VARCHAR(255),
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		refresh_token TEXT UNIQUE NOT NULL,
		user_agent TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS friend_requests (
		id BIGSERIAL PRIMARY KEY,
		sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (sender_id != receiver_id)
	)`,

	// One live request per pair regardless of direction
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_friend_requests_pending_pair
		ON friend_requests (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id))
		WHERE status = 'pending'`,

	`CREATE TABLE IF NOT EXISTS friendships (
		user_id_1 BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user_id_2 BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id_1, user_id_2),
		CHECK (user_id_1 < user_id_2)
	)`,

	`CREATE TABLE IF NOT EXISTS match_profiles (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		bio TEXT NOT NULL DEFAULT '',
		hiking BOOLEAN NOT NULL DEFAULT FALSE,
		gardening BOOLEAN NOT NULL DEFAULT FALSE,
		board_games BOOLEAN NOT NULL DEFAULT FALSE,
		singing BOOLEAN NOT NULL DEFAULT FALSE,
		reading BOOLEAN NOT NULL DEFAULT FALSE,
		walking BOOLEAN NOT NULL DEFAULT FALSE,
		cooking BOOLEAN NOT NULL DEFAULT FALSE,
		movies BOOLEAN NOT NULL DEFAULT FALSE,
		tai_chi BOOLEAN NOT NULL DEFAULT FALSE,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS match_interactions (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		target_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, target_user_id),
		CHECK (user_id != target_user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS caregiver_contacts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		phone VARCHAR(20),
		email VARCHAR(255),
		notify_sms BOOLEAN NOT NULL DEFAULT FALSE,
		notify_email BOOLEAN NOT NULL DEFAULT FALSE,
		caregiver_user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message VARCHAR(500) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		resolved_at TIMESTAMPTZ,
		resolved_by BIGINT REFERENCES users(id) ON DELETE SET NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_friend_requests_receiver ON friend_requests (receiver_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_friend_requests_sender ON friend_requests (sender_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_match_interactions_target ON match_interactions (target_user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_user ON alerts (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_caregiver_contacts_user ON caregiver_contacts (user_id)`,
}
