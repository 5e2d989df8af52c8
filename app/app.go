// File: app/app.go
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secure-auth-api/config"
	"secure-auth-api/db"
	"secure-auth-api/handler"
	"secure-auth-api/logger"
	"secure-auth-api/repository"
	"secure-auth-api/router"
	"secure-auth-api/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	// --- Wiring All Layers Together ---
	// Repositories, services and handlers are created here and passed down
	// explicitly; nothing below this point reads global state.

	userRepo := repository.NewUserRepository(database)

	var tokenRepo repository.ITokenRepository
	switch config.AppConfig.Session.Store {
	case "redis":
		redisClient, err := db.ConnectRedis()
		if err != nil {
			logger.Log.Fatalf("Error connecting to redis: %v", err)
		}
		defer redisClient.Close()
		tokenRepo = repository.NewRedisTokenRepository(redisClient)
	case "memory":
		logger.Log.Warn("Using in-memory session store; sessions will not survive a restart")
		tokenRepo = repository.NewMemoryTokenRepository()
	default:
		tokenRepo = repository.NewTokenRepository(database)
	}
	logger.Log.WithField("store", config.AppConfig.Session.Store).Info("Refresh session store initialized")

	codec := service.NewTokenCodec([]byte(config.AppConfig.JWT.SecretKey))
	authService := service.NewAuthService(userRepo, tokenRepo, codec,
		config.AppConfig.Auth.AccessTTL, config.AppConfig.Auth.RefreshTTL)
	userService := service.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	r := router.NewRouter(userHandler, authHandler, codec)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// TestApp bundles a fully wired router and its services around caller-supplied
// repositories, so integration tests can run against in-memory or real stores.
type TestApp struct {
	Router      http.Handler
	AuthService *service.AuthService
	UserService *service.UserService
	Codec       *service.TokenCodec
}

func NewTestApp(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, secretKey []byte, accessTTL, refreshTTL time.Duration) *TestApp {
	codec := service.NewTokenCodec(secretKey)
	authService := service.NewAuthService(userRepo, tokenRepo, codec, accessTTL, refreshTTL)
	userService := service.NewUserService(userRepo)

	return &TestApp{
		Router:      router.NewRouter(handler.NewUserHandler(userService), handler.NewAuthHandler(authService), codec),
		AuthService: authService,
		UserService: userService,
		Codec:       codec,
	}
}
