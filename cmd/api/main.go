package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"auth-api/internal/config"
	"auth-api/internal/db"
	apihttp "auth-api/internal/http"
	"auth-api/internal/repository"
	"auth-api/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	userV2Repo := repository.NewPgUserV2Repository(pool)

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	authSvc := service.NewAuthService(logger, userRepo, jwtSvc)
	userSvc := service.NewUserService(logger, userRepo, userV2Repo)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, userSvc)
	router := apihttp.NewRouter(logger, authHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
