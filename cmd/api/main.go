package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"journeymap/internal/config"
	"journeymap/internal/db"
	apihttp "journeymap/internal/http"
	"journeymap/internal/repository"
	"journeymap/internal/service"
	"journeymap/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
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

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	personaRepo := repository.NewPgPersonaRepository(pool)
	journeyRepo := repository.NewPgJourneyRepository(pool)

	var (
		tokenStore  service.RefreshTokenStore
		draftCache  service.DraftCache
		redisClient *redis.Client
	)
	draftCache = service.NewMemoryDraftCache()
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			draftCache = service.NewRedisDraftCache(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessMin)*time.Minute,
		time.Duration(cfg.JWTRefreshHrs)*time.Hour,
		tokenStore,
	)

	photoStore := storage.ObjectStore(storage.NewDisabledStore("object store not configured"))
	if cfg.MinIOEndpoint != "" {
		store, err := storage.NewMinIOStore(ctx, cfg)
		if err != nil {
			logger.Warn("minio init failed", zap.Error(err))
		} else {
			photoStore = store
		}
	}

	userSvc := service.NewUserService(logger, userRepo, photoStore)
	personaSvc := service.NewPersonaService(logger, personaRepo)
	journeySvc := service.NewJourneyService(logger, journeyRepo)
	manager := service.NewWorkspaceManager(logger, personaRepo, journeyRepo)

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc, manager)
	profileHandler := apihttp.NewProfileHandler(logger, userSvc, cfg.MaxImageBytes)
	personaHandler := apihttp.NewPersonaHandler(logger, manager, personaSvc, draftCache, cfg.MaxImageBytes)
	journeyHandler := apihttp.NewJourneyHandler(logger, manager, journeySvc, draftCache, cfg.MaxImageBytes)
	router := apihttp.NewRouter(logger, jwtSvc, authHandler, profileHandler, personaHandler, journeyHandler)

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
