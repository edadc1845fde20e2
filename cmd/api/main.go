package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/PharmInc/media-gateway/internal/auth"
	"github.com/PharmInc/media-gateway/internal/avatar"
	"github.com/PharmInc/media-gateway/internal/cache"
	redisx "github.com/PharmInc/media-gateway/internal/cache/redis"
	"github.com/PharmInc/media-gateway/internal/config"
	"github.com/PharmInc/media-gateway/internal/entity"
	"github.com/PharmInc/media-gateway/internal/logging"
	"github.com/PharmInc/media-gateway/internal/media"
	"github.com/PharmInc/media-gateway/internal/server"
	"github.com/PharmInc/media-gateway/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger, err := logging.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		logger.Error("connect minio", "error", err)
		return
	}

	// the service also ensures lazily; doing it here keeps first-request latency flat
	if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
		logger.Warn("ensure bucket at startup", "error", err)
	}

	mediaService := media.NewService(media.NewMinIOStore(minioClient), media.Options{
		Bucket:         cfg.MinIO.Bucket,
		Region:         cfg.MinIO.Region,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		MaxAvatarBytes: cfg.Media.MaxAvatarBytes,
		PresignTTL:     cfg.Media.PresignTTL,
		PublicBaseURL:  cfg.Media.PublicBaseURL,
		Logger:         logger,
	})

	pipeline := avatar.NewPipeline(mediaService, cfg.Media.AvatarSize)

	var kv cache.KV
	if cfg.Cache.Backend == "redis" {
		redisKV := redisx.New(redisx.Config{
			Addr:     cfg.Cache.RedisAddr,
			DB:       cfg.Cache.RedisDB,
			Password: cfg.Cache.RedisPassword,
		})
		defer redisKV.Close()
		if err := redisKV.Ping(ctx); err != nil {
			logger.Error("connect redis", "error", err)
			return
		}
		kv = redisKV
	} else {
		kv = cache.NewMemory()
	}

	caches := entity.NewCaches(kv, entity.NewClients(cfg.Services))

	router := server.NewRouter(server.Dependencies{
		Config:         cfg,
		Logger:         logger,
		ObjectStore:    minioClient,
		MediaService:   mediaService,
		AvatarPipeline: pipeline,
		TokenValidator: auth.NewValidator(cfg.Auth.ServiceTokenSecret),
		EntityCaches:   caches,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("media gateway listening", "address", cfg.Server.Address())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
