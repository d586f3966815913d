package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/benmill23/Image-Uploader/internal/config"
	"github.com/benmill23/Image-Uploader/internal/delivery"
	ws "github.com/benmill23/Image-Uploader/internal/delivery/ws"
	"github.com/benmill23/Image-Uploader/internal/domain"
	"github.com/benmill23/Image-Uploader/internal/domain/stations"
	"github.com/benmill23/Image-Uploader/internal/infra"
	pkglogger "github.com/benmill23/Image-Uploader/pkg/logger"
)

func main() {

	// LOGGER
	zl, err := pkglogger.New()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	hl := logger.NewZapLogger(zl.Sugar())

	// CONFIG
	cfg, err := config.Load()
	if err != nil {
		zl.Fatal("failed to load config", zap.Error(err))
	}

	// POSTGRES
	ctx := context.Background()

	if err := infra.RunMigrations(cfg.DB.URL); err != nil {
		zl.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := infra.NewPgxPool(ctx, cfg.DB.URL)
	if err != nil {
		zl.Fatal("cannot connect pgxpool", zap.Error(err))
	}
	defer pool.Close()

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctxPing); err != nil {
		zl.Fatal("postgres ping failed", zap.Error(err))
	}

	// STORAGE
	storage, err := infra.NewS3Storage(&cfg.S3, zl)
	if err != nil {
		zl.Fatal("cannot create object storage", zap.Error(err))
	}

	// REPOSITORIES
	imageRepo := infra.NewPostgresImageRepo(pool)
	userRepo := infra.NewPostgresUserRepo(pool)

	// AI CLIENTS
	captionClient := infra.NewCaptionClient(cfg.AI.CaptionURL, cfg.AI.CaptionToken, zl)
	gptClient := infra.NewGPTClient(cfg.AI.OpenRouterKey, cfg.AI.Model, zl)

	// STATIONS
	s1 := stations.NewS1Resize(cfg.Upload.MaxWidth, cfg.Upload.MaxBytes)
	s2 := stations.NewS2Caption(captionClient)
	s3 := stations.NewS3Classify(gptClient)

	// SERVICES
	authService := domain.NewAuthService(userRepo, cfg.Auth.Secret)
	urlCache := domain.NewSignedURLCache(storage, time.Duration(cfg.Upload.SignedURLTTL)*time.Second)
	uploadService := domain.NewUploadService(
		imageRepo, storage,
		s1, s2, s3,
		cfg.Upload.MaxImages,
		time.Duration(cfg.Upload.ClassifyTimeo)*time.Second,
		zl,
	)
	galleryService := domain.NewGalleryService(imageRepo, urlCache, cfg.Upload.MaxImages, zl)

	// WS HUB
	hub := ws.NewHub()

	// BROADCAST LISTENER
	go func() {
		for ev := range uploadService.Events() {
			payload, err := json.Marshal(ev)
			if err != nil {
				zl.Error("event marshal failed", zap.Error(err))
				continue
			}
			hub.SendToRoom(strconv.Itoa(ev.UserID), payload)
		}
	}()

	// HANDLERS
	authHandler := delivery.NewAuthHandler(authService, hl)
	imageHandler := delivery.NewImageHandler(uploadService, galleryService, hl)

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Auth"},
		AllowCredentials: true,
	}))

	delivery.RegisterRoutes(r, authHandler, authService, imageHandler)

	r.Get("/ws", ws.Handler(hub, authService))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	zl.Info("server started", zap.String("port", cfg.Server.Port))

	if err := http.ListenAndServe(cfg.Server.Host+":"+cfg.Server.Port, r); err != nil {
		zl.Error("server crashed", zap.Error(err))
	}
}
