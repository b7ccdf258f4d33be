// Package main runs the clip pipeline HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clipwise/backend/config"
	"github.com/clipwise/backend/internal/analysis"
	"github.com/clipwise/backend/internal/clipper"
	"github.com/clipwise/backend/internal/clips"
	"github.com/clipwise/backend/internal/metadata"
	"github.com/clipwise/backend/internal/middleware"
	"github.com/clipwise/backend/internal/transcript"
	"github.com/clipwise/backend/internal/worker"
	"github.com/clipwise/backend/pkg/database"
	"github.com/clipwise/backend/pkg/queue"
	"github.com/clipwise/backend/pkg/redis"
	"github.com/clipwise/backend/pkg/response"
	"github.com/clipwise/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	s3Client, err := storage.NewS3(ctx, storage.S3Config{
		Region:             cfg.AWS.Region,
		AccessKeyID:        cfg.AWS.AccessKeyID,
		SecretAccessKey:    cfg.AWS.SecretAccessKey,
		ClipsBucket:        cfg.AWS.ClipsBucket,
		SignedURLExpireSec: cfg.AWS.SignedURLExpireSec,
	}, logger)
	if err != nil {
		logger.Fatal("s3", zap.Error(err))
	}

	store, err := metadata.NewStore(ctx, metadata.StoreConfig{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		TableName:       cfg.AWS.ClipTableName,
	}, logger)
	if err != nil {
		logger.Fatal("dynamodb", zap.Error(err))
	}
	if err := store.EnsureTable(ctx); err != nil {
		logger.Fatal("ensure clip table", zap.Error(err))
	}

	comprehendClient, err := analysis.NewComprehend(ctx, analysis.ComprehendConfig{
		Region:          cfg.Analysis.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		LanguageCode:    cfg.Analysis.LanguageCode,
	}, logger)
	if err != nil {
		logger.Fatal("comprehend", zap.Error(err))
	}
	analyzer := analysis.New(comprehendClient, cfg.Analysis.MaxChunkChars, cfg.Analysis.MaxConcurrent, logger)

	transcriptCache := transcript.NewRepository(pool)
	transcripts := transcript.NewService(transcript.NewTimedTextClient(30*time.Second), transcriptCache, logger)

	workDir := cfg.Clipper.TempDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	ffmpeg := clipper.NewFFmpeg(cfg.Clipper.FFmpegPath, cfg.Clipper.FFprobePath)
	assembler := clipper.NewAssembler(
		clipper.NewYtdlpDownloader(cfg.Clipper.YtdlpPath),
		ffmpeg,
		ffmpeg,
		workDir,
		cfg.Clipper.MaxClipDuration,
		cfg.Analysis.MaxConcurrent,
		logger,
	)

	clipService := clips.NewService(transcripts, analyzer, assembler, s3Client, store, rdb, clips.Options{
		MaxClipDuration:  cfg.Clipper.MaxClipDuration,
		MaxClipsPerVideo: cfg.Clipper.MaxClipsPerVideo,
		ClipTTL:          time.Duration(cfg.AWS.ClipTTLHours) * time.Hour,
		PreviewsEnabled:  cfg.Clipper.PreviewsEnabled,
		PreviewSeconds:   cfg.Clipper.PreviewSeconds,
	}, logger)

	jobQueue := queue.NewQueue(rdb.Client, logger)
	clipHandler := clips.NewHandler(clipService, jobQueue, logger)
	clipProcessor := worker.NewClipProcessor(clipService, jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	router.POST("/clips", clipHandler.Process)
	router.POST("/clips/async", clipHandler.ProcessAsync)
	router.GET("/videos/:videoID/clips", clipHandler.List)
	router.DELETE("/videos/:videoID/clips/:clipID", clipHandler.Delete)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (async clip jobs)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go clipProcessor.Run(workerCtx)
	logger.Info("clip worker started")

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
