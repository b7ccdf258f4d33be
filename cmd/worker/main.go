// Package main runs the background clip pipeline worker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clipwise/backend/config"
	"github.com/clipwise/backend/internal/analysis"
	"github.com/clipwise/backend/internal/clipper"
	"github.com/clipwise/backend/internal/clips"
	"github.com/clipwise/backend/internal/metadata"
	"github.com/clipwise/backend/internal/transcript"
	"github.com/clipwise/backend/internal/worker"
	"github.com/clipwise/backend/pkg/database"
	"github.com/clipwise/backend/pkg/queue"
	"github.com/clipwise/backend/pkg/redis"
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

	transcripts := transcript.NewService(transcript.NewTimedTextClient(30*time.Second), transcript.NewRepository(pool), logger)

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
	processor := worker.NewClipProcessor(clipService, jobQueue, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
