package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AWS      AWSConfig
	Clipper  ClipperConfig
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings for the transcript cache.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/clipwise?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AWSConfig holds AWS credentials and resource names.
type AWSConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	ClipsBucket        string
	ClipTableName      string
	SignedURLExpireSec int
	ClipTTLHours       int
}

// ClipperConfig holds clip extraction settings.
type ClipperConfig struct {
	MaxClipDuration  float64 // seconds; inclusive upper bound for a clip
	PreviewSeconds   float64
	MaxClipsPerVideo int
	TempDir          string // empty = os.TempDir()
	YtdlpPath        string
	FFmpegPath       string
	FFprobePath      string
	PreviewsEnabled  bool
}

// AnalysisConfig holds text analysis (Comprehend) settings.
type AnalysisConfig struct {
	Region        string
	MaxChunkChars int
	MaxConcurrent int
	LanguageCode  string
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 600),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "clipwise"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		AWS: AWSConfig{
			Region:             getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
			ClipsBucket:        getEnv("S3_BUCKET_NAME", "clipwise-v1"),
			ClipTableName:      getEnv("DYNAMO_TABLE_NAME", "ClipMeta"),
			SignedURLExpireSec: getEnvInt("SIGNED_URL_EXPIRE_SEC", 3600*24*5),
			ClipTTLHours:       getEnvInt("CLIP_TTL_HOURS", 24),
		},
		Clipper: ClipperConfig{
			MaxClipDuration:  getEnvFloat("MAX_CLIP_DURATION_SEC", 30.0),
			PreviewSeconds:   getEnvFloat("PREVIEW_SECONDS", 5.0),
			MaxClipsPerVideo: getEnvInt("MAX_CLIPS_PER_VIDEO", 10),
			TempDir:          getEnv("CLIP_TEMP_DIR", ""),
			YtdlpPath:        getEnv("YTDLP_PATH", "yt-dlp"),
			FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath:      getEnv("FFPROBE_PATH", "ffprobe"),
			PreviewsEnabled:  getEnvBool("PREVIEWS_ENABLED", false),
		},
		Analysis: AnalysisConfig{
			Region:        getEnv("COMPREHEND_REGION", getEnv("AWS_REGION", "us-east-1")),
			MaxChunkChars: getEnvInt("ANALYSIS_MAX_CHUNK_CHARS", 4000),
			MaxConcurrent: getEnvInt("ANALYSIS_MAX_CONCURRENT", 4),
			LanguageCode:  getEnv("ANALYSIS_LANGUAGE_CODE", "en"),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
