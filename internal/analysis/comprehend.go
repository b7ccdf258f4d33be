package analysis

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"go.uber.org/zap"

	"github.com/clipwise/backend/internal/models"
)

// ComprehendConfig holds AWS Comprehend client configuration.
type ComprehendConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	LanguageCode    string
}

// Comprehend implements Client against AWS Comprehend.
type Comprehend struct {
	svc  *comprehend.Client
	lang types.LanguageCode
}

// NewComprehend creates a Comprehend-backed analysis client.
func NewComprehend(ctx context.Context, cfg ComprehendConfig, logger *zap.Logger) (*Comprehend, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	} else if logger != nil {
		logger.Warn("Comprehend client using default credential chain")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	lang := types.LanguageCode(cfg.LanguageCode)
	if lang == "" {
		lang = types.LanguageCodeEn
	}
	return &Comprehend{svc: comprehend.NewFromConfig(awsCfg), lang: lang}, nil
}

// DetectSentiment runs sentiment detection over one chunk.
func (c *Comprehend) DetectSentiment(ctx context.Context, text string) (models.SentimentSignal, error) {
	out, err := c.svc.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: c.lang,
	})
	if err != nil {
		return models.SentimentSignal{}, fmt.Errorf("detect sentiment: %w", err)
	}

	signal := models.SentimentSignal{Label: models.SentimentLabel(out.Sentiment)}
	if s := out.SentimentScore; s != nil {
		signal.Score = models.SentimentScore{
			Positive: f32(s.Positive),
			Negative: f32(s.Negative),
			Neutral:  f32(s.Neutral),
			Mixed:    f32(s.Mixed),
		}
	}
	return signal, nil
}

// DetectKeyPhrases runs key-phrase extraction over one chunk.
func (c *Comprehend) DetectKeyPhrases(ctx context.Context, text string) ([]string, error) {
	out, err := c.svc.DetectKeyPhrases(ctx, &comprehend.DetectKeyPhrasesInput{
		Text:         aws.String(text),
		LanguageCode: c.lang,
	})
	if err != nil {
		return nil, fmt.Errorf("detect key phrases: %w", err)
	}

	phrases := make([]string, 0, len(out.KeyPhrases))
	for _, p := range out.KeyPhrases {
		if p.Text != nil {
			phrases = append(phrases, *p.Text)
		}
	}
	return phrases, nil
}

func f32(p *float32) float64 {
	if p == nil {
		return 0
	}
	return float64(*p)
}
