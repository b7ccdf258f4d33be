package metadata

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/clipwise/backend/internal/models"
)

// clipItem is the wire representation of a StoredClipRecord. All numeric
// conversion for the store happens here, at one explicit boundary, instead
// of ad hoc at call sites.
type clipItem struct {
	ClipID            string   `dynamodbav:"clip_id"`
	VideoID           string   `dynamodbav:"video_id"`
	S3Key             string   `dynamodbav:"s3_key"`
	S3URL             string   `dynamodbav:"s3_url"`
	StartTime         float64  `dynamodbav:"start_time"`
	EndTime           float64  `dynamodbav:"end_time"`
	Duration          float64  `dynamodbav:"duration"`
	FileSize          int64    `dynamodbav:"file_size"`
	FileSizeFormatted string   `dynamodbav:"file_size_formatted"`
	Resolution        string   `dynamodbav:"resolution"`
	InterestScore     int      `dynamodbav:"interest_score"`
	InterestReasons   []string `dynamodbav:"interest_reasons"`
	TranscriptText    string   `dynamodbav:"transcript_text"`
	WordCount         int      `dynamodbav:"word_count"`
	CharCount         int      `dynamodbav:"char_count"`
	CreatedAt         string   `dynamodbav:"created_at"`
	TTL               int64    `dynamodbav:"ttl"` // epoch seconds; DynamoDB expiry attribute
}

func toItem(rec models.StoredClipRecord) (map[string]types.AttributeValue, error) {
	item := clipItem{
		ClipID:            rec.ClipID,
		VideoID:           rec.VideoID,
		S3Key:             rec.S3Key,
		S3URL:             rec.SignedURL,
		StartTime:         rec.StartTime,
		EndTime:           rec.EndTime,
		Duration:          rec.Duration,
		FileSize:          rec.FileSize,
		FileSizeFormatted: rec.FileSizeDisplay,
		Resolution:        rec.Resolution,
		InterestScore:     rec.InterestScore,
		InterestReasons:   rec.InterestReasons,
		TranscriptText:    rec.TranscriptText,
		WordCount:         rec.WordCount,
		CharCount:         rec.CharCount,
		CreatedAt:         rec.CreatedAt.UTC().Format(time.RFC3339),
		TTL:               rec.ExpiresAt.Unix(),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal clip item: %w", err)
	}
	return av, nil
}

func fromItem(av map[string]types.AttributeValue) (models.StoredClipRecord, error) {
	var item clipItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return models.StoredClipRecord{}, fmt.Errorf("unmarshal clip item: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}
	return models.StoredClipRecord{
		ClipID:          item.ClipID,
		VideoID:         item.VideoID,
		S3Key:           item.S3Key,
		SignedURL:       item.S3URL,
		StartTime:       item.StartTime,
		EndTime:         item.EndTime,
		Duration:        item.Duration,
		FileSize:        item.FileSize,
		FileSizeDisplay: item.FileSizeFormatted,
		Resolution:      item.Resolution,
		InterestScore:   item.InterestScore,
		InterestReasons: item.InterestReasons,
		TranscriptText:  item.TranscriptText,
		WordCount:       item.WordCount,
		CharCount:       item.CharCount,
		CreatedAt:       createdAt,
		ExpiresAt:       time.Unix(item.TTL, 0).UTC(),
	}, nil
}
