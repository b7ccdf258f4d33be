package metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/clipwise/backend/internal/models"
)

const videoIndexName = "video_id-index"

// StoreConfig holds DynamoDB store configuration.
type StoreConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	TableName       string
}

// Store persists clip records in DynamoDB, keyed by (clip_id, video_id)
// with a TTL attribute so expired records age out on their own.
type Store struct {
	db     *dynamodb.Client
	table  string
	logger *zap.Logger
}

// NewStore creates a DynamoDB-backed clip metadata store.
func NewStore(ctx context.Context, cfg StoreConfig, logger *zap.Logger) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	} else if logger != nil {
		logger.Warn("DynamoDB client using default credential chain")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		db:     dynamodb.NewFromConfig(awsCfg),
		table:  cfg.TableName,
		logger: logger,
	}, nil
}

// EnsureTable creates the clip table, its video_id index and the TTL
// setting if the table does not exist yet. Safe to call on every startup.
func (s *Store) EnsureTable(ctx context.Context) error {
	_, err := s.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", s.table, err)
	}

	s.logger.Info("Creating clip metadata table", zap.String("table", s.table))
	_, err = s.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("clip_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("video_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("clip_id"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("video_id"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(videoIndexName),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("video_id"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.db)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", s.table, err)
	}

	_, err = s.db.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(s.table),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String("ttl"),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("enable ttl on %s: %w", s.table, err)
	}
	return nil
}

// Put writes one clip record. Records must carry a future expiry.
func (s *Store) Put(ctx context.Context, rec models.StoredClipRecord) error {
	if !rec.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("clip %s: expires_at %s is not in the future", rec.ClipID, rec.ExpiresAt)
	}
	item, err := toItem(rec)
	if err != nil {
		return err
	}
	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put clip %s: %w", rec.ClipID, err)
	}
	return nil
}

// Get fetches a single clip record. Returns (nil, nil) when the record is
// absent or already expired.
func (s *Store) Get(ctx context.Context, clipID, videoID string) (*models.StoredClipRecord, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"clip_id":  &types.AttributeValueMemberS{Value: clipID},
			"video_id": &types.AttributeValueMemberS{Value: videoID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get clip %s: %w", clipID, err)
	}
	if out.Item == nil {
		return nil, nil
	}
	rec, err := fromItem(out.Item)
	if err != nil {
		return nil, err
	}
	if !rec.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return &rec, nil
}

// QueryByVideo returns all live clip records for one video, filtering out
// records past their TTL that DynamoDB has not reaped yet.
func (s *Store) QueryByVideo(ctx context.Context, videoID string) ([]models.StoredClipRecord, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(videoIndexName),
		KeyConditionExpression: aws.String("video_id = :video_id"),
		FilterExpression:       aws.String("#ttl > :now"),
		ExpressionAttributeNames: map[string]string{
			"#ttl": "ttl",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":video_id": &types.AttributeValueMemberS{Value: videoID},
			":now":      &types.AttributeValueMemberN{Value: now},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query clips for video %s: %w", videoID, err)
	}

	records := make([]models.StoredClipRecord, 0, len(out.Items))
	for _, item := range out.Items {
		rec, err := fromItem(item)
		if err != nil {
			s.logger.Warn("Skipping malformed clip item", zap.String("video_id", videoID), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Delete removes one clip record.
func (s *Store) Delete(ctx context.Context, clipID, videoID string) error {
	_, err := s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"clip_id":  &types.AttributeValueMemberS{Value: clipID},
			"video_id": &types.AttributeValueMemberS{Value: videoID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete clip %s: %w", clipID, err)
	}
	return nil
}
