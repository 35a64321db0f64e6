package cache

import (
	"context"
	"fmt"
	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
	"time"
)

const tableName = "soundings-cache"

// DynamoSoundingCache handles caching sounding reports in DynamoDB
type DynamoSoundingCache struct {
	client DynamoDBClient
	config *config.CacheConfig
	clock  clock
}

func NewDynamoSoundingCache(client DynamoDBClient, cacheConfig *config.CacheConfig) *DynamoSoundingCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoSoundingCache{
		client: client,
		config: cacheConfig,
		clock:  &systemClock{},
	}
}

// GetSoundings retrieves cached reports for a site and model cycle
func (c *DynamoSoundingCache) GetSoundings(ctx context.Context, siteID string, modelCycle string) (*models.SoundingRecord, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			"siteId":     &types.AttributeValueMemberS{Value: siteID},
			"modelCycle": &types.AttributeValueMemberS{Value: modelCycle},
		},
	}

	result, err := c.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("getting soundings from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.SoundingRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling sounding record: %w", err)
	}

	// Check if cache is valid
	if !c.isValid(record) {
		log.Debug().
			Str("site_id", siteID).
			Str("model_cycle", modelCycle).
			Msg("Cache expired")
		return nil, nil
	}

	return &record, nil
}

// SaveSoundings saves a sounding record to the cache
func (c *DynamoSoundingCache) SaveSoundings(ctx context.Context, record models.SoundingRecord) error {
	// Validate the record first
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid sounding record: %w", err)
	}

	now := c.clock.Now().Unix()
	record.LastUpdated = now
	record.TTL = now + int64(c.config.GetDynamoTTL().Seconds())

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling sounding record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      item,
	}

	if _, err := c.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("putting soundings in DynamoDB: %w", err)
	}

	log.Debug().
		Str("site_id", record.SiteID).
		Str("model_cycle", record.ModelCycle).
		Msg("Saved soundings to cache")

	return nil
}

// SaveSoundingsBatch saves multiple sounding records to the cache
func (c *DynamoSoundingCache) SaveSoundingsBatch(ctx context.Context, records []models.SoundingRecord) error {
	// Validate all records first
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("invalid sounding record: %w", err)
		}
	}

	// Process in batches using configured batch size
	batchSize := c.config.BatchSize
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := records[i:end]
		var writeRequests []types.WriteRequest

		for _, record := range batch {
			now := c.clock.Now().Unix()
			record.LastUpdated = now
			// Use configured TTL
			record.TTL = now + int64(c.config.GetDynamoTTL().Seconds())

			item, err := attributevalue.MarshalMap(record)
			if err != nil {
				return fmt.Errorf("marshaling sounding record: %w", err)
			}

			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{
					Item: item,
				},
			})
		}

		// Add retry logic with configured max retries
		var lastErr error
		for retry := 0; retry < c.config.MaxBatchRetries; retry++ {
			input := &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					tableName: writeRequests,
				},
			}

			if _, err := c.client.BatchWriteItem(ctx, input); err != nil {
				lastErr = err
				// Add exponential backoff
				time.Sleep(time.Duration(1<<retry) * 100 * time.Millisecond)
				continue
			}
			lastErr = nil
			break
		}
		if lastErr != nil {
			return fmt.Errorf("batch writing soundings after %d retries: %w",
				c.config.MaxBatchRetries, lastErr)
		}
	}

	return nil
}

func (c *DynamoSoundingCache) isValid(record models.SoundingRecord) bool {
	return c.clock.Now().Unix() < record.TTL
}
