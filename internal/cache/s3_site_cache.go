package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/aloftwx/aloft/backend-go/internal/config"
	"github.com/aloftwx/aloft/backend-go/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"io"
	"time"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const (
	cacheKey = "sites.json"
)

// S3SiteCache provides caching for site lists in S3
type S3SiteCache struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	clock      clock
}

// SiteListCacheRecord represents the cached site list with metadata
type SiteListCacheRecord struct {
	Sites       []models.Site `json:"sites"`
	LastUpdated int64         `json:"lastUpdated"`
	TTL         int64         `json:"ttl"`
}

// SiteListCacheProvider defines interface for site list caching
type SiteListCacheProvider interface {
	GetSites(ctx context.Context) ([]models.Site, error)
	SaveSites(ctx context.Context, sites []models.Site) error
}

// NewS3SiteCache creates an S3-backed site list cache for the given bucket
func NewS3SiteCache(ctx context.Context, bucketName string, cacheConfig *config.CacheConfig) (*S3SiteCache, error) {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &S3SiteCache{
		client:     s3.NewFromConfig(awsCfg),
		bucketName: bucketName,
		ttl:        cacheConfig.GetSiteListTTL(),
		clock:      &systemClock{},
	}, nil
}

// GetSites retrieves sites from S3 cache if available and valid
func (c *S3SiteCache) GetSites(ctx context.Context) ([]models.Site, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	// Get object from S3
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(cacheKey),
	})
	if err != nil {
		// If object doesn't exist, return nil without error
		return nil, nil
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	// Decode cache record
	var record SiteListCacheRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding cache record: %w", err)
	}

	// Check if cache is expired
	if c.clock.Now().Unix() > record.TTL {
		log.Debug().Msg("Site list cache expired")
		return nil, nil
	}

	return record.Sites, nil
}

// SaveSites saves sites to S3 cache
func (c *S3SiteCache) SaveSites(ctx context.Context, sites []models.Site) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	// Create cache record
	now := c.clock.Now().Unix()
	record := SiteListCacheRecord{
		Sites:       sites,
		LastUpdated: now,
		TTL:         now + int64(c.ttl.Seconds()),
	}

	// Encode record
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding cache record: %w", err)
	}

	// Save to S3
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(cacheKey),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().Int("site_count", len(sites)).Msg("Saved site list to S3 cache")
	return nil
}
