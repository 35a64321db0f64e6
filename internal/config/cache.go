package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	SoundingLRUSize       int
	SoundingLRUTTLMinutes int

	// DynamoDB Cache settings
	SoundingDynamoTTLHours int
	SiteListTTLDays        int

	// Response Cache settings
	ResponseLRUSize       int
	ResponseLRUTTLMinutes int

	// Batch processing settings
	BatchSize       int
	MaxBatchRetries int

	// General settings
	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	// Default values
	defaultSoundingLRUSize    = 1000
	defaultSoundingTTLMinutes = 15
	defaultDynamoTTLHours     = 6
	defaultSiteListTTLDays    = 2
	defaultResponseLRUSize    = 5000
	defaultResponseTTLMinutes = 15
	defaultBatchSize          = 25
	defaultMaxBatchRetries    = 3
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		// Set defaults
		SoundingLRUSize:        getEnvInt("CACHE_SOUNDING_LRU_SIZE", defaultSoundingLRUSize),
		SoundingLRUTTLMinutes:  getEnvInt("CACHE_SOUNDING_LRU_TTL_MINUTES", defaultSoundingTTLMinutes),
		SoundingDynamoTTLHours: getEnvInt("CACHE_DYNAMO_TTL_HOURS", defaultDynamoTTLHours),
		SiteListTTLDays:        getEnvInt("CACHE_SITE_LIST_TTL_DAYS", defaultSiteListTTLDays),
		ResponseLRUSize:        getEnvInt("CACHE_RESPONSE_LRU_SIZE", defaultResponseLRUSize),
		ResponseLRUTTLMinutes:  getEnvInt("CACHE_RESPONSE_TTL_MINUTES", defaultResponseTTLMinutes),
		BatchSize:              getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries:        getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
		EnableLRUCache:         getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:      getEnvBool("CACHE_ENABLE_DYNAMO", true),
	}

	log.Debug().
		Int("SoundingLRUSize", config.SoundingLRUSize).
		Int("SoundingLRUTTLMinutes", config.SoundingLRUTTLMinutes).
		Int("SoundingDynamoTTLHours", config.SoundingDynamoTTLHours).
		Int("SiteListTTLDays", config.SiteListTTLDays).
		Int("ResponseLRUSize", config.ResponseLRUSize).
		Int("ResponseLRUTTLMinutes", config.ResponseLRUTTLMinutes).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

// Helper methods for the CacheConfig struct
func (c *CacheConfig) GetSoundingLRUTTL() time.Duration {
	return time.Duration(c.SoundingLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetResponseLRUTTL() time.Duration {
	return time.Duration(c.ResponseLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.SoundingDynamoTTLHours) * time.Hour
}

func (c *CacheConfig) GetSiteListTTL() time.Duration {
	return time.Duration(c.SiteListTTLDays) * 24 * time.Hour
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
