package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "mafia:stats:"

// Config holds configuration for the Redis stats repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis hashes,
// one hash per chat+player
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed stats repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func statsKey(chatID, playerID string) string {
	return fmt.Sprintf("%s%s:%s", statsKeyPrefix, chatID, playerID)
}

// IncrementStats applies counter increments atomically per field
func (r *redisRepository) IncrementStats(ctx context.Context, input *IncrementStatsInput) error {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return errors.New("input, chat ID and player ID cannot be empty")
	}

	key := statsKey(input.ChatID, input.PlayerID)
	pipe := r.client.Pipeline()

	if input.Name != "" {
		pipe.HSet(ctx, key, "name", input.Name)
	}
	for field, delta := range input.Increments {
		pipe.HIncrBy(ctx, key, field, delta)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment stats: %w", err)
	}

	return nil
}

// GetStats retrieves a player's counters in one chat
func (r *redisRepository) GetStats(ctx context.Context, input *GetStatsInput) (map[string]int64, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	fields, err := r.client.HGetAll(ctx, statsKey(input.ChatID, input.PlayerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	counters := make(map[string]int64, len(fields))
	for field, value := range fields {
		if field == "name" {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		counters[field] = n
	}

	return counters, nil
}
