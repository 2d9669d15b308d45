package poll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/winterden/mafiabot/internal/models"
)

const (
	pollKeyPrefix = "mafia:poll:"

	maxTxRetries = 16
)

var (
	// ErrPollNotFound is returned when no such poll is open
	ErrPollNotFound = errors.New("poll not found")

	// ErrPollExists is returned when the chat already has this poll open
	ErrPollExists = errors.New("poll already open for this chat")

	// ErrAlreadyVoted is returned when the player has already voted
	ErrAlreadyVoted = errors.New("player already voted in this poll")

	errTxRetriesExhausted = errors.New("transaction retries exhausted")
)

// Config holds configuration for the Redis poll repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed poll repository
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

func pollKey(chatID string, kind models.PollKind) string {
	return fmt.Sprintf("%s%s:%s", pollKeyPrefix, chatID, kind)
}

// CreatePoll persists a new poll with a create-only write
func (r *redisRepository) CreatePoll(ctx context.Context, input *CreatePollInput) error {
	if input == nil || input.Poll == nil {
		return errors.New("input and poll cannot be nil")
	}

	if input.Poll.ChatID == "" {
		return errors.New("chat ID cannot be empty")
	}

	pollJSON, err := json.Marshal(input.Poll)
	if err != nil {
		return fmt.Errorf("failed to marshal poll: %w", err)
	}

	created, err := r.client.SetNX(ctx, pollKey(input.Poll.ChatID, input.Poll.Kind), pollJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}
	if !created {
		return ErrPollExists
	}

	return nil
}

// GetPoll retrieves the chat's open poll of the given kind
func (r *redisRepository) GetPoll(ctx context.Context, input *GetPollInput) (*models.Poll, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	pollJSON, err := r.client.Get(ctx, pollKey(input.ChatID, input.Kind)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	var poll models.Poll
	if err := json.Unmarshal([]byte(pollJSON), &poll); err != nil {
		return nil, fmt.Errorf("failed to unmarshal poll: %w", err)
	}

	return &poll, nil
}

// AddVote records a player's vote exactly once. The membership check runs
// inside the transaction, so racing duplicate votes cannot both count.
func (r *redisRepository) AddVote(ctx context.Context, input *AddVoteInput) (*models.Poll, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	key := pollKey(input.ChatID, input.Kind)
	var updated *models.Poll

	txf := func(tx *redis.Tx) error {
		pollJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrPollNotFound
			}
			return fmt.Errorf("failed to get poll: %w", err)
		}

		var poll models.Poll
		if err := json.Unmarshal([]byte(pollJSON), &poll); err != nil {
			return fmt.Errorf("failed to unmarshal poll: %w", err)
		}

		if poll.HasVoted(input.PlayerID) {
			return ErrAlreadyVoted
		}
		poll.VoterIDs = append(poll.VoterIDs, input.PlayerID)

		payload, err := json.Marshal(&poll)
		if err != nil {
			return fmt.Errorf("failed to marshal poll: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &poll
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}

	return nil, errTxRetriesExhausted
}

// DeleteByChat discards every open poll in the chat
func (r *redisRepository) DeleteByChat(ctx context.Context, input *DeleteByChatInput) error {
	if input == nil || input.ChatID == "" {
		return errors.New("input and chat ID cannot be empty")
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, pollKey(input.ChatID, models.PollKindSkip))
	pipe.Del(ctx, pollKey(input.ChatID, models.PollKindEnd))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete polls: %w", err)
	}

	return nil
}
