package minigame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/winterden/mafiabot/internal/models"
)

const (
	crocoKeyPrefix   = "mafia:croco:"
	gallowsKeyPrefix = "mafia:gallows:"

	maxTxRetries = 16
)

var (
	// ErrRoundNotFound is returned when the chat has no running round
	ErrRoundNotFound = errors.New("round not found")

	// ErrRoundExists is returned when the chat already has a round
	ErrRoundExists = errors.New("round already running in this chat")

	// ErrLetterTaken is returned when the letter was already tried
	ErrLetterTaken = errors.New("letter already tried")

	errTxRetriesExhausted = errors.New("transaction retries exhausted")
)

// Config holds configuration for the Redis mini-game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed mini-game repository
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

// CreateCroco persists a new croco round with a create-only write
func (r *redisRepository) CreateCroco(ctx context.Context, input *CreateCrocoInput) error {
	if input == nil || input.Round == nil {
		return errors.New("input and round cannot be nil")
	}

	return r.createRound(ctx, crocoKeyPrefix+input.Round.ChatID, input.Round)
}

// GetCroco retrieves the chat's croco round
func (r *redisRepository) GetCroco(ctx context.Context, input *GetCrocoInput) (*models.CrocoRound, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	roundJSON, err := r.client.Get(ctx, crocoKeyPrefix+input.ChatID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get croco round: %w", err)
	}

	var round models.CrocoRound
	if err := json.Unmarshal([]byte(roundJSON), &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal croco round: %w", err)
	}

	return &round, nil
}

// DeleteCroco removes the chat's croco round. The deleted-count result is
// what decides a race between two simultaneous correct guesses.
func (r *redisRepository) DeleteCroco(ctx context.Context, input *DeleteCrocoInput) (bool, error) {
	if input == nil || input.ChatID == "" {
		return false, errors.New("input and chat ID cannot be empty")
	}

	deleted, err := r.client.Del(ctx, crocoKeyPrefix+input.ChatID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete croco round: %w", err)
	}

	return deleted > 0, nil
}

// CreateGallows persists a new gallows round with a create-only write
func (r *redisRepository) CreateGallows(ctx context.Context, input *CreateGallowsInput) error {
	if input == nil || input.Round == nil {
		return errors.New("input and round cannot be nil")
	}

	return r.createRound(ctx, gallowsKeyPrefix+input.Round.ChatID, input.Round)
}

// GetGallows retrieves the chat's gallows round
func (r *redisRepository) GetGallows(ctx context.Context, input *GetGallowsInput) (*models.GallowsRound, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	roundJSON, err := r.client.Get(ctx, gallowsKeyPrefix+input.ChatID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get gallows round: %w", err)
	}

	var round models.GallowsRound
	if err := json.Unmarshal([]byte(roundJSON), &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gallows round: %w", err)
	}

	return &round, nil
}

// DeleteGallows removes the chat's gallows round
func (r *redisRepository) DeleteGallows(ctx context.Context, input *DeleteGallowsInput) (bool, error) {
	if input == nil || input.ChatID == "" {
		return false, errors.New("input and chat ID cannot be empty")
	}

	deleted, err := r.client.Del(ctx, gallowsKeyPrefix+input.ChatID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete gallows round: %w", err)
	}

	return deleted > 0, nil
}

// SubmitLetter records a letter guess exactly once. Racing guesses for the
// same letter resolve inside the transaction; the loser gets
// ErrLetterTaken.
func (r *redisRepository) SubmitLetter(ctx context.Context, input *SubmitLetterInput) (*models.GallowsRound, error) {
	if input == nil || input.ChatID == "" || input.Letter == "" {
		return nil, errors.New("input, chat ID and letter cannot be empty")
	}

	key := gallowsKeyPrefix + input.ChatID
	var updated *models.GallowsRound

	txf := func(tx *redis.Tx) error {
		roundJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrRoundNotFound
			}
			return fmt.Errorf("failed to get gallows round: %w", err)
		}

		var round models.GallowsRound
		if err := json.Unmarshal([]byte(roundJSON), &round); err != nil {
			return fmt.Errorf("failed to unmarshal gallows round: %w", err)
		}

		if _, ok := round.Right[input.Letter]; ok {
			return ErrLetterTaken
		}
		if _, ok := round.Wrong[input.Letter]; ok {
			return ErrLetterTaken
		}

		if round.Names == nil {
			round.Names = map[string]string{}
		}
		round.Names[input.PlayerID] = input.PlayerName

		if input.Correct {
			if round.Right == nil {
				round.Right = map[string]string{}
			}
			round.Right[input.Letter] = input.PlayerID
		} else {
			if round.Wrong == nil {
				round.Wrong = map[string]string{}
			}
			round.Wrong[input.Letter] = input.PlayerID
		}

		payload, err := json.Marshal(&round)
		if err != nil {
			return fmt.Errorf("failed to marshal gallows round: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &round
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

// SetGallowsMessageID records the board message reference
func (r *redisRepository) SetGallowsMessageID(ctx context.Context, input *SetGallowsMessageIDInput) error {
	if input == nil || input.ChatID == "" {
		return errors.New("input and chat ID cannot be empty")
	}

	key := gallowsKeyPrefix + input.ChatID

	txf := func(tx *redis.Tx) error {
		roundJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrRoundNotFound
			}
			return fmt.Errorf("failed to get gallows round: %w", err)
		}

		var round models.GallowsRound
		if err := json.Unmarshal([]byte(roundJSON), &round); err != nil {
			return fmt.Errorf("failed to unmarshal gallows round: %w", err)
		}

		round.MessageID = input.MessageID

		payload, err := json.Marshal(&round)
		if err != nil {
			return fmt.Errorf("failed to marshal gallows round: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}

	return errTxRetriesExhausted
}

// createRound writes a round document only when the chat has none
func (r *redisRepository) createRound(ctx context.Context, key string, round interface{}) error {
	roundJSON, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	created, err := r.client.SetNX(ctx, key, roundJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	if !created {
		return ErrRoundExists
	}

	return nil
}
