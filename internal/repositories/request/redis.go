package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/winterden/mafiabot/internal/models"
)

const (
	requestKeyPrefix = "mafia:request:"
	expiryIndex      = "mafia:request:expiry"

	maxTxRetries = 16
)

var (
	// ErrRequestNotFound is returned when the chat has no request
	ErrRequestNotFound = errors.New("join request not found")

	// ErrRequestExists is returned when the chat already has a request
	ErrRequestExists = errors.New("join request already exists for this chat")

	// ErrRequestFull is returned when the request is at capacity
	ErrRequestFull = errors.New("join request is at maximum capacity")

	// ErrAlreadyJoined is returned when the player is already in
	ErrAlreadyJoined = errors.New("player already joined")

	// ErrNotJoined is returned when the player is not in the request
	ErrNotJoined = errors.New("player has not joined")

	errTxRetriesExhausted = errors.New("transaction retries exhausted")
)

// Config holds configuration for the Redis request repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed request repository
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

// CreateRequest persists a new request with a create-only write
func (r *redisRepository) CreateRequest(ctx context.Context, input *CreateRequestInput) error {
	if input == nil || input.Request == nil {
		return errors.New("input and request cannot be nil")
	}

	if input.Request.ChatID == "" {
		return errors.New("chat ID cannot be empty")
	}

	requestJSON, err := json.Marshal(input.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	created, err := r.client.SetNX(ctx, requestKeyPrefix+input.Request.ChatID, requestJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if !created {
		return ErrRequestExists
	}

	err = r.client.ZAdd(ctx, expiryIndex, redis.Z{
		Score:  float64(input.Request.ExpiresAt.Unix()),
		Member: input.Request.ChatID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index request expiry: %w", err)
	}

	return nil
}

// GetRequest retrieves the chat's request
func (r *redisRepository) GetRequest(ctx context.Context, input *GetRequestInput) (*models.JoinRequest, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	requestJSON, err := r.client.Get(ctx, requestKeyPrefix+input.ChatID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	var request models.JoinRequest
	if err := json.Unmarshal([]byte(requestJSON), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}

	return &request, nil
}

// DeleteRequest removes the chat's request
func (r *redisRepository) DeleteRequest(ctx context.Context, input *DeleteRequestInput) (bool, error) {
	if input == nil || input.ChatID == "" {
		return false, errors.New("input and chat ID cannot be empty")
	}

	deleted, err := r.client.Del(ctx, requestKeyPrefix+input.ChatID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete request: %w", err)
	}

	if err := r.client.ZRem(ctx, expiryIndex, input.ChatID).Err(); err != nil {
		return false, fmt.Errorf("failed to deindex request: %w", err)
	}

	return deleted > 0, nil
}

// JoinRequest adds a player under capacity and membership guards
func (r *redisRepository) JoinRequest(ctx context.Context, input *JoinRequestInput) (*models.JoinRequest, error) {
	if input == nil || input.Player == nil {
		return nil, errors.New("input and player cannot be nil")
	}

	return r.mutate(ctx, input.ChatID, func(request *models.JoinRequest) error {
		if request.HasPlayer(input.Player.ID) {
			return ErrAlreadyJoined
		}
		if len(request.Players) >= input.Capacity {
			return ErrRequestFull
		}

		request.Players = append(request.Players, input.Player)
		request.ExpiresAt = input.ExpiresAt
		return nil
	})
}

// LeaveRequest removes a player under a membership guard
func (r *redisRepository) LeaveRequest(ctx context.Context, input *LeaveRequestInput) (*models.JoinRequest, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	return r.mutate(ctx, input.ChatID, func(request *models.JoinRequest) error {
		players := make([]*models.Player, 0, len(request.Players))
		found := false
		for _, p := range request.Players {
			if p.ID == input.PlayerID {
				found = true
				continue
			}
			players = append(players, p)
		}
		if !found {
			return ErrNotJoined
		}

		request.Players = players
		return nil
	})
}

// SetMessageID records the lobby message reference
func (r *redisRepository) SetMessageID(ctx context.Context, input *SetMessageIDInput) error {
	if input == nil || input.ChatID == "" {
		return errors.New("input and chat ID cannot be empty")
	}

	_, err := r.mutate(ctx, input.ChatID, func(request *models.JoinRequest) error {
		request.MessageID = input.MessageID
		return nil
	})
	return err
}

// ListExpired retrieves every request past its expiry
func (r *redisRepository) ListExpired(ctx context.Context, input *ListExpiredInput) ([]*models.JoinRequest, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	chatIDs, err := r.client.ZRangeByScore(ctx, expiryIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", input.Now.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan expiry index: %w", err)
	}

	requests := make([]*models.JoinRequest, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		request, err := r.GetRequest(ctx, &GetRequestInput{ChatID: chatID})
		if err != nil {
			if errors.Is(err, ErrRequestNotFound) {
				r.client.ZRem(ctx, expiryIndex, chatID)
				continue
			}
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// mutate runs fn against the chat's request inside an optimistic WATCH
// transaction, retrying when a concurrent writer commits first
func (r *redisRepository) mutate(ctx context.Context, chatID string, fn func(*models.JoinRequest) error) (*models.JoinRequest, error) {
	if chatID == "" {
		return nil, errors.New("chat ID cannot be empty")
	}

	requestKey := requestKeyPrefix + chatID
	var updated *models.JoinRequest

	txf := func(tx *redis.Tx) error {
		requestJSON, err := tx.Get(ctx, requestKey).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to get request: %w", err)
		}

		var request models.JoinRequest
		if err := json.Unmarshal([]byte(requestJSON), &request); err != nil {
			return fmt.Errorf("failed to unmarshal request: %w", err)
		}

		if err := fn(&request); err != nil {
			return err
		}

		payload, err := json.Marshal(&request)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, requestKey, payload, 0)
			pipe.ZAdd(ctx, expiryIndex, redis.Z{
				Score:  float64(request.ExpiresAt.Unix()),
				Member: request.ChatID,
			})
			return nil
		})
		if err != nil {
			return err
		}

		updated = &request
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, requestKey)
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
