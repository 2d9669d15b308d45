package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/winterden/mafiabot/internal/models"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix = "mafia:game:"
	deadlineIndex = "mafia:game:deadlines"

	// maxTxRetries bounds the optimistic-transaction retry loop
	maxTxRetries = 16
)

var (
	// ErrGameNotFound is returned when the chat has no game
	ErrGameNotFound = errors.New("game not found")

	// ErrGameExists is returned when the chat already has a game
	ErrGameExists = errors.New("game already exists for this chat")

	// ErrStageConflict is returned when a conditional update observed a
	// stage other than the expected one
	ErrStageConflict = errors.New("game is no longer in the expected stage")

	// ErrAlreadyActed is returned when the actor is already in played
	ErrAlreadyActed = errors.New("player already acted this stage")

	// ErrCardTaken is returned when the player's role is already claimed
	ErrCardTaken = errors.New("card already taken")

	// errTxRetriesExhausted is returned when the watch loop keeps losing
	errTxRetriesExhausted = errors.New("transaction retries exhausted")
)

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game repository
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

// CreateGame persists a new game. The one-game-per-chat invariant is
// enforced by the store: the key write is create-only.
func (r *redisRepository) CreateGame(ctx context.Context, input *CreateGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}

	if input.Game.ChatID == "" {
		return errors.New("chat ID cannot be empty")
	}

	gameJSON, err := json.Marshal(input.Game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	gameKey := gameKeyPrefix + input.Game.ChatID
	created, err := r.client.SetNX(ctx, gameKey, gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	if !created {
		return ErrGameExists
	}

	err = r.client.ZAdd(ctx, deadlineIndex, redis.Z{
		Score:  float64(input.Game.Deadline.Unix()),
		Member: input.Game.ChatID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index game deadline: %w", err)
	}

	return nil
}

// GetGame retrieves the chat's game
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	gameJSON, err := r.client.Get(ctx, gameKeyPrefix+input.ChatID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game models.Game
	if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// DeleteGame removes the chat's game and its deadline index entry
func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.ChatID == "" {
		return errors.New("input and chat ID cannot be empty")
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, gameKeyPrefix+input.ChatID)
	pipe.ZRem(ctx, deadlineIndex, input.ChatID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// ListExpired retrieves every game whose deadline has elapsed
func (r *redisRepository) ListExpired(ctx context.Context, input *ListExpiredInput) ([]*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	chatIDs, err := r.client.ZRangeByScore(ctx, deadlineIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", input.Now.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan deadline index: %w", err)
	}

	return r.fetchGames(ctx, chatIDs)
}

// ListByStage retrieves every game currently in the given stage
func (r *redisRepository) ListByStage(ctx context.Context, input *ListByStageInput) ([]*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	chatIDs, err := r.client.ZRange(ctx, deadlineIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan deadline index: %w", err)
	}

	games, err := r.fetchGames(ctx, chatIDs)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Game, 0, len(games))
	for _, game := range games {
		if game.Stage == input.Stage {
			filtered = append(filtered, game)
		}
	}

	return filtered, nil
}

// AdvanceStage moves the game to the next stage under a stage-equality
// guard. This is the mutual-exclusion mechanism for phase transitions: the
// deadline path and the early-completion path may both call it for the
// same pre-image, and only one write commits.
func (r *redisRepository) AdvanceStage(ctx context.Context, input *AdvanceStageInput) (*models.Game, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	return r.mutate(ctx, input.ChatID, func(game *models.Game) error {
		if game.Stage != input.FromStage {
			return ErrStageConflict
		}

		if input.ClearBuffers {
			game.ClearNightBuffers()
			game.CurrentEvent = input.Event
		}
		if input.IncrementDay {
			game.DayCount++
		}

		game.Stage = input.ToStage
		game.Deadline = input.Deadline
		game.Played = []string{}
		return nil
	})
}

// PushDeadline moves the game's deadline forward, used to defer a failed
// transition instead of hot-looping it
func (r *redisRepository) PushDeadline(ctx context.Context, input *PushDeadlineInput) error {
	if input == nil || input.ChatID == "" {
		return errors.New("input and chat ID cannot be empty")
	}

	_, err := r.mutate(ctx, input.ChatID, func(game *models.Game) error {
		game.Deadline = input.Deadline
		return nil
	})
	return err
}

// RecordNightAction appends a night action and marks the actor as played.
// The played-membership check runs inside the transaction, so two
// simultaneous submissions by the same actor cannot both succeed.
func (r *redisRepository) RecordNightAction(ctx context.Context, input *RecordNightActionInput) (*models.Game, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	if input.ActorID == "" {
		return nil, errors.New("actor ID cannot be empty")
	}

	return r.mutate(ctx, input.ChatID, func(game *models.Game) error {
		if game.Stage != input.Stage {
			return ErrStageConflict
		}
		if game.HasPlayed(input.ActorID) {
			return ErrAlreadyActed
		}

		switch input.Action {
		case models.NightActionShot:
			game.Shots = append(game.Shots, input.Target)
		case models.NightActionHeal:
			game.Heals = append(game.Heals, input.Target)
		case models.NightActionShield:
			game.Shields = append(game.Shields, input.Target)
		case models.NightActionBless:
			game.Blessings = append(game.Blessings, input.Target)
		case models.NightActionSilence:
			game.Silenced = append(game.Silenced, input.Target)
		case models.NightActionTrack:
			game.Tracks = append(game.Tracks, input.Target)
		case models.NightActionHide:
			game.HiddenShadows = append(game.HiddenShadows, input.Target)
		case models.NightActionSteal:
			game.Stolen = append(game.Stolen, input.Target)
		case models.NightActionBlock:
			target := game.PlayerAt(input.Target)
			if target == nil {
				return fmt.Errorf("block target %d out of range", input.Target)
			}
			game.Blocks = append(game.Blocks, target.ID)
		case models.NightActionCheckSheriff, models.NightActionCheckMafia:
			// Investigations resolve synchronously; only played is recorded.
		case models.NightActionNone:
			// Blocked actors are marked played with no effect.
		default:
			return fmt.Errorf("unknown night action %q", input.Action)
		}

		game.Played = append(game.Played, input.ActorID)
		return nil
	})
}

// RecordVote stores the voter's current choice; last write wins per voter
func (r *redisRepository) RecordVote(ctx context.Context, input *RecordVoteInput) (*models.Game, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	return r.mutate(ctx, input.ChatID, func(game *models.Game) error {
		if game.Stage != input.Stage {
			return ErrStageConflict
		}

		if game.Votes == nil {
			game.Votes = map[int]int{}
		}
		game.Votes[input.VoterIndex] = input.Target
		return nil
	})
}

// ClaimCard assigns the pre-shuffled role at the player's position
func (r *redisRepository) ClaimCard(ctx context.Context, input *ClaimCardInput) (*models.Game, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	return r.mutate(ctx, input.ChatID, func(game *models.Game) error {
		player := game.PlayerAt(input.PlayerIndex)
		if player == nil {
			return fmt.Errorf("player index %d out of range", input.PlayerIndex)
		}
		if player.Role != "" {
			return ErrCardTaken
		}
		if input.PlayerIndex >= len(game.Cards) {
			return fmt.Errorf("no card at position %d", input.PlayerIndex)
		}

		player.Role = game.Cards[input.PlayerIndex]
		return nil
	})
}

// SavePlayers persists the player list after a resolution step
func (r *redisRepository) SavePlayers(ctx context.Context, input *SavePlayersInput) error {
	if input == nil || input.ChatID == "" {
		return errors.New("input and chat ID cannot be empty")
	}

	_, err := r.mutate(ctx, input.ChatID, func(game *models.Game) error {
		game.Players = input.Players
		return nil
	})
	return err
}

// SetMessageID records the scoreboard message reference
func (r *redisRepository) SetMessageID(ctx context.Context, input *SetMessageIDInput) error {
	if input == nil || input.ChatID == "" {
		return errors.New("input and chat ID cannot be empty")
	}

	_, err := r.mutate(ctx, input.ChatID, func(game *models.Game) error {
		game.MessageID = input.MessageID
		return nil
	})
	return err
}

// SetPlayerPM records a player's private-message reference
func (r *redisRepository) SetPlayerPM(ctx context.Context, input *SetPlayerPMInput) error {
	if input == nil || input.ChatID == "" {
		return errors.New("input and chat ID cannot be empty")
	}

	_, err := r.mutate(ctx, input.ChatID, func(game *models.Game) error {
		player := game.PlayerAt(input.PlayerIndex)
		if player == nil {
			return fmt.Errorf("player index %d out of range", input.PlayerIndex)
		}
		player.PMID = input.PMID
		return nil
	})
	return err
}

// mutate runs fn against the chat's game inside an optimistic WATCH
// transaction and returns the post-update document. When a concurrent
// writer touches the key between read and commit the transaction fails
// cleanly and is retried, so fn's precondition checks are always evaluated
// against the committed state.
func (r *redisRepository) mutate(ctx context.Context, chatID string, fn func(*models.Game) error) (*models.Game, error) {
	gameKey := gameKeyPrefix + chatID
	var updated *models.Game

	txf := func(tx *redis.Tx) error {
		gameJSON, err := tx.Get(ctx, gameKey).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to get game: %w", err)
		}

		var game models.Game
		if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
			return fmt.Errorf("failed to unmarshal game: %w", err)
		}

		if err := fn(&game); err != nil {
			return err
		}
		game.UpdatedAt = time.Now()

		payload, err := json.Marshal(&game)
		if err != nil {
			return fmt.Errorf("failed to marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey, payload, 0)
			pipe.ZAdd(ctx, deadlineIndex, redis.Z{
				Score:  float64(game.Deadline.Unix()),
				Member: game.ChatID,
			})
			return nil
		})
		if err != nil {
			return err
		}

		updated = &game
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, gameKey)
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

// fetchGames loads the games for the given chat IDs, skipping entries
// deleted since the index scan and pruning their index members
func (r *redisRepository) fetchGames(ctx context.Context, chatIDs []string) ([]*models.Game, error) {
	if len(chatIDs) == 0 {
		return []*models.Game{}, nil
	}

	pipe := r.client.Pipeline()
	commands := make(map[string]*redis.StringCmd, len(chatIDs))
	for _, chatID := range chatIDs {
		commands[chatID] = pipe.Get(ctx, gameKeyPrefix+chatID)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}

	games := make([]*models.Game, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		gameJSON, err := commands[chatID].Result()
		if err != nil {
			if err == redis.Nil {
				// The game was deleted after the index scan.
				r.client.ZRem(ctx, deadlineIndex, chatID)
				continue
			}
			return nil, fmt.Errorf("failed to fetch game %s: %w", chatID, err)
		}

		var game models.Game
		if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %s: %w", chatID, err)
		}

		games = append(games, &game)
	}

	return games, nil
}
