package croco

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	minigameRepo "github.com/winterden/mafiabot/internal/repositories/minigame"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
	"github.com/winterden/mafiabot/internal/services/messaging"
)

var (
	// ErrRoundNotFound is returned when the chat has no running round
	ErrRoundNotFound = errors.New("no croco round running in this chat")

	// ErrRoundExists is returned when the chat already has a round
	ErrRoundExists = errors.New("croco round already running in this chat")
)

// service implements the Service interface
type service struct {
	cfg *Config
}

// NewService creates a new croco service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.MinigameRepo == nil {
		return nil, errors.New("minigame repository cannot be nil")
	}
	if cfg.StatsRepo == nil {
		return nil, errors.New("stats repository cannot be nil")
	}
	if cfg.Notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if cfg.Words == nil {
		return nil, errors.New("word source cannot be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}
	if cfg.UUID == nil {
		return nil, errors.New("uuid generator cannot be nil")
	}

	return &service{cfg: cfg}, nil
}

// StartRound makes the caller the host and deals them a secret word
func (s *service) StartRound(ctx context.Context, input *StartRoundInput) (*StartRoundOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	round := &models.CrocoRound{
		ID:        s.cfg.UUID.NewUUID(),
		ChatID:    input.ChatID,
		HostID:    input.PlayerID,
		HostName:  input.PlayerName,
		Word:      s.cfg.Words.RandomWord(),
		CreatedAt: s.cfg.Clock.Now(),
	}

	err := s.cfg.MinigameRepo.CreateCroco(ctx, &minigameRepo.CreateCrocoInput{Round: round})
	if err != nil {
		if errors.Is(err, minigameRepo.ErrRoundExists) {
			return nil, ErrRoundExists
		}
		return nil, err
	}

	s.send(ctx, input.ChatID, fmt.Sprintf(lang.CrocoStarted, input.PlayerName))

	if _, err := s.cfg.Notifier.SendPrivate(ctx, &messaging.SendPrivateInput{
		UserID: input.PlayerID,
		Text:   fmt.Sprintf(lang.CrocoWordPM, round.Word),
	}); err != nil {
		zap.S().Errorw("failed to deliver croco word", "chat_id", input.ChatID, "error", err)
	}

	return &StartRoundOutput{Round: round}, nil
}

// Suggest scans a chat message for the secret word. A match ends the
// round: the guesser is credited unless the host leaked the word
// themselves. The delete doubles as the finish lock, so two racing
// matches credit exactly once.
func (s *service) Suggest(ctx context.Context, input *SuggestInput) (*SuggestOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	round, err := s.cfg.MinigameRepo.GetCroco(ctx, &minigameRepo.GetCrocoInput{ChatID: input.ChatID})
	if err != nil {
		if errors.Is(err, minigameRepo.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	if round.Word == "" || !containsWord(input.Text, round.Word) {
		return &SuggestOutput{}, nil
	}

	deleted, err := s.cfg.MinigameRepo.DeleteCroco(ctx, &minigameRepo.DeleteCrocoInput{ChatID: input.ChatID})
	if err != nil {
		return nil, err
	}
	if !deleted {
		// Someone else finished the round first.
		return &SuggestOutput{}, nil
	}

	hostIncrements := map[string]int64{"croco.total": 1}

	if input.PlayerID == round.HostID {
		hostIncrements["croco.cheat"] = 1
		s.send(ctx, input.ChatID, fmt.Sprintf(lang.CrocoHostSlipped, input.PlayerName, round.Word))
	} else {
		hostIncrements["croco.win"] = 1
		s.creditStats(ctx, input.ChatID, input.PlayerID, input.PlayerName, map[string]int64{"croco.guesses": 1})
		s.send(ctx, input.ChatID, fmt.Sprintf(lang.CrocoGuessed, input.PlayerName, round.Word))
	}

	s.creditStats(ctx, input.ChatID, round.HostID, round.HostName, hostIncrements)

	return &SuggestOutput{Guessed: true}, nil
}

func (s *service) send(ctx context.Context, chatID, text string) {
	if _, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		zap.S().Errorw("failed to send croco message", "chat_id", chatID, "error", err)
	}
}

func (s *service) creditStats(ctx context.Context, chatID, playerID, name string, increments map[string]int64) {
	err := s.cfg.StatsRepo.IncrementStats(ctx, &statsRepo.IncrementStatsInput{
		ChatID:     chatID,
		PlayerID:   playerID,
		Name:       name,
		Increments: increments,
	})
	if err != nil {
		zap.S().Errorw("failed to credit croco stats", "chat_id", chatID, "player", playerID, "error", err)
	}
}

// containsWord reports whether the text contains the word on its own,
// case-insensitively
func containsWord(text, word string) bool {
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return pattern.MatchString(text)
}
