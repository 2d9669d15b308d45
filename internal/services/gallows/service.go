package gallows

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	minigameRepo "github.com/winterden/mafiabot/internal/repositories/minigame"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
	"github.com/winterden/mafiabot/internal/services/messaging"
)

var (
	// ErrRoundNotFound is returned when the chat has no running round
	ErrRoundNotFound = errors.New("no gallows round running in this chat")

	// ErrRoundExists is returned when the chat already has a round
	ErrRoundExists = errors.New("gallows round already running in this chat")
)

// roundResult is the terminal outcome of a round
type roundResult int

const (
	resultWin roundResult = iota
	resultLose
)

// service implements the Service interface
type service struct {
	cfg *Config
}

// NewService creates a new gallows service
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

// StartRound opens a round with a fresh word and posts the board
func (s *service) StartRound(ctx context.Context, input *StartRoundInput) (*StartRoundOutput, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	round := &models.GallowsRound{
		ID:        s.cfg.UUID.NewUUID(),
		ChatID:    input.ChatID,
		Word:      strings.ToLower(s.cfg.Words.RandomWord()),
		Right:     map[string]string{},
		Wrong:     map[string]string{},
		Names:     map[string]string{},
		CreatedAt: s.cfg.Clock.Now(),
	}

	err := s.cfg.MinigameRepo.CreateGallows(ctx, &minigameRepo.CreateGallowsInput{Round: round})
	if err != nil {
		if errors.Is(err, minigameRepo.ErrRoundExists) {
			return nil, ErrRoundExists
		}
		return nil, err
	}

	out, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID: input.ChatID,
		Text:   renderBoard(round, lang.GallowsInProgress, maskedWord(round)),
	})
	if err != nil {
		zap.S().Errorw("failed to post gallows board", "chat_id", input.ChatID, "error", err)
		return &StartRoundOutput{Round: round}, nil
	}

	if err := s.cfg.MinigameRepo.SetGallowsMessageID(ctx, &minigameRepo.SetGallowsMessageIDInput{
		ChatID:    input.ChatID,
		MessageID: out.MessageID,
	}); err != nil {
		zap.S().Errorw("failed to record gallows board message", "chat_id", input.ChatID, "error", err)
	}
	round.MessageID = out.MessageID

	return &StartRoundOutput{Round: round}, nil
}

// Suggest handles a letter or whole-word guess. Letters are accepted at
// most once across all players; the repository's conditional write
// settles racing guesses for the same letter.
func (s *service) Suggest(ctx context.Context, input *SuggestInput) (*SuggestOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	round, err := s.cfg.MinigameRepo.GetGallows(ctx, &minigameRepo.GetGallowsInput{ChatID: input.ChatID})
	if err != nil {
		if errors.Is(err, minigameRepo.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	guess := strings.ToLower(strings.TrimSpace(input.Text))
	if guess == "" {
		return &SuggestOutput{}, nil
	}

	// A whole-word guess wins outright or is silently ignored.
	if len([]rune(guess)) > 1 {
		if guess != round.Word {
			return &SuggestOutput{}, nil
		}
		round.Names[input.PlayerID] = input.PlayerName
		finished := s.endRound(ctx, round, resultWin)
		return &SuggestOutput{Finished: finished}, nil
	}

	if !isLetter(guess) {
		return &SuggestOutput{}, nil
	}

	correct := strings.Contains(round.Word, guess)
	updated, err := s.cfg.MinigameRepo.SubmitLetter(ctx, &minigameRepo.SubmitLetterInput{
		ChatID:     input.ChatID,
		Letter:     guess,
		Correct:    correct,
		PlayerID:   input.PlayerID,
		PlayerName: input.PlayerName,
	})
	if err != nil {
		if errors.Is(err, minigameRepo.ErrLetterTaken) {
			s.send(ctx, input.ChatID, fmt.Sprintf(lang.GallowsLetterTaken, input.PlayerName, guess))
			return &SuggestOutput{}, nil
		}
		if errors.Is(err, minigameRepo.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	if updated.Revealed() {
		finished := s.endRound(ctx, updated, resultWin)
		return &SuggestOutput{Finished: finished}, nil
	}
	if len(updated.Wrong) >= lang.MaxWrongGuesses {
		finished := s.endRound(ctx, updated, resultLose)
		return &SuggestOutput{Finished: finished}, nil
	}

	s.updateBoard(ctx, updated, lang.GallowsInProgress, maskedWord(updated))
	return &SuggestOutput{}, nil
}

// endRound finishes a round exactly once. The delete's result is the
// finish lock under racing final guesses.
func (s *service) endRound(ctx context.Context, round *models.GallowsRound, result roundResult) bool {
	deleted, err := s.cfg.MinigameRepo.DeleteGallows(ctx, &minigameRepo.DeleteGallowsInput{ChatID: round.ChatID})
	if err != nil {
		zap.S().Errorw("failed to delete gallows round", "chat_id", round.ChatID, "error", err)
		return false
	}
	if !deleted {
		return false
	}

	resultText := fmt.Sprintf(lang.GallowsWin, round.Word)
	if result == resultLose {
		resultText = fmt.Sprintf(lang.GallowsLose, round.Word)
	}

	s.updateBoard(ctx, round, resultText, spacedWord(round.Word))
	s.creditStats(ctx, round, result)
	return true
}

// creditStats bumps right/wrong/total counters for every participant
func (s *service) creditStats(ctx context.Context, round *models.GallowsRound, result roundResult) {
	right := map[string]int64{}
	wrong := map[string]int64{}
	for _, playerID := range round.Right {
		right[playerID]++
	}
	for _, playerID := range round.Wrong {
		wrong[playerID]++
	}

	for playerID, name := range round.Names {
		increments := map[string]int64{
			"gallows.total": 1,
			"gallows.right": right[playerID],
			"gallows.wrong": wrong[playerID],
		}
		if result == resultWin && right[playerID] > 0 {
			increments["gallows.win"] = 1
		}

		err := s.cfg.StatsRepo.IncrementStats(ctx, &statsRepo.IncrementStatsInput{
			ChatID:     round.ChatID,
			PlayerID:   playerID,
			Name:       name,
			Increments: increments,
		})
		if err != nil {
			zap.S().Errorw("failed to credit gallows stats", "chat_id", round.ChatID, "player", playerID, "error", err)
		}
	}
}

// updateBoard edits the board message in place, falling back to a fresh
// message when there is none yet
func (s *service) updateBoard(ctx context.Context, round *models.GallowsRound, result, wordDisplay string) {
	text := renderBoard(round, result, wordDisplay)

	if round.MessageID != "" {
		err := s.cfg.Notifier.EditMessage(ctx, &messaging.EditMessageInput{
			ChatID:    round.ChatID,
			MessageID: round.MessageID,
			Text:      text,
		})
		if err == nil {
			return
		}
		zap.S().Debugw("failed to edit gallows board, sending new", "chat_id", round.ChatID, "error", err)
	}

	s.send(ctx, round.ChatID, text)
}

func (s *service) send(ctx context.Context, chatID, text string) {
	if _, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		zap.S().Errorw("failed to send gallows message", "chat_id", chatID, "error", err)
	}
}

// renderBoard draws the stickman, the word progress, the tried letters
// and the per-player scoreboard
func renderBoard(round *models.GallowsRound, result, wordDisplay string) string {
	idx := len(round.Wrong)
	if idx >= len(lang.Stickman) {
		idx = len(lang.Stickman) - 1
	}
	art := lang.Stickman[idx]

	attempts := ""
	if len(round.Wrong) > 0 {
		letters := make([]string, 0, len(round.Wrong))
		for letter := range round.Wrong {
			letters = append(letters, letter)
		}
		sort.Strings(letters)
		attempts = fmt.Sprintf(lang.GallowsAttempts, strings.Join(letters, ", "))
	}

	return fmt.Sprintf(lang.GallowsBoard, result, art[0], art[1], art[2], wordDisplay, attempts, scoreboard(round))
}

// scoreboard ranks participants by right guesses, then by fewer wrong
func scoreboard(round *models.GallowsRound) string {
	if len(round.Names) == 0 {
		return ""
	}

	type score struct {
		name  string
		right int
		wrong int
	}
	byPlayer := map[string]*score{}
	for playerID, name := range round.Names {
		byPlayer[playerID] = &score{name: name}
	}
	for _, playerID := range round.Right {
		if sc, ok := byPlayer[playerID]; ok {
			sc.right++
		}
	}
	for _, playerID := range round.Wrong {
		if sc, ok := byPlayer[playerID]; ok {
			sc.wrong++
		}
	}

	scores := make([]*score, 0, len(byPlayer))
	for _, sc := range byPlayer {
		scores = append(scores, sc)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].right != scores[j].right {
			return scores[i].right > scores[j].right
		}
		if scores[i].wrong != scores[j].wrong {
			return scores[i].wrong < scores[j].wrong
		}
		return scores[i].name < scores[j].name
	})

	lines := make([]string, 0, len(scores)+1)
	lines = append(lines, "")
	for _, sc := range scores {
		lines = append(lines, fmt.Sprintf("%s: ✔️%d ❌%d", sc.name, sc.right, sc.wrong))
	}
	return strings.Join(lines, "\n")
}

// maskedWord shows guessed letters and underscores for the rest
func maskedWord(round *models.GallowsRound) string {
	parts := make([]string, 0, len(round.Word))
	for _, r := range round.Word {
		letter := string(r)
		if _, ok := round.Right[letter]; ok {
			parts = append(parts, strings.ToUpper(letter))
		} else {
			parts = append(parts, "_")
		}
	}
	return strings.Join(parts, " ")
}

// spacedWord spells the full word out letter by letter
func spacedWord(word string) string {
	parts := make([]string, 0, len(word))
	for _, r := range word {
		parts = append(parts, strings.ToUpper(string(r)))
	}
	return strings.Join(parts, " ")
}

func isLetter(guess string) bool {
	runes := []rune(guess)
	return len(runes) == 1 && unicode.IsLetter(runes[0])
}
