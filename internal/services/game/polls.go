package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	pollRepo "github.com/winterden/mafiabot/internal/repositories/poll"
	"github.com/winterden/mafiabot/internal/services/messaging"
)

var (
	// ErrPollNotFound is returned when no poll of the kind is open
	ErrPollNotFound = errors.New("no such poll is open")

	// ErrPollExists is returned when a poll of the kind is already open
	ErrPollExists = errors.New("that poll is already open")

	// ErrAlreadyVoted is returned on a duplicate poll vote
	ErrAlreadyVoted = errors.New("you already voted in this poll")
)

// StartPoll opens a skip or end majority poll. The starter's vote counts
// immediately.
func (s *service) StartPoll(ctx context.Context, input *StartPollInput) (*StartPollOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}
	if input.Kind != models.PollKindSkip && input.Kind != models.PollKindEnd {
		return nil, errors.New("unknown poll kind")
	}

	game, err := s.getGame(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if err := requireLiving(game, input.PlayerID); err != nil {
		return nil, err
	}

	required := len(game.AlivePlayers())/2 + 1
	p := &models.Poll{
		ID:        s.cfg.UUID.NewUUID(),
		ChatID:    input.ChatID,
		Kind:      input.Kind,
		VoterIDs:  []string{input.PlayerID},
		Required:  required,
		CreatedAt: s.cfg.Clock.Now(),
	}

	if err := s.cfg.PollRepo.CreatePoll(ctx, &pollRepo.CreatePollInput{Poll: p}); err != nil {
		if errors.Is(err, pollRepo.ErrPollExists) {
			return nil, ErrPollExists
		}
		return nil, err
	}

	text := fmt.Sprintf(lang.PollSkipStarted, input.PlayerName, required)
	action := "poll skip"
	if input.Kind == models.PollKindEnd {
		text = fmt.Sprintf(lang.PollEndStarted, input.PlayerName, required)
		action = "poll end"
	}
	text += "\n" + fmt.Sprintf(lang.PollProgress, len(p.VoterIDs), required)

	s.sendChatWithButton(ctx, input.ChatID, text, "✋ Vote", action)

	if len(p.VoterIDs) >= required {
		s.passPoll(ctx, game, p)
		return &StartPollOutput{Poll: p}, nil
	}

	return &StartPollOutput{Poll: p}, nil
}

// VotePoll adds the caller's vote to an open poll and applies the
// outcome when the majority is reached
func (s *service) VotePoll(ctx context.Context, input *VotePollInput) (*VotePollOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	game, err := s.getGame(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if err := requireLiving(game, input.PlayerID); err != nil {
		return nil, err
	}

	p, err := s.cfg.PollRepo.AddVote(ctx, &pollRepo.AddVoteInput{
		ChatID:   input.ChatID,
		Kind:     input.Kind,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, pollRepo.ErrPollNotFound) {
			return nil, ErrPollNotFound
		}
		if errors.Is(err, pollRepo.ErrAlreadyVoted) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	if len(p.VoterIDs) < p.Required {
		s.sendChat(ctx, input.ChatID, fmt.Sprintf(lang.PollProgress, len(p.VoterIDs), p.Required))
		return &VotePollOutput{}, nil
	}

	s.passPoll(ctx, game, p)
	return &VotePollOutput{Passed: true}, nil
}

// passPoll applies a completed poll: skip advances the stage, end
// terminates the game without a winner
func (s *service) passPoll(ctx context.Context, game *models.Game, p *models.Poll) {
	switch p.Kind {
	case models.PollKindSkip:
		s.sendChat(ctx, game.ChatID, lang.PollSkipPassed)
		s.advanceLogged(ctx, game, 1)
	case models.PollKindEnd:
		s.finishGame(ctx, game, "", lang.PollEndPassed)
	}
}

// requireLiving checks the caller is a living player of the game
func requireLiving(game *models.Game, playerID string) error {
	idx := game.PlayerIndex(playerID)
	if idx < 0 {
		return ErrNotInGame
	}
	if !game.Players[idx].Alive {
		return ErrDead
	}
	return nil
}

// sendChatWithButton posts a chat message carrying a single button
func (s *service) sendChatWithButton(ctx context.Context, chatID, text, label, action string) {
	_, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID: chatID,
		Text:   text,
		Buttons: [][]messaging.Button{{
			{Label: label, Action: action},
		}},
	})
	if err != nil {
		zap.S().Errorw("failed to send poll message", "chat_id", chatID, "error", err)
	}
}
