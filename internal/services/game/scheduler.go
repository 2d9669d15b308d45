package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	requestRepo "github.com/winterden/mafiabot/internal/repositories/request"
	"github.com/winterden/mafiabot/internal/services/messaging"

	"github.com/winterden/mafiabot/internal/lang"
)

const (
	tickInterval      = time.Second
	countdownInterval = 10 * time.Second
	sweepInterval     = 30 * time.Second
)

// Tick advances every game whose deadline has elapsed. Per-game failures
// are isolated: the game's deadline is pushed forward and the loop moves
// on.
func (s *service) Tick(ctx context.Context) error {
	expired, err := s.cfg.GameRepo.ListExpired(ctx, &gameRepo.ListExpiredInput{
		Now: s.cfg.Clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to list expired games: %w", err)
	}

	for _, g := range expired {
		if _, err := s.advance(ctx, g, 1); err != nil {
			if errors.Is(err, gameRepo.ErrStageConflict) || errors.Is(err, gameRepo.ErrGameNotFound) {
				// Lost the race to an early completion or the game ended.
				continue
			}
			zap.S().Errorw("failed to advance expired game", "chat_id", g.ChatID, "stage", g.Stage, "error", err)

			pushErr := s.cfg.GameRepo.PushDeadline(ctx, &gameRepo.PushDeadlineInput{
				ChatID:   g.ChatID,
				Deadline: s.cfg.Clock.Now().Add(retryDelay),
			})
			if pushErr != nil && !errors.Is(pushErr, gameRepo.ErrGameNotFound) {
				zap.S().Errorw("failed to push deadline", "chat_id", g.ChatID, "error", pushErr)
			}
		}
	}

	return nil
}

// RefreshCountdowns re-renders the remaining time on the discussion
// scoreboard. UI only, it never mutates game state.
func (s *service) RefreshCountdowns(ctx context.Context) error {
	games, err := s.cfg.GameRepo.ListByStage(ctx, &gameRepo.ListByStageInput{
		Stage: StageDiscussion,
	})
	if err != nil {
		return fmt.Errorf("failed to list discussion games: %w", err)
	}

	for _, g := range games {
		if g.MessageID == "" {
			continue
		}

		remaining := g.Deadline.Sub(s.cfg.Clock.Now()).Round(time.Second)
		err := s.cfg.Notifier.EditMessage(ctx, &messaging.EditMessageInput{
			ChatID:    g.ChatID,
			MessageID: g.MessageID,
			Text:      s.morningText(g, remaining),
		})
		if err != nil {
			zap.S().Debugw("failed to refresh countdown", "chat_id", g.ChatID, "error", err)
		}
	}

	return nil
}

// SweepRequests deletes join requests past their expiry and tells the
// chat
func (s *service) SweepRequests(ctx context.Context) error {
	expired, err := s.cfg.RequestRepo.ListExpired(ctx, &requestRepo.ListExpiredInput{
		Now: s.cfg.Clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to list expired requests: %w", err)
	}

	for _, req := range expired {
		deleted, err := s.cfg.RequestRepo.DeleteRequest(ctx, &requestRepo.DeleteRequestInput{
			ChatID: req.ChatID,
		})
		if err != nil {
			zap.S().Errorw("failed to delete expired request", "chat_id", req.ChatID, "error", err)
			continue
		}
		if !deleted {
			continue
		}

		ownerName := ""
		if req.Owner != nil {
			ownerName = req.Owner.Name
		}
		text := fmt.Sprintf(lang.RequestExpired, ownerName)
		if req.MessageID != "" {
			s.notifyClearButtons(ctx, req.ChatID, req.MessageID, text)
		} else {
			s.sendChat(ctx, req.ChatID, text)
		}
	}

	return nil
}

// Run drives the three background loops until the context is done
func (s *service) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	countdown := time.NewTicker(countdownInterval)
	sweeper := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	defer countdown.Stop()
	defer sweeper.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				zap.S().Errorw("scheduler tick failed", "error", err)
			}
		case <-countdown.C:
			if err := s.RefreshCountdowns(ctx); err != nil {
				zap.S().Errorw("countdown refresh failed", "error", err)
			}
		case <-sweeper.C:
			if err := s.SweepRequests(ctx); err != nil {
				zap.S().Errorw("request sweep failed", "error", err)
			}
		}
	}
}
