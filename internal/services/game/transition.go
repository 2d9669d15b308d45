package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	pollRepo "github.com/winterden/mafiabot/internal/repositories/poll"
)

// advance moves a game to its next stage. The order of steps matters:
// polls are discarded first, the conditional stage write commits the
// transition, and only then does the entry action run. Entry failures are
// logged and swallowed so the committed transition stands.
//
// The deadline scheduler and the early-completion path may both call this
// with the same pre-image; the stage-equality guard inside AdvanceStage
// lets exactly one commit. The loser returns ErrStageConflict.
func (s *service) advance(ctx context.Context, g *models.Game, inc int) (*models.Game, error) {
	if err := s.cfg.PollRepo.DeleteByChat(ctx, &pollRepo.DeleteByChatInput{ChatID: g.ChatID}); err != nil {
		zap.S().Errorw("failed to discard polls", "chat_id", g.ChatID, "error", err)
	}

	if g.Stage == StageLobby {
		// Players who never claimed their card get it dealt for them.
		s.autoClaimCards(ctx, g)
	}

	next, wrapped := s.nextStage(g.Stage, inc)
	def, ok := s.stages[next]
	if !ok {
		return nil, fmt.Errorf("no stage %d registered", next)
	}

	clearBuffers := next == StageNightStart
	var event models.NightEvent
	if clearBuffers {
		event = s.rollNightEvent()
	}

	updated, err := s.cfg.GameRepo.AdvanceStage(ctx, &gameRepo.AdvanceStageInput{
		ChatID:       g.ChatID,
		FromStage:    g.Stage,
		ToStage:      next,
		Deadline:     s.cfg.Clock.Now().Add(def.duration(g)),
		ClearBuffers: clearBuffers,
		Event:        event,
		IncrementDay: wrapped,
	})
	if err != nil {
		return nil, err
	}

	def.enter(ctx, updated)

	// The entry action may have advanced again or ended the game; the
	// returned document reflects the committed transition either way.
	return updated, nil
}

// nextStage applies the wrap-around rule and skips gaps in the stage
// table, reporting whether the cycle wrapped
func (s *service) nextStage(current, inc int) (int, bool) {
	wrapped := false

	next := current + inc
	if current >= StageMorning {
		next = StageDiscussion
		wrapped = true
	}

	// A missing stage id advances one more increment rather than failing,
	// keeping games self-healing against table gaps.
	for _, ok := s.stages[next]; !ok; _, ok = s.stages[next] {
		next++
		if next > StageMorning {
			next = StageDiscussion
			wrapped = true
		}
	}

	return next, wrapped
}

// autoClaimCards deals every unclaimed card when the lobby times out
func (s *service) autoClaimCards(ctx context.Context, g *models.Game) {
	for i, p := range g.Players {
		if p.Role != "" {
			continue
		}
		updated, err := s.cfg.GameRepo.ClaimCard(ctx, &gameRepo.ClaimCardInput{
			ChatID:      g.ChatID,
			PlayerIndex: i,
		})
		if err != nil {
			if errors.Is(err, gameRepo.ErrCardTaken) {
				continue
			}
			zap.S().Errorw("failed to auto-claim card", "chat_id", g.ChatID, "player_index", i, "error", err)
			continue
		}
		s.sendPrivate(ctx, updated, i, roleDealtText(updated.Players[i].Role), nil)
	}
}
