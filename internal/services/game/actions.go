package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	"github.com/winterden/mafiabot/internal/services/messaging"
)

// Vote records the caller's day vote. Re-voting overwrites the previous
// choice; everything else about the ballot is append-only.
func (s *service) Vote(ctx context.Context, input *VoteInput) (*VoteOutput, error) {
	if input == nil || input.ChatID == "" || input.VoterID == "" {
		return nil, errors.New("input, chat ID and voter ID cannot be empty")
	}

	game, err := s.getGame(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if game.Stage != StageVoting {
		return nil, ErrWrongStage
	}

	idx := game.PlayerIndex(input.VoterID)
	if idx < 0 {
		return nil, ErrNotInGame
	}
	if !game.Players[idx].Alive {
		return nil, ErrDead
	}
	if game.IsSilenced(idx) || isStolen(game, idx) {
		return nil, ErrSilenced
	}

	if input.Target != models.AbstainTarget {
		target := game.PlayerAt(input.Target)
		if target == nil || !target.Alive {
			return nil, ErrBadTarget
		}
	}

	updated, err := s.cfg.GameRepo.RecordVote(ctx, &gameRepo.RecordVoteInput{
		ChatID:     input.ChatID,
		Stage:      StageVoting,
		VoterIndex: idx,
		Target:     input.Target,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrStageConflict) {
			return nil, ErrWrongStage
		}
		return nil, err
	}

	s.refreshBallot(ctx, updated)

	if allVotesIn(updated) {
		s.completeEarly(ctx, updated)
	}

	return &VoteOutput{}, nil
}

// UseAbility records the caller's night action for the current stage
func (s *service) UseAbility(ctx context.Context, input *UseAbilityInput) (*UseAbilityOutput, error) {
	if input == nil || input.ChatID == "" || input.ActorID == "" {
		return nil, errors.New("input, chat ID and actor ID cannot be empty")
	}

	game, err := s.getGame(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}

	action, err := stageAction(game, input.ActorID)
	if err != nil {
		return nil, err
	}

	idx := game.PlayerIndex(input.ActorID)
	actor := game.Players[idx]
	if !actor.Alive {
		return nil, ErrDead
	}
	if game.IsBlocked(actor.ID) {
		return nil, ErrBlocked
	}

	target := game.PlayerAt(input.Target)
	if target == nil || !target.Alive {
		return nil, ErrBadTarget
	}
	if input.Target == idx && actor.Role != models.RoleDoctor {
		return nil, ErrBadTarget
	}

	updated, err := s.cfg.GameRepo.RecordNightAction(ctx, &gameRepo.RecordNightActionInput{
		ChatID:  input.ChatID,
		Stage:   game.Stage,
		ActorID: input.ActorID,
		Action:  action,
		Target:  input.Target,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrStageConflict) {
			return nil, ErrWrongStage
		}
		if errors.Is(err, gameRepo.ErrAlreadyActed) {
			return nil, ErrAlreadyActed
		}
		return nil, err
	}

	switch action {
	case models.NightActionCheckSheriff, models.NightActionCheckMafia:
		s.sendPrivate(ctx, updated, idx, checkResult(updated, action, input.Target), nil)
	default:
		s.sendPrivate(ctx, updated, idx, lang.ActionAccepted, nil)
	}

	if allActorsPlayed(updated) {
		s.completeEarly(ctx, updated)
	}

	return &UseAbilityOutput{}, nil
}

// stageAction resolves which night action the actor may perform in the
// game's current stage, enforcing role gating
func stageAction(game *models.Game, actorID string) (models.NightAction, error) {
	idx := game.PlayerIndex(actorID)
	if idx < 0 {
		return "", ErrNotInGame
	}
	actor := game.Players[idx]

	if game.Stage == StageMafia {
		if !models.IsMafiaAligned(actor.Role) {
			return "", ErrWrongRole
		}
		return models.NightActionShot, nil
	}

	rs, ok := roleStages[game.Stage]
	if !ok {
		return "", ErrWrongStage
	}
	if actor.Role != rs.role {
		return "", ErrWrongRole
	}
	return rs.action, nil
}

// checkResult resolves an investigation synchronously against the current
// role table. During a blizzard every check is clouded; the blizzard is
// announced, so the clouded text gives nothing away. A hidden target gets
// the ordinary negative answer instead, indistinguishable from a truly
// clean one.
func checkResult(game *models.Game, action models.NightAction, target int) string {
	name := game.Players[target].Name

	if game.CurrentEvent == models.NightEventBlizzard {
		return lang.CheckHidden
	}

	role := game.Players[target].Role
	hidden := game.IsHidden(target)

	if action == models.NightActionCheckSheriff {
		if !hidden && role == models.RoleSheriff {
			return fmt.Sprintf(lang.DonCheckYes, name)
		}
		return fmt.Sprintf(lang.DonCheckNo, name)
	}

	if !hidden && models.IsMafiaAligned(role) {
		return fmt.Sprintf(lang.SheriffCheckYes, name)
	}
	return fmt.Sprintf(lang.SheriffCheckNo, name)
}

// refreshBallot re-renders the vote tally on the ballot message
func (s *service) refreshBallot(ctx context.Context, g *models.Game) {
	if g.MessageID == "" {
		return
	}

	buttons := targetButtons(g, "vote", nil)
	buttons = append(buttons, []messaging.Button{{Label: "🤐", Action: "vote abstain"}})

	err := s.cfg.Notifier.EditMessage(ctx, &messaging.EditMessageInput{
		ChatID:    g.ChatID,
		MessageID: g.MessageID,
		Text:      fmt.Sprintf(lang.VoteStart, formatVotes(g)),
		Buttons:   buttons,
	})
	if err != nil {
		zap.S().Errorw("failed to refresh ballot", "chat_id", g.ChatID, "error", err)
	}
}

// completeEarly advances a stage whose completion condition is met before
// the deadline. Losing the race to the deadline path is expected.
func (s *service) completeEarly(ctx context.Context, g *models.Game) {
	if _, err := s.advance(ctx, g, 1); err != nil && !errors.Is(err, gameRepo.ErrStageConflict) {
		zap.S().Errorw("failed to complete stage early", "chat_id", g.ChatID, "stage", g.Stage, "error", err)
	}
}

// allVotesIn reports whether every eligible voter has a ballot entry
func allVotesIn(g *models.Game) bool {
	for i, p := range g.Players {
		if !p.Alive || g.IsSilenced(i) || isStolen(g, i) {
			continue
		}
		if _, ok := g.Votes[i]; !ok {
			return false
		}
	}
	return true
}

// allActorsPlayed reports whether every eligible actor for the current
// night stage has acted
func allActorsPlayed(g *models.Game) bool {
	if g.Stage == StageMafia {
		for _, p := range g.Players {
			if p.Alive && models.IsMafiaAligned(p.Role) && !g.HasPlayed(p.ID) {
				return false
			}
		}
		return true
	}

	rs, ok := roleStages[g.Stage]
	if !ok {
		return false
	}
	for _, p := range g.Players {
		if p.Alive && p.Role == rs.role && !g.HasPlayed(p.ID) {
			return false
		}
	}
	return true
}

// isStolen reports whether the player index was robbed by the grinch;
// robbed players lose their vote for the day
func isStolen(g *models.Game, idx int) bool {
	for _, i := range g.Stolen {
		if i == idx {
			return true
		}
	}
	return false
}
