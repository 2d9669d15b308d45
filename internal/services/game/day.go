package game

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
)

// resolveDay aggregates the day vote into an execution decision. It
// executes once, at vote-results entry, and advances to the night itself.
func (s *service) resolveDay(ctx context.Context, g *models.Game) {
	votes := newTally()
	for _, target := range g.Votes {
		if target == models.AbstainTarget {
			// Abstention is a valid non-vote, never a candidate.
			continue
		}
		votes.add(target)
	}

	if votes.empty() {
		s.sendChat(ctx, g.ChatID, lang.VoteResultNobody)
		s.advanceLogged(ctx, g, 1)
		return
	}

	target, _, unique := votes.top()
	if !unique {
		s.sendChat(ctx, g.ChatID, lang.VoteResultNobody)
		s.advanceLogged(ctx, g, 1)
		return
	}

	victim := g.PlayerAt(target)
	if victim == nil || !victim.Alive {
		s.sendChat(ctx, g.ChatID, lang.VoteResultNobody)
		s.advanceLogged(ctx, g, 1)
		return
	}

	if isBlessed(g, target) {
		s.sendChat(ctx, g.ChatID, fmt.Sprintf(lang.VoteSavedAngel, victim.Name))
		s.advanceLogged(ctx, g, 1)
		return
	}

	victim.Alive = false
	s.sendChat(ctx, g.ChatID, fmt.Sprintf(lang.VoteResultJail, victim.Name, target+1))

	if victim.Role == models.RoleKamikaze {
		s.kamikazeRevenge(ctx, g, target)
	}

	if err := s.cfg.GameRepo.SavePlayers(ctx, &gameRepo.SavePlayersInput{
		ChatID:  g.ChatID,
		Players: g.Players,
	}); err != nil {
		zap.S().Errorw("failed to persist execution", "chat_id", g.ChatID, "error", err)
		return
	}

	if s.checkWin(ctx, g) {
		return
	}

	s.advanceLogged(ctx, g, 1)
}

// isBlessed reports whether the angel protected the target from execution
func isBlessed(g *models.Game, target int) bool {
	for _, blessed := range g.Blessings {
		if blessed == target {
			return true
		}
	}
	return false
}

// kamikazeRevenge kills one of the executed kamikaze's voters, chosen
// uniformly at random. Only execution triggers it, never a night kill.
func (s *service) kamikazeRevenge(ctx context.Context, g *models.Game, executed int) {
	var voters []int
	for voter, target := range g.Votes {
		if target == executed {
			voters = append(voters, voter)
		}
	}
	if len(voters) == 0 {
		return
	}

	// Map iteration order is not uniform; pick from a sorted copy.
	sort.Ints(voters)
	chosen := voters[s.cfg.Random.Intn(len(voters))]

	victim := g.PlayerAt(chosen)
	if victim == nil || !victim.Alive {
		return
	}

	victim.Alive = false
	s.sendChat(ctx, g.ChatID, fmt.Sprintf(lang.KamikazeBoom, victim.Name))
}
