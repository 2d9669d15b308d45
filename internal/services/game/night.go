package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
)

// resolveNight aggregates the collected night actions into deaths,
// applying the protection precedence, and runs the win check. It executes
// once, at morning entry.
func (s *service) resolveNight(ctx context.Context, g *models.Game) {
	var victim *models.Player
	victimIdx := -1

	if len(g.Shots) > 0 {
		shots := newTally()
		for _, target := range g.Shots {
			shots.add(target)
		}
		// Contested shots resolve to the first-seen plurality target.
		target, _, _ := shots.top()

		if p := g.PlayerAt(target); p != nil && p.Alive && !isProtected(g, target) {
			victim = p
			victimIdx = target
		}
	}

	if victim == nil {
		s.sendChat(ctx, g.ChatID, lang.MorningPeaceful)
	} else {
		victim.Alive = false
		s.sendChat(ctx, g.ChatID, fmt.Sprintf(lang.MorningVictim, victim.Name, victimIdx+1))

		// Sheriff succession happens before the win check so the new
		// sheriff counts for town immediately.
		if victim.Role == models.RoleSheriff {
			s.promoteDeputy(ctx, g)
		}
	}

	s.sendTrackerReports(ctx, g)

	if err := s.cfg.GameRepo.SavePlayers(ctx, &gameRepo.SavePlayersInput{
		ChatID:  g.ChatID,
		Players: g.Players,
	}); err != nil {
		zap.S().Errorw("failed to persist night deaths", "chat_id", g.ChatID, "error", err)
		return
	}

	if s.checkWin(ctx, g) {
		return
	}
	// No winner; the scheduler wraps this stage to the next day.
}

// isProtected reports whether a heal or a shield covers the target.
// Either protection fully negates the kill.
func isProtected(g *models.Game, target int) bool {
	for _, healed := range g.Heals {
		if healed == target {
			return true
		}
	}
	for _, shielded := range g.Shields {
		if shielded == target {
			return true
		}
	}
	return false
}

// promoteDeputy hands the badge to a living deputy and tells them
func (s *service) promoteDeputy(ctx context.Context, g *models.Game) {
	for i, p := range g.Players {
		if p.Alive && p.Role == models.RoleDeputy {
			p.Role = models.RoleSheriff
			s.sendPrivate(ctx, g, i, lang.DeputyPromoted, nil)
			return
		}
	}
}

// sendTrackerReports tells the tracker whether their mark acted tonight
func (s *service) sendTrackerReports(ctx context.Context, g *models.Game) {
	if len(g.Tracks) == 0 {
		return
	}

	trackerIdx := -1
	for i, p := range g.Players {
		if p.Alive && p.Role == models.RoleTracker {
			trackerIdx = i
			break
		}
	}
	if trackerIdx < 0 {
		return
	}

	for _, target := range g.Tracks {
		mark := g.PlayerAt(target)
		if mark == nil {
			continue
		}
		text := fmt.Sprintf(lang.TrackerStayedHome, mark.Name)
		if markActed(g, mark) {
			text = fmt.Sprintf(lang.TrackerVisited, mark.Name)
		}
		s.sendPrivate(ctx, g, trackerIdx, text, nil)
	}
}

// markActed reports whether the tracked player's role left a trace in
// tonight's buffers. Per-actor attribution is not stored, so the signal
// is the role's buffer: meaningful for single-holder roles, and for the
// mafia it reads as "the family was out".
func markActed(g *models.Game, mark *models.Player) bool {
	role, ok := models.LookupRole(mark.Role)
	if !ok {
		return false
	}

	switch role.NightAction {
	case models.NightActionShot:
		return len(g.Shots) > 0
	case models.NightActionHeal:
		return len(g.Heals) > 0
	case models.NightActionShield:
		return len(g.Shields) > 0
	case models.NightActionBless:
		return len(g.Blessings) > 0
	case models.NightActionBlock:
		return len(g.Blocks) > 0
	case models.NightActionSilence:
		return len(g.Silenced) > 0
	case models.NightActionSteal:
		return len(g.Stolen) > 0
	case models.NightActionHide:
		return len(g.HiddenShadows) > 0
	case models.NightActionTrack:
		return len(g.Tracks) > 0
	default:
		return false
	}
}
