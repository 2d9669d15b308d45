package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	pollRepo "github.com/winterden/mafiabot/internal/repositories/poll"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
)

// checkWin evaluates the faction win conditions and, when one is met,
// terminates the game. It runs after every resolution step. Returns true
// when the game ended.
//
// Neutral roles are excluded from both counts. An all-neutral survivor
// set therefore never triggers either condition and the game keeps
// cycling; that behavior is inherited deliberately.
func (s *service) checkWin(ctx context.Context, g *models.Game) bool {
	mafia, town := 0, 0
	for _, p := range g.AlivePlayers() {
		role, ok := models.LookupRole(p.Role)
		if !ok {
			continue
		}
		switch role.Alignment {
		case models.AlignmentMafia:
			mafia++
		case models.AlignmentTown:
			town++
		}
	}

	switch {
	case mafia == 0:
		s.finishGame(ctx, g, models.AlignmentTown, lang.TownWins)
		return true
	case mafia >= town:
		// Parity is a mafia win, not strictly greater.
		s.finishGame(ctx, g, models.AlignmentMafia, lang.MafiaWins)
		return true
	default:
		return false
	}
}

// finishGame announces the outcome with every true role, credits stats
// and deletes the game. winner is empty for a voted end.
func (s *service) finishGame(ctx context.Context, g *models.Game, winner models.Alignment, announcement string) {
	s.sendChat(ctx, g.ChatID, fmt.Sprintf(lang.GameOverRoles, announcement, formatRosterWithRoles(g)))

	if err := s.cfg.PollRepo.DeleteByChat(ctx, &pollRepo.DeleteByChatInput{ChatID: g.ChatID}); err != nil {
		zap.S().Errorw("failed to discard polls", "chat_id", g.ChatID, "error", err)
	}

	if err := s.cfg.GameRepo.DeleteGame(ctx, &gameRepo.DeleteGameInput{ChatID: g.ChatID}); err != nil {
		zap.S().Errorw("failed to delete finished game", "chat_id", g.ChatID, "error", err)
	}

	s.creditStats(ctx, g, winner)
}

// creditStats bumps the per-chat counters for every player
func (s *service) creditStats(ctx context.Context, g *models.Game, winner models.Alignment) {
	for _, p := range g.Players {
		increments := map[string]int64{
			"games.total":             1,
			"role." + string(p.Role): 1,
		}

		if winner != "" {
			if role, ok := models.LookupRole(p.Role); ok && role.Alignment == winner {
				increments["games.win"] = 1
			}
		}

		err := s.cfg.StatsRepo.IncrementStats(ctx, &statsRepo.IncrementStatsInput{
			ChatID:     g.ChatID,
			PlayerID:   p.ID,
			Name:       p.Name,
			Increments: increments,
		})
		if err != nil {
			zap.S().Errorw("failed to credit stats", "chat_id", g.ChatID, "player", p.ID, "error", err)
		}
	}
}
