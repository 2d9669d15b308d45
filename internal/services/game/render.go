package game

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	requestRepo "github.com/winterden/mafiabot/internal/repositories/request"
	"github.com/winterden/mafiabot/internal/services/messaging"
)

// sendChat posts a chat message best-effort; failures are logged and
// swallowed, they never affect game state
func (s *service) sendChat(ctx context.Context, chatID, text string) {
	_, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		zap.S().Errorw("failed to send chat message", "chat_id", chatID, "error", err)
	}
}

// sendPrivate delivers a private message to the player at idx, editing
// their previous prompt in place when possible, and records the new
// message reference
func (s *service) sendPrivate(ctx context.Context, g *models.Game, idx int, text string, buttons [][]messaging.Button) {
	player := g.PlayerAt(idx)
	if player == nil {
		return
	}

	out, err := s.cfg.Notifier.SendPrivate(ctx, &messaging.SendPrivateInput{
		UserID:        player.ID,
		EditMessageID: player.PMID,
		Text:          text,
		Buttons:       buttons,
	})
	if err != nil {
		zap.S().Errorw("failed to send private message", "chat_id", g.ChatID, "player", player.ID, "error", err)
		return
	}

	if out.MessageID != player.PMID {
		if err := s.cfg.GameRepo.SetPlayerPM(ctx, &gameRepo.SetPlayerPMInput{
			ChatID:      g.ChatID,
			PlayerIndex: idx,
			PMID:        out.MessageID,
		}); err != nil {
			zap.S().Errorw("failed to record pm reference", "chat_id", g.ChatID, "player", player.ID, "error", err)
		}
	}
}

// notifyClearButtons strips the buttons off a message best-effort
func (s *service) notifyClearButtons(ctx context.Context, chatID, messageID, text string) {
	err := s.cfg.Notifier.ClearButtons(ctx, &messaging.ClearButtonsInput{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err != nil {
		zap.S().Errorw("failed to clear buttons", "chat_id", chatID, "error", err)
	}
}

// sendLobbyMessage posts the join-request roster with join/leave buttons
// and records the message reference
func (s *service) sendLobbyMessage(ctx context.Context, req *models.JoinRequest) {
	out, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID:  req.ChatID,
		Text:    lobbyText(req, s.cfg.MaxPlayers),
		Buttons: lobbyButtons(),
	})
	if err != nil {
		zap.S().Errorw("failed to send lobby message", "chat_id", req.ChatID, "error", err)
		return
	}

	if err := s.cfg.RequestRepo.SetMessageID(ctx, &requestRepo.SetMessageIDInput{
		ChatID:    req.ChatID,
		MessageID: out.MessageID,
	}); err != nil {
		zap.S().Errorw("failed to record lobby message", "chat_id", req.ChatID, "error", err)
	}
}

// updateLobbyMessage re-renders the join-request roster in place
func (s *service) updateLobbyMessage(ctx context.Context, req *models.JoinRequest) {
	if req.MessageID == "" {
		return
	}

	err := s.cfg.Notifier.EditMessage(ctx, &messaging.EditMessageInput{
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
		Text:      lobbyText(req, s.cfg.MaxPlayers),
		Buttons:   lobbyButtons(),
	})
	if err != nil {
		zap.S().Errorw("failed to update lobby message", "chat_id", req.ChatID, "error", err)
	}
}

func lobbyText(req *models.JoinRequest, capacity int) string {
	names := make([]string, 0, len(req.Players))
	for i, p := range req.Players {
		names = append(names, fmt.Sprintf("%d. %s", i+1, p.Name))
	}
	ownerName := ""
	if req.Owner != nil {
		ownerName = req.Owner.Name
	}
	return fmt.Sprintf(lang.RequestCreated, ownerName, len(req.Players), capacity, strings.Join(names, "\n"))
}

func lobbyButtons() [][]messaging.Button {
	return [][]messaging.Button{{
		{Label: "➕ Join", Action: "join"},
		{Label: "➖ Leave", Action: "leave"},
		{Label: "▶️ Start", Action: "start"},
	}}
}

// formatRoster renders the numbered living-player list. Numbering follows
// table order, which never changes after dealing.
func formatRoster(g *models.Game) string {
	var lines []string
	for i, p := range g.Players {
		if p.Alive {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, p.Name))
		}
	}
	return strings.Join(lines, "\n")
}

// formatRosterWithRoles renders every player with their true role, used
// in the game-over announcement
func formatRosterWithRoles(g *models.Game) string {
	var lines []string
	for i, p := range g.Players {
		marker := ""
		if !p.Alive {
			marker = " ☠️"
		}
		lines = append(lines, fmt.Sprintf("%d. %s - %s%s", i+1, p.Name, models.RoleTitle(p.Role), marker))
	}
	return strings.Join(lines, "\n")
}

// formatVotes groups the current votes by target for the ballot message
func formatVotes(g *models.Game) string {
	if len(g.Votes) == 0 {
		return lang.VoteListEmpty
	}

	byTarget := map[int][]string{}
	for voter, target := range g.Votes {
		if p := g.PlayerAt(voter); p != nil {
			byTarget[target] = append(byTarget[target], p.Name)
		}
	}

	targets := make([]int, 0, len(byTarget))
	for target := range byTarget {
		targets = append(targets, target)
	}
	sort.Ints(targets)

	var lines []string
	for _, target := range targets {
		sort.Strings(byTarget[target])
		voters := strings.Join(byTarget[target], ", ")
		if target == models.AbstainTarget {
			lines = append(lines, fmt.Sprintf(lang.VoteAbstainedLine, voters))
			continue
		}
		if p := g.PlayerAt(target); p != nil {
			lines = append(lines, fmt.Sprintf("%s: %s", p.Name, voters))
		}
	}
	return strings.Join(lines, "\n")
}

// targetButtons builds one numbered button per living player, excluding
// the given indexes. The action payload carries the 0-based target index.
func targetButtons(g *models.Game, action string, exclude map[int]bool) [][]messaging.Button {
	var rows [][]messaging.Button
	var row []messaging.Button
	for i, p := range g.Players {
		if !p.Alive || exclude[i] {
			continue
		}
		row = append(row, messaging.Button{
			Label:  fmt.Sprintf("%d", i+1),
			Action: fmt.Sprintf("%s %d", action, i),
		})
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func roleDealtText(role models.RoleKind) string {
	return fmt.Sprintf(lang.LobbyCardDealt, models.RoleTitle(role))
}
