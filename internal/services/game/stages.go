package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	"github.com/winterden/mafiabot/internal/services/messaging"
)

// Stage identifiers. The table is sparse below zero on purpose: the lobby
// sits apart from the day/night cycle, and advancing out of it skips
// forward to the first registered stage.
const (
	StageLobby = -4

	StageDiscussion  = 0
	StageVoting      = 1
	StageVoteResults = 2

	StageNightStart = 3
	StageMistress   = 4
	StageDrunkard   = 5
	StageMafia      = 6
	StageDon        = 7
	StageSheriff    = 8
	StageDoctor     = 9
	StageSnowman    = 10
	StageAngel      = 11
	StageTracker    = 12
	StageShadow     = 13
	StageGrinch     = 14
	StageMorning    = 15
)

const (
	lobbyDuration       = 60 * time.Second
	nightStartDuration  = 5 * time.Second
	voteResultsDuration = 10 * time.Second
	morningDuration     = 20 * time.Second

	// retryDelay pushes a failed game forward instead of hot-looping it
	retryDelay = 10 * time.Second
)

// stageDef is one phase registration: a duration, possibly computed from
// game state, and a side-effecting entry action
type stageDef struct {
	duration func(g *models.Game) time.Duration
	enter    func(ctx context.Context, g *models.Game)
}

// roleStage binds a night stage to the role that acts in it
type roleStage struct {
	role   models.RoleKind
	action models.NightAction
	prompt string
}

// roleStages maps each single-actor night stage to its role. The mafia
// stage is handled separately because it has multiple actors.
var roleStages = map[int]roleStage{
	StageMistress: {role: models.RoleMistress, action: models.NightActionBlock, prompt: lang.MistressPM},
	StageDrunkard: {role: models.RoleDrunkard, action: models.NightActionSilence, prompt: lang.DrunkardPM},
	StageDon:      {role: models.RoleDon, action: models.NightActionCheckSheriff, prompt: lang.DonPM},
	StageSheriff:  {role: models.RoleSheriff, action: models.NightActionCheckMafia, prompt: lang.SheriffPM},
	StageDoctor:   {role: models.RoleDoctor, action: models.NightActionHeal, prompt: lang.DoctorPM},
	StageSnowman:  {role: models.RoleSnowman, action: models.NightActionShield, prompt: lang.SnowmanPM},
	StageAngel:    {role: models.RoleAngel, action: models.NightActionBless, prompt: lang.AngelPM},
	StageTracker:  {role: models.RoleTracker, action: models.NightActionTrack, prompt: lang.TrackerPM},
	StageShadow:   {role: models.RoleShadow, action: models.NightActionHide, prompt: lang.ShadowPM},
	StageGrinch:   {role: models.RoleGrinch, action: models.NightActionSteal, prompt: lang.GrinchPM},
}

// buildStages wires the stage table once at construction. It is never
// mutated afterwards.
func (s *service) buildStages() map[int]stageDef {
	fixed := func(d time.Duration) func(*models.Game) time.Duration {
		return func(*models.Game) time.Duration { return d }
	}

	stages := map[int]stageDef{
		StageLobby: {
			duration: fixed(lobbyDuration),
			enter:    func(context.Context, *models.Game) {},
		},
		StageDiscussion: {
			duration: s.discussionDuration,
			enter:    s.enterDiscussion,
		},
		StageVoting: {
			duration: func(*models.Game) time.Duration { return s.cfg.VoteDuration },
			enter:    s.enterVoting,
		},
		StageVoteResults: {
			duration: fixed(voteResultsDuration),
			enter:    s.enterVoteResults,
		},
		StageNightStart: {
			duration: fixed(nightStartDuration),
			enter:    s.enterNightStart,
		},
		StageMafia: {
			duration: s.nightStageDuration,
			enter:    s.enterMafiaStage,
		},
		StageMorning: {
			duration: fixed(morningDuration),
			enter:    s.enterMorning,
		},
	}

	for number, rs := range roleStages {
		rs := rs
		stages[number] = stageDef{
			duration: s.nightStageDuration,
			enter: func(ctx context.Context, g *models.Game) {
				s.enterRoleStage(ctx, g, rs)
			},
		}
	}

	return stages
}

// discussionDuration gives the first day a full window and later days half
func (s *service) discussionDuration(g *models.Game) time.Duration {
	if g.DayCount <= 1 {
		return s.cfg.DayDuration
	}
	return s.cfg.DayDuration / 2
}

// nightStageDuration shortens role stages under a firework event
func (s *service) nightStageDuration(g *models.Game) time.Duration {
	if g.CurrentEvent == models.NightEventFirework {
		return s.cfg.NightActionDuration / 2
	}
	return s.cfg.NightActionDuration
}

// enterDiscussion posts the morning scoreboard and records its reference
func (s *service) enterDiscussion(ctx context.Context, g *models.Game) {
	remaining := g.Deadline.Sub(s.cfg.Clock.Now()).Round(time.Second)
	text := s.morningText(g, remaining)

	out, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID: g.ChatID,
		Text:   text,
	})
	if err != nil {
		zap.S().Errorw("failed to send morning message", "chat_id", g.ChatID, "error", err)
		return
	}

	if err := s.cfg.GameRepo.SetMessageID(ctx, &gameRepo.SetMessageIDInput{
		ChatID:    g.ChatID,
		MessageID: out.MessageID,
	}); err != nil {
		zap.S().Errorw("failed to record morning message", "chat_id", g.ChatID, "error", err)
	}
}

// morningText renders the discussion scoreboard
func (s *service) morningText(g *models.Game, remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}

	eventText := ""
	if text, ok := eventTexts[g.CurrentEvent]; ok {
		eventText = "\n" + text
	}
	peaceText := ""
	if g.DayCount > 1 {
		peaceText = lang.MorningPeaceful
	}

	return fmt.Sprintf(lang.MorningMessage, g.DayCount, remaining, eventText, peaceText, formatRoster(g))
}

// enterVoting posts the ballot with one button per living player plus
// an abstain button
func (s *service) enterVoting(ctx context.Context, g *models.Game) {
	buttons := targetButtons(g, "vote", nil)
	buttons = append(buttons, []messaging.Button{{Label: "🤐", Action: "vote abstain"}})

	out, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID:  g.ChatID,
		Text:    fmt.Sprintf(lang.VoteStart, formatVotes(g)),
		Buttons: buttons,
	})
	if err != nil {
		zap.S().Errorw("failed to send ballot", "chat_id", g.ChatID, "error", err)
		return
	}

	if err := s.cfg.GameRepo.SetMessageID(ctx, &gameRepo.SetMessageIDInput{
		ChatID:    g.ChatID,
		MessageID: out.MessageID,
	}); err != nil {
		zap.S().Errorw("failed to record ballot message", "chat_id", g.ChatID, "error", err)
	}
}

// enterVoteResults resolves the day vote
func (s *service) enterVoteResults(ctx context.Context, g *models.Game) {
	s.resolveDay(ctx, g)
}

// enterNightStart announces the night and any rolled event
func (s *service) enterNightStart(ctx context.Context, g *models.Game) {
	text := lang.NightStart
	if eventText, ok := eventTexts[g.CurrentEvent]; ok {
		text += "\n" + eventText
	}
	s.sendChat(ctx, g.ChatID, text)
}

// enterMafiaStage prompts every living mafia-aligned shooter
func (s *service) enterMafiaStage(ctx context.Context, g *models.Game) {
	var shooters []int
	for i, p := range g.Players {
		if p.Alive && models.IsMafiaAligned(p.Role) {
			shooters = append(shooters, i)
		}
	}
	if len(shooters) == 0 {
		s.advanceLogged(ctx, g, 1)
		return
	}

	for _, idx := range shooters {
		actor := g.Players[idx]
		if g.IsBlocked(actor.ID) {
			s.markBlocked(ctx, g, idx)
			continue
		}

		var team []string
		for _, j := range shooters {
			if j != idx {
				team = append(team, g.Players[j].Name)
			}
		}
		teamText := lang.MafiaTeamAlone
		if len(team) > 0 {
			teamText = fmt.Sprintf(lang.MafiaTeamReveal, strings.Join(team, ", "))
		}

		s.sendPrivate(ctx, g, idx, fmt.Sprintf(lang.MafiaPM, teamText), targetButtons(g, "act "+g.ChatID, nil))
	}
}

// enterRoleStage prompts the single living holder of the stage's role.
// With no living actor the stage is skipped outright.
func (s *service) enterRoleStage(ctx context.Context, g *models.Game, rs roleStage) {
	idx := -1
	for i, p := range g.Players {
		if p.Alive && p.Role == rs.role {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.advanceLogged(ctx, g, 1)
		return
	}

	actor := g.Players[idx]
	if g.IsBlocked(actor.ID) {
		s.markBlocked(ctx, g, idx)
		return
	}

	exclude := map[int]bool{}
	if rs.role != models.RoleDoctor {
		// Only the doctor may target themselves.
		exclude[idx] = true
	}

	s.sendPrivate(ctx, g, idx, rs.prompt, targetButtons(g, "act "+g.ChatID, exclude))
}

// enterMorning resolves the night
func (s *service) enterMorning(ctx context.Context, g *models.Game) {
	s.resolveNight(ctx, g)
}

// markBlocked notifies a blocked actor and records them as played with no
// effect, so the stage can still complete early
func (s *service) markBlocked(ctx context.Context, g *models.Game, idx int) {
	actor := g.Players[idx]
	if _, err := s.cfg.GameRepo.RecordNightAction(ctx, &gameRepo.RecordNightActionInput{
		ChatID:  g.ChatID,
		Stage:   g.Stage,
		ActorID: actor.ID,
		Action:  models.NightActionNone,
	}); err != nil {
		zap.S().Errorw("failed to record blocked actor", "chat_id", g.ChatID, "player", actor.ID, "error", err)
	}
	s.sendPrivate(ctx, g, idx, lang.ActionBlocked, nil)
}

// advanceLogged advances and logs failures; used from entry actions where
// errors must never propagate
func (s *service) advanceLogged(ctx context.Context, g *models.Game, inc int) {
	if _, err := s.advance(ctx, g, inc); err != nil {
		zap.S().Errorw("failed to advance stage", "chat_id", g.ChatID, "stage", g.Stage, "error", err)
	}
}
