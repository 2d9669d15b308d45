package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	requestRepo "github.com/winterden/mafiabot/internal/repositories/request"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
	"github.com/winterden/mafiabot/internal/services/messaging"
)

// Define errors
var (
	// ErrRequestNotFound is returned when the chat has no open join request
	ErrRequestNotFound = errors.New("no open join request in this chat")

	// ErrRequestExists is returned when the chat already has a join request
	ErrRequestExists = errors.New("join request already open in this chat")

	// ErrGameNotFound is returned when the chat has no running game
	ErrGameNotFound = errors.New("no running game in this chat")

	// ErrGameExists is returned when the chat already has a running game
	ErrGameExists = errors.New("game already running in this chat")

	// ErrNotEnoughPlayers is returned when starting below the minimum
	ErrNotEnoughPlayers = errors.New("not enough players to start")

	// ErrTriadSize is returned when starting the triad mode with a roster
	// of any size other than three
	ErrTriadSize = errors.New("the triad mode needs exactly three players")

	// ErrNotOwner is returned when a non-owner cancels a request
	ErrNotOwner = errors.New("only the request owner can do that")

	// ErrNotInGame is returned when the caller is not a player
	ErrNotInGame = errors.New("you are not in this game")

	// ErrDead is returned when a dead player tries to act
	ErrDead = errors.New("dead players cannot act")

	// ErrWrongStage is returned when the action does not fit the stage
	ErrWrongStage = errors.New("that action is not available right now")

	// ErrWrongRole is returned when the caller's role cannot act this stage
	ErrWrongRole = errors.New("your role cannot do that")

	// ErrAlreadyActed is returned on a duplicate night action
	ErrAlreadyActed = errors.New("you already acted this stage")

	// ErrBlocked is returned when the caller's night action was blocked
	ErrBlocked = errors.New("your action was blocked tonight")

	// ErrSilenced is returned when a muted player tries to vote
	ErrSilenced = errors.New("you cannot vote today")

	// ErrBadTarget is returned for an invalid or dead target
	ErrBadTarget = errors.New("invalid target")

	// ErrCardTaken is returned when the caller's card is already claimed
	ErrCardTaken = errors.New("you already have your card")
)

// service implements the Service interface
type service struct {
	cfg    *Config
	stages map[int]stageDef
}

// NewService creates a new game service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.GameRepo == nil {
		return nil, errors.New("game repository cannot be nil")
	}
	if cfg.RequestRepo == nil {
		return nil, errors.New("request repository cannot be nil")
	}
	if cfg.PollRepo == nil {
		return nil, errors.New("poll repository cannot be nil")
	}
	if cfg.StatsRepo == nil {
		return nil, errors.New("stats repository cannot be nil")
	}
	if cfg.Notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}
	if cfg.UUID == nil {
		return nil, errors.New("uuid generator cannot be nil")
	}
	if cfg.Random == nil {
		return nil, errors.New("random source cannot be nil")
	}

	s := &service{cfg: cfg}
	s.stages = s.buildStages()
	return s, nil
}

// CreateRequest opens a join request in the chat. The owner joins
// automatically.
func (s *service) CreateRequest(ctx context.Context, input *CreateRequestInput) (*CreateRequestOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	if _, err := s.cfg.GameRepo.GetGame(ctx, &gameRepo.GetGameInput{ChatID: input.ChatID}); err == nil {
		return nil, ErrGameExists
	}

	now := s.cfg.Clock.Now()
	owner := &models.Player{
		ID:    input.PlayerID,
		Name:  input.PlayerName,
		Alive: true,
	}
	req := &models.JoinRequest{
		ID:        s.cfg.UUID.NewUUID(),
		ChatID:    input.ChatID,
		Owner:     owner,
		Players:   []*models.Player{owner},
		ExpiresAt: now.Add(s.cfg.RequestTTL),
		CreatedAt: now,
	}

	err := s.cfg.RequestRepo.CreateRequest(ctx, &requestRepo.CreateRequestInput{Request: req})
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestExists) {
			return nil, ErrRequestExists
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.sendLobbyMessage(ctx, req)

	return &CreateRequestOutput{Request: req}, nil
}

// JoinRequest adds a player to the chat's join request
func (s *service) JoinRequest(ctx context.Context, input *JoinRequestInput) (*JoinRequestOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	req, err := s.cfg.RequestRepo.JoinRequest(ctx, &requestRepo.JoinRequestInput{
		ChatID: input.ChatID,
		Player: &models.Player{
			ID:    input.PlayerID,
			Name:  input.PlayerName,
			Alive: true,
		},
		Capacity:  s.cfg.MaxPlayers,
		ExpiresAt: s.cfg.Clock.Now().Add(s.cfg.RequestTTL),
	})
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	s.updateLobbyMessage(ctx, req)

	return &JoinRequestOutput{Request: req}, nil
}

// LeaveRequest removes a player from the chat's join request
func (s *service) LeaveRequest(ctx context.Context, input *LeaveRequestInput) (*LeaveRequestOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	req, err := s.cfg.RequestRepo.LeaveRequest(ctx, &requestRepo.LeaveRequestInput{
		ChatID:   input.ChatID,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	s.updateLobbyMessage(ctx, req)

	return &LeaveRequestOutput{Request: req}, nil
}

// CancelRequest discards the chat's join request; owner only
func (s *service) CancelRequest(ctx context.Context, input *CancelRequestInput) (*CancelRequestOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	req, err := s.cfg.RequestRepo.GetRequest(ctx, &requestRepo.GetRequestInput{ChatID: input.ChatID})
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if req.Owner == nil || req.Owner.ID != input.PlayerID {
		return nil, ErrNotOwner
	}

	deleted, err := s.cfg.RequestRepo.DeleteRequest(ctx, &requestRepo.DeleteRequestInput{ChatID: input.ChatID})
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrRequestNotFound
	}

	if req.MessageID != "" {
		s.notifyClearButtons(ctx, req.ChatID, req.MessageID, lang.GameCancelled)
	}

	return &CancelRequestOutput{}, nil
}

// StartGame promotes the join request into a running game. The request
// delete doubles as the start lock: of two racing starters only the one
// whose delete observed the request proceeds.
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	req, err := s.cfg.RequestRepo.GetRequest(ctx, &requestRepo.GetRequestInput{ChatID: input.ChatID})
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if req.Owner == nil || req.Owner.ID != input.PlayerID {
		return nil, ErrNotOwner
	}

	mode := input.Mode
	if mode == "" {
		mode = models.GameModeFull
	}
	if mode == models.GameModeTriad {
		// The triad deck is three cards; any other roster size would
		// leave players without a card.
		if len(req.Players) != 3 {
			return nil, ErrTriadSize
		}
	} else if len(req.Players) < s.cfg.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	deleted, err := s.cfg.RequestRepo.DeleteRequest(ctx, &requestRepo.DeleteRequestInput{ChatID: input.ChatID})
	if err != nil {
		return nil, err
	}
	if !deleted {
		// Someone else started or cancelled first.
		return nil, ErrRequestNotFound
	}

	now := s.cfg.Clock.Now()
	game := &models.Game{
		ID:        s.cfg.UUID.NewUUID(),
		ChatID:    input.ChatID,
		Mode:      mode,
		Stage:     StageLobby,
		DayCount:  1,
		Players:   req.Players,
		Cards:     s.composeRoles(len(req.Players), mode),
		Votes:     map[int]int{},
		Deadline:  now.Add(lobbyDuration),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.cfg.GameRepo.CreateGame(ctx, &gameRepo.CreateGameInput{Game: game}); err != nil {
		if errors.Is(err, gameRepo.ErrGameExists) {
			return nil, ErrGameExists
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if req.MessageID != "" {
		s.notifyClearButtons(ctx, req.ChatID, req.MessageID, lang.RequestFull)
	}

	out, err := s.cfg.Notifier.SendMessage(ctx, &messaging.SendMessageInput{
		ChatID: game.ChatID,
		Text:   lang.GameStarting + "\n\n" + lang.LobbyCardPrompt,
		Buttons: [][]messaging.Button{{
			{Label: "🃏 Take card", Action: "card"},
		}},
	})
	if err != nil {
		zap.S().Errorw("failed to send card prompt", "chat_id", game.ChatID, "error", err)
	} else {
		if err := s.cfg.GameRepo.SetMessageID(ctx, &gameRepo.SetMessageIDInput{
			ChatID:    game.ChatID,
			MessageID: out.MessageID,
		}); err != nil {
			zap.S().Errorw("failed to record card prompt message", "chat_id", game.ChatID, "error", err)
		}
	}

	return &StartGameOutput{Game: game}, nil
}

// ClaimCard assigns the caller their pre-shuffled role during the lobby
func (s *service) ClaimCard(ctx context.Context, input *ClaimCardInput) (*ClaimCardOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	game, err := s.getGame(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if game.Stage != StageLobby {
		return nil, ErrWrongStage
	}

	idx := game.PlayerIndex(input.PlayerID)
	if idx < 0 {
		return nil, ErrNotInGame
	}

	updated, err := s.cfg.GameRepo.ClaimCard(ctx, &gameRepo.ClaimCardInput{
		ChatID:      input.ChatID,
		PlayerIndex: idx,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrCardTaken) {
			return nil, ErrCardTaken
		}
		return nil, err
	}

	role := updated.Players[idx].Role
	s.sendPrivate(ctx, updated, idx, fmt.Sprintf(lang.LobbyCardDealt, models.RoleTitle(role)), nil)

	if allCardsClaimed(updated) {
		// The last claim skips the rest of the lobby window.
		if _, err := s.advance(ctx, updated, 2); err != nil && !errors.Is(err, gameRepo.ErrStageConflict) {
			zap.S().Errorw("failed to advance after last claim", "chat_id", input.ChatID, "error", err)
		}
	}

	return &ClaimCardOutput{Role: role}, nil
}

// RevealTeam privately sends a mafia-aligned player their living team
func (s *service) RevealTeam(ctx context.Context, input *RevealTeamInput) (*RevealTeamOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	game, err := s.getGame(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}

	idx := game.PlayerIndex(input.PlayerID)
	if idx < 0 {
		return nil, ErrNotInGame
	}
	player := game.Players[idx]
	if !player.Alive {
		return nil, ErrDead
	}
	if !models.IsMafiaAligned(player.Role) {
		return nil, ErrWrongRole
	}

	var team []string
	for _, p := range game.AlivePlayers() {
		if p.ID != player.ID && models.IsMafiaAligned(p.Role) {
			team = append(team, p.Name)
		}
	}

	text := lang.MafiaTeamAlone
	if len(team) > 0 {
		text = fmt.Sprintf(lang.MafiaTeamReveal, strings.Join(team, ", "))
	}
	s.sendPrivate(ctx, game, idx, text, nil)

	return &RevealTeamOutput{}, nil
}

// GetGame retrieves the chat's running game
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil || input.ChatID == "" {
		return nil, errors.New("input and chat ID cannot be empty")
	}

	game, err := s.getGame(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{Game: game}, nil
}

// GetStats retrieves a player's per-chat counters
func (s *service) GetStats(ctx context.Context, input *GetStatsInput) (*GetStatsOutput, error) {
	if input == nil || input.ChatID == "" || input.PlayerID == "" {
		return nil, errors.New("input, chat ID and player ID cannot be empty")
	}

	counters, err := s.cfg.StatsRepo.GetStats(ctx, &statsRepo.GetStatsInput{
		ChatID:   input.ChatID,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		return nil, err
	}

	return &GetStatsOutput{Counters: counters}, nil
}

func (s *service) getGame(ctx context.Context, chatID string) (*models.Game, error) {
	game, err := s.cfg.GameRepo.GetGame(ctx, &gameRepo.GetGameInput{ChatID: chatID})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func allCardsClaimed(game *models.Game) bool {
	for _, p := range game.Players {
		if p.Role == "" {
			return false
		}
	}
	return true
}
