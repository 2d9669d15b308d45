package game

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/winterden/mafiabot/internal/common/clock/mocks"
	"github.com/winterden/mafiabot/internal/common/random"
	"github.com/winterden/mafiabot/internal/common/uuid"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	pollRepo "github.com/winterden/mafiabot/internal/repositories/poll"
	requestRepo "github.com/winterden/mafiabot/internal/repositories/request"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
	"github.com/winterden/mafiabot/internal/services/messaging"
	messagingMocks "github.com/winterden/mafiabot/internal/services/messaging/mocks"
)

const testChatID = "test-chat-id"

type ServiceTestSuite struct {
	suite.Suite
	mr       *miniredis.Miniredis
	client   *redis.Client
	ctrl     *gomock.Controller
	notifier *messagingMocks.MockNotifier
	clock    *clockMocks.MockClock
	games    gameRepo.Repository
	requests requestRepo.Repository
	polls    pollRepo.Repository
	stats    statsRepo.Repository
	service  *service
	testNow  time.Time

	// Captured outbound texts, appended in call order
	chatTexts    []string
	privateTexts []string
}

func (s *ServiceTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Real repositories backed by miniredis
	games, err := gameRepo.NewRedis(&gameRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.games = games
	requests, err := requestRepo.NewRedis(&requestRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.requests = requests
	polls, err := pollRepo.NewRedis(&pollRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.polls = polls
	stats, err := statsRepo.NewRedis(&statsRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.stats = stats

	// Mock clock and notifier
	s.ctrl = gomock.NewController(s.T())
	s.testNow = time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)
	s.clock = clockMocks.NewMockClock(s.ctrl)
	s.clock.EXPECT().Now().Return(s.testNow).AnyTimes()

	s.chatTexts = nil
	s.privateTexts = nil
	s.notifier = messagingMocks.NewMockNotifier(s.ctrl)
	s.notifier.EXPECT().SendMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input *messaging.SendMessageInput) (*messaging.SendMessageOutput, error) {
			s.chatTexts = append(s.chatTexts, input.Text)
			return &messaging.SendMessageOutput{MessageID: "message-1"}, nil
		}).AnyTimes()
	s.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input *messaging.SendPrivateInput) (*messaging.SendPrivateOutput, error) {
			s.privateTexts = append(s.privateTexts, input.Text)
			return &messaging.SendPrivateOutput{MessageID: "pm-1"}, nil
		}).AnyTimes()
	s.notifier.EXPECT().EditMessage(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.notifier.EXPECT().ClearButtons(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.notifier.EXPECT().DeleteMessage(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc, err := NewService(&Config{
		GameRepo:            s.games,
		RequestRepo:         s.requests,
		PollRepo:            s.polls,
		StatsRepo:           s.stats,
		Notifier:            s.notifier,
		Clock:               s.clock,
		UUID:                uuid.New(),
		Random:              random.New(&random.Config{Seed: 42}),
		MinPlayers:          4,
		MaxPlayers:          10,
		NightActionDuration: 30 * time.Second,
		DayDuration:         3 * time.Minute,
		VoteDuration:        time.Minute,
		RequestTTL:          10 * time.Minute,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

// seedGame stores a game document directly, bypassing the lobby
func (s *ServiceTestSuite) seedGame(game *models.Game) *models.Game {
	if game.ChatID == "" {
		game.ChatID = testChatID
	}
	if game.ID == "" {
		game.ID = "seeded-game"
	}
	if game.DayCount == 0 {
		game.DayCount = 1
	}
	if game.Deadline.IsZero() {
		game.Deadline = s.testNow.Add(time.Minute)
	}
	err := s.games.CreateGame(context.Background(), &gameRepo.CreateGameInput{Game: game})
	s.Require().NoError(err)
	return game
}

// classicFive is mafia, sheriff, doctor and two civilians, all alive
func classicFive() []*models.Player {
	return []*models.Player{
		{ID: "p0", Name: "Alice", Role: models.RoleMafia, Alive: true},
		{ID: "p1", Name: "Bob", Role: models.RoleSheriff, Alive: true},
		{ID: "p2", Name: "Carol", Role: models.RoleDoctor, Alive: true},
		{ID: "p3", Name: "Dave", Role: models.RolePeace, Alive: true},
		{ID: "p4", Name: "Erin", Role: models.RolePeace, Alive: true},
	}
}

func (s *ServiceTestSuite) storedGame() *models.Game {
	game, err := s.games.GetGame(context.Background(), &gameRepo.GetGameInput{ChatID: testChatID})
	s.Require().NoError(err)
	return game
}

// --- join request lifecycle ---

func (s *ServiceTestSuite) TestCreateRequestAndJoin() {
	out, err := s.service.CreateRequest(context.Background(), &CreateRequestInput{
		ChatID:     testChatID,
		PlayerID:   "owner",
		PlayerName: "Alice",
	})
	s.Require().NoError(err)
	s.Require().Len(out.Request.Players, 1)

	// The owner cannot join twice
	_, err = s.service.JoinRequest(context.Background(), &JoinRequestInput{
		ChatID:     testChatID,
		PlayerID:   "owner",
		PlayerName: "Alice",
	})
	s.Require().Error(err)

	joinOut, err := s.service.JoinRequest(context.Background(), &JoinRequestInput{
		ChatID:     testChatID,
		PlayerID:   "p2",
		PlayerName: "Bob",
	})
	s.Require().NoError(err)
	s.Len(joinOut.Request.Players, 2)

	leaveOut, err := s.service.LeaveRequest(context.Background(), &LeaveRequestInput{
		ChatID:   testChatID,
		PlayerID: "p2",
	})
	s.Require().NoError(err)
	s.Len(leaveOut.Request.Players, 1)
}

func (s *ServiceTestSuite) TestCreateRequestWhileGameRunning() {
	s.seedGame(&models.Game{Stage: StageDiscussion, Players: classicFive()})

	_, err := s.service.CreateRequest(context.Background(), &CreateRequestInput{
		ChatID:     testChatID,
		PlayerID:   "owner",
		PlayerName: "Alice",
	})
	s.Require().Error(err)
	s.Equal(ErrGameExists, err)
}

func (s *ServiceTestSuite) TestCancelRequestOwnerOnly() {
	_, err := s.service.CreateRequest(context.Background(), &CreateRequestInput{
		ChatID:     testChatID,
		PlayerID:   "owner",
		PlayerName: "Alice",
	})
	s.Require().NoError(err)

	_, err = s.service.CancelRequest(context.Background(), &CancelRequestInput{
		ChatID:   testChatID,
		PlayerID: "someone-else",
	})
	s.Require().Error(err)
	s.Equal(ErrNotOwner, err)

	_, err = s.service.CancelRequest(context.Background(), &CancelRequestInput{
		ChatID:   testChatID,
		PlayerID: "owner",
	})
	s.Require().NoError(err)

	// The request is gone
	_, err = s.service.JoinRequest(context.Background(), &JoinRequestInput{
		ChatID:   testChatID,
		PlayerID: "p2",
	})
	s.Equal(ErrRequestNotFound, err)
}

// --- starting a game ---

func (s *ServiceTestSuite) openRequestWith(playerIDs ...string) {
	_, err := s.service.CreateRequest(context.Background(), &CreateRequestInput{
		ChatID:     testChatID,
		PlayerID:   playerIDs[0],
		PlayerName: "Player " + playerIDs[0],
	})
	s.Require().NoError(err)

	for _, id := range playerIDs[1:] {
		_, err := s.service.JoinRequest(context.Background(), &JoinRequestInput{
			ChatID:     testChatID,
			PlayerID:   id,
			PlayerName: "Player " + id,
		})
		s.Require().NoError(err)
	}
}

func (s *ServiceTestSuite) TestStartGameNotEnoughPlayers() {
	s.openRequestWith("owner", "p2")

	_, err := s.service.StartGame(context.Background(), &StartGameInput{
		ChatID:   testChatID,
		PlayerID: "owner",
	})
	s.Require().Error(err)
	s.Equal(ErrNotEnoughPlayers, err)
}

func (s *ServiceTestSuite) TestStartGame() {
	s.openRequestWith("owner", "p2", "p3", "p4", "p5")

	out, err := s.service.StartGame(context.Background(), &StartGameInput{
		ChatID:   testChatID,
		PlayerID: "owner",
	})
	s.Require().NoError(err)

	s.Equal(StageLobby, out.Game.Stage)
	s.Equal(1, out.Game.DayCount)
	s.Len(out.Game.Players, 5)
	s.Len(out.Game.Cards, 5)

	// The request was consumed by the start
	_, err = s.service.StartGame(context.Background(), &StartGameInput{
		ChatID:   testChatID,
		PlayerID: "owner",
	})
	s.Equal(ErrRequestNotFound, err)
}

func (s *ServiceTestSuite) TestStartGameTriad() {
	s.openRequestWith("owner", "p2", "p3")

	out, err := s.service.StartGame(context.Background(), &StartGameInput{
		ChatID:   testChatID,
		PlayerID: "owner",
		Mode:     models.GameModeTriad,
	})
	s.Require().NoError(err)

	counts := map[models.RoleKind]int{}
	for _, role := range out.Game.Cards {
		counts[role]++
	}
	s.Equal(1, counts[models.RoleXmasSanta])
	s.Equal(1, counts[models.RoleXmasElf])
	s.Equal(1, counts[models.RoleXmasDarkElf])
}

func (s *ServiceTestSuite) TestStartGameTriadWrongSize() {
	s.openRequestWith("owner", "p2", "p3", "p4")

	// Four players cannot split a three-card triad deck
	_, err := s.service.StartGame(context.Background(), &StartGameInput{
		ChatID:   testChatID,
		PlayerID: "owner",
		Mode:     models.GameModeTriad,
	})
	s.Require().Error(err)
	s.Equal(ErrTriadSize, err)

	// The rejection consumed nothing: no game exists and the request is
	// still open
	_, err = s.games.GetGame(context.Background(), &gameRepo.GetGameInput{ChatID: testChatID})
	s.Equal(gameRepo.ErrGameNotFound, err)
	_, err = s.requests.GetRequest(context.Background(), &requestRepo.GetRequestInput{ChatID: testChatID})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestComposeRoles() {
	// Small game gets the fixed prefix
	counts := map[models.RoleKind]int{}
	for _, role := range s.service.composeRoles(5, models.GameModeFull) {
		counts[role]++
	}
	s.Equal(1, counts[models.RoleMafia])
	s.Equal(1, counts[models.RoleSheriff])
	s.Equal(1, counts[models.RoleDoctor])
	s.Equal(2, counts[models.RolePeace])

	// Larger games scale mafia to a third and add the don
	for _, n := range []int{6, 7, 9, 10} {
		roles := s.service.composeRoles(n, models.GameModeFull)
		s.Len(roles, n)

		counts = map[models.RoleKind]int{}
		for _, role := range roles {
			counts[role]++
		}
		s.Equal(n/3, counts[models.RoleMafia], "player count %d", n)
		s.Equal(1, counts[models.RoleSheriff])
		s.Equal(1, counts[models.RoleDoctor])
		s.Equal(1, counts[models.RoleDon])
	}
}

// --- lobby cards ---

func (s *ServiceTestSuite) TestClaimCard() {
	players := classicFive()
	for _, p := range players {
		p.Role = ""
	}
	s.seedGame(&models.Game{
		Stage:   StageLobby,
		Players: players,
		Cards:   []models.RoleKind{models.RoleMafia, models.RoleSheriff, models.RoleDoctor, models.RolePeace, models.RolePeace},
	})

	out, err := s.service.ClaimCard(context.Background(), &ClaimCardInput{
		ChatID:   testChatID,
		PlayerID: "p1",
	})
	s.Require().NoError(err)
	s.Equal(models.RoleSheriff, out.Role)

	// Claiming twice fails
	_, err = s.service.ClaimCard(context.Background(), &ClaimCardInput{
		ChatID:   testChatID,
		PlayerID: "p1",
	})
	s.Require().Error(err)
	s.Equal(ErrCardTaken, err)
}

func (s *ServiceTestSuite) TestLastClaimLeavesLobby() {
	players := classicFive()
	for _, p := range players {
		p.Role = ""
	}
	s.seedGame(&models.Game{
		Stage:   StageLobby,
		Players: players,
		Cards:   []models.RoleKind{models.RoleMafia, models.RoleSheriff, models.RoleDoctor, models.RolePeace, models.RolePeace},
	})

	for _, id := range []string{"p0", "p1", "p2", "p3", "p4"} {
		_, err := s.service.ClaimCard(context.Background(), &ClaimCardInput{
			ChatID:   testChatID,
			PlayerID: id,
		})
		s.Require().NoError(err)
	}

	// The last claim skipped the rest of the lobby window
	s.Equal(StageDiscussion, s.storedGame().Stage)
}

func (s *ServiceTestSuite) TestClaimCardWrongStage() {
	s.seedGame(&models.Game{Stage: StageDiscussion, Players: classicFive()})

	_, err := s.service.ClaimCard(context.Background(), &ClaimCardInput{
		ChatID:   testChatID,
		PlayerID: "p0",
	})
	s.Require().Error(err)
	s.Equal(ErrWrongStage, err)
}

// --- day vote ---

func (s *ServiceTestSuite) TestVote() {
	s.seedGame(&models.Game{Stage: StageVoting, Players: classicFive()})

	_, err := s.service.Vote(context.Background(), &VoteInput{
		ChatID:  testChatID,
		VoterID: "p1",
		Target:  0,
	})
	s.Require().NoError(err)

	s.Equal(0, s.storedGame().Votes[1])
}

func (s *ServiceTestSuite) TestVoteRejections() {
	players := classicFive()
	players[4].Alive = false
	s.seedGame(&models.Game{
		Stage:    StageVoting,
		Players:  players,
		Silenced: []int{3},
	})

	// Dead voters cannot vote
	_, err := s.service.Vote(context.Background(), &VoteInput{ChatID: testChatID, VoterID: "p4", Target: 0})
	s.Equal(ErrDead, err)

	// Silenced voters cannot vote
	_, err = s.service.Vote(context.Background(), &VoteInput{ChatID: testChatID, VoterID: "p3", Target: 0})
	s.Equal(ErrSilenced, err)

	// Dead targets are invalid
	_, err = s.service.Vote(context.Background(), &VoteInput{ChatID: testChatID, VoterID: "p1", Target: 4})
	s.Equal(ErrBadTarget, err)

	// Outsiders are not in the game
	_, err = s.service.Vote(context.Background(), &VoteInput{ChatID: testChatID, VoterID: "stranger", Target: 0})
	s.Equal(ErrNotInGame, err)

	// No game in that chat
	_, err = s.service.Vote(context.Background(), &VoteInput{ChatID: "other", VoterID: "p1", Target: 0})
	s.Equal(ErrGameNotFound, err)
}

func (s *ServiceTestSuite) TestVoteStolenPlayerCannotVote() {
	s.seedGame(&models.Game{
		Stage:   StageVoting,
		Players: classicFive(),
		Stolen:  []int{2},
	})

	_, err := s.service.Vote(context.Background(), &VoteInput{ChatID: testChatID, VoterID: "p2", Target: 0})
	s.Equal(ErrSilenced, err)
}

func (s *ServiceTestSuite) TestAllVotesCompleteEarlyAndExecute() {
	s.seedGame(&models.Game{Stage: StageVoting, Players: classicFive()})

	// Everyone piles on the mafia at index 0; the last ballot resolves the
	// vote without waiting for the deadline
	for _, voter := range []string{"p0", "p1", "p2", "p3", "p4"} {
		target := 0
		if voter == "p0" {
			target = models.AbstainTarget
		}
		_, err := s.service.Vote(context.Background(), &VoteInput{
			ChatID:  testChatID,
			VoterID: voter,
			Target:  target,
		})
		s.Require().NoError(err)
	}

	// Executing the only mafia ends the game for town, so the game is gone
	_, err := s.games.GetGame(context.Background(), &gameRepo.GetGameInput{ChatID: testChatID})
	s.Equal(gameRepo.ErrGameNotFound, err)

	// Town win credited a win for town players
	counters, err := s.stats.GetStats(context.Background(), &statsRepo.GetStatsInput{
		ChatID:   testChatID,
		PlayerID: "p1",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), counters["games.total"])
	s.Equal(int64(1), counters["games.win"])

	// The executed mafia got no win
	counters, err = s.stats.GetStats(context.Background(), &statsRepo.GetStatsInput{
		ChatID:   testChatID,
		PlayerID: "p0",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), counters["games.total"])
	s.Equal(int64(0), counters["games.win"])
}

func (s *ServiceTestSuite) TestDayVoteTieExecutesNobody() {
	game := s.seedGame(&models.Game{
		Stage:   StageVoteResults,
		Players: classicFive(),
		Votes:   map[int]int{0: 3, 1: 3, 2: 4, 4: 4},
	})

	s.service.resolveDay(context.Background(), game)

	// Tie between 3 and 4; nobody dies and the game moves to night
	stored := s.storedGame()
	s.Equal(StageNightStart, stored.Stage)
	for _, p := range stored.Players {
		s.True(p.Alive)
	}
}

func (s *ServiceTestSuite) TestDayVotePluralityExecutes() {
	game := s.seedGame(&models.Game{
		Stage:   StageVoteResults,
		Players: classicFive(),
		Votes:   map[int]int{0: 3, 1: 3, 2: 4},
	})

	s.service.resolveDay(context.Background(), game)

	stored := s.storedGame()
	s.False(stored.Players[3].Alive)
	s.True(stored.Players[4].Alive)
	s.Equal(StageNightStart, stored.Stage)
}

func (s *ServiceTestSuite) TestDayVoteAngelSave() {
	game := s.seedGame(&models.Game{
		Stage:     StageVoteResults,
		Players:   classicFive(),
		Votes:     map[int]int{0: 3, 1: 3},
		Blessings: []int{3},
	})

	s.service.resolveDay(context.Background(), game)

	stored := s.storedGame()
	s.True(stored.Players[3].Alive)
	s.Equal(StageNightStart, stored.Stage)
}

func (s *ServiceTestSuite) TestKamikazeRevenge() {
	players := []*models.Player{
		{ID: "p0", Name: "Alice", Role: models.RoleMafia, Alive: true},
		{ID: "p1", Name: "Bob", Role: models.RoleSheriff, Alive: true},
		{ID: "p2", Name: "Carol", Role: models.RoleKamikaze, Alive: true},
		{ID: "p3", Name: "Dave", Role: models.RolePeace, Alive: true},
		{ID: "p4", Name: "Erin", Role: models.RolePeace, Alive: true},
		{ID: "p5", Name: "Frank", Role: models.RolePeace, Alive: true},
	}
	game := s.seedGame(&models.Game{
		Stage:   StageVoteResults,
		Players: players,
		Votes:   map[int]int{1: 2, 3: 2, 4: 2},
	})

	s.service.resolveDay(context.Background(), game)

	stored := s.storedGame()
	s.False(stored.Players[2].Alive)

	// Exactly one of the kamikaze's voters went down too
	dead := 0
	for _, voter := range []int{1, 3, 4} {
		if !stored.Players[voter].Alive {
			dead++
		}
	}
	s.Equal(1, dead)
}

func (s *ServiceTestSuite) TestKamikazeRevengeUniform() {
	// The revenge target is drawn uniformly from the voters; over many
	// rounds each of the three voters should take a comparable share
	const trials = 300
	counts := map[int]int{}

	for i := 0; i < trials; i++ {
		players := []*models.Player{
			{ID: "p0", Name: "Alice", Role: models.RoleMafia, Alive: true},
			{ID: "p1", Name: "Bob", Role: models.RoleSheriff, Alive: true},
			{ID: "p2", Name: "Carol", Role: models.RoleKamikaze, Alive: true},
			{ID: "p3", Name: "Dave", Role: models.RolePeace, Alive: true},
			{ID: "p4", Name: "Erin", Role: models.RolePeace, Alive: true},
			{ID: "p5", Name: "Frank", Role: models.RolePeace, Alive: true},
		}
		game := &models.Game{
			ChatID:  testChatID,
			Players: players,
			Votes:   map[int]int{1: 2, 3: 2, 4: 2},
		}

		s.service.kamikazeRevenge(context.Background(), game, 2)

		for _, voter := range []int{1, 3, 4} {
			if !game.Players[voter].Alive {
				counts[voter]++
			}
		}
	}

	// Exactly one voter dies per round, and no voter is favored: each
	// share sits well inside [1/6, 1/2] around the expected 1/3
	total := 0
	for _, voter := range []int{1, 3, 4} {
		s.Greater(counts[voter], trials/6)
		s.Less(counts[voter], trials/2)
		total += counts[voter]
	}
	s.Equal(trials, total)
}

// --- night actions ---

func (s *ServiceTestSuite) TestUseAbilityMafiaShot() {
	s.seedGame(&models.Game{Stage: StageMafia, Players: classicFive()})

	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p0",
		Target:  3,
	})
	s.Require().NoError(err)

	// The lone mafia finished the stage; play moved past the mafia stage
	stored := s.storedGame()
	s.NotEqual(StageMafia, stored.Stage)
}

func (s *ServiceTestSuite) TestUseAbilityRoleGating() {
	s.seedGame(&models.Game{Stage: StageDoctor, Players: classicFive()})

	// The sheriff cannot act in the doctor stage
	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p1",
		Target:  0,
	})
	s.Equal(ErrWrongRole, err)

	// A civilian cannot shoot in the mafia stage either
	s.mr.FlushAll()
	s.seedGame(&models.Game{Stage: StageMafia, Players: classicFive()})
	_, err = s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p3",
		Target:  0,
	})
	s.Equal(ErrWrongRole, err)
}

func (s *ServiceTestSuite) TestUseAbilityDoctorSelfHeal() {
	s.seedGame(&models.Game{Stage: StageDoctor, Players: classicFive()})

	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p2",
		Target:  2,
	})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestUseAbilitySelfTargetRejected() {
	s.seedGame(&models.Game{Stage: StageMafia, Players: classicFive()})

	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p0",
		Target:  0,
	})
	s.Equal(ErrBadTarget, err)
}

func (s *ServiceTestSuite) TestUseAbilityBlocked() {
	s.seedGame(&models.Game{
		Stage:   StageDoctor,
		Players: classicFive(),
		Blocks:  []string{"p2"},
	})

	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p2",
		Target:  0,
	})
	s.Equal(ErrBlocked, err)
}

func (s *ServiceTestSuite) TestUseAbilityWrongStage() {
	s.seedGame(&models.Game{Stage: StageDiscussion, Players: classicFive()})

	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p2",
		Target:  0,
	})
	s.Equal(ErrWrongStage, err)
}

func (s *ServiceTestSuite) TestSheriffCheckReportsMafia() {
	players := classicFive()
	players = append(players, &models.Player{ID: "p5", Name: "Frank", Role: models.RoleMafia, Alive: true})
	s.seedGame(&models.Game{Stage: StageSheriff, Players: players})

	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p1",
		Target:  0,
	})
	s.Require().NoError(err)

	s.Require().NotEmpty(s.privateTexts)
	s.Contains(s.privateTexts[0], "Alice")
	s.Contains(s.privateTexts[0], "mafia")
}

func (s *ServiceTestSuite) TestSheriffCheckHiddenDuringBlizzard() {
	players := classicFive()
	players = append(players, &models.Player{ID: "p5", Name: "Frank", Role: models.RoleMafia, Alive: true})
	s.seedGame(&models.Game{
		Stage:        StageSheriff,
		Players:      players,
		CurrentEvent: models.NightEventBlizzard,
	})

	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p1",
		Target:  0,
	})
	s.Require().NoError(err)

	s.Require().NotEmpty(s.privateTexts)
	s.NotContains(s.privateTexts[0], "Alice")
}

func (s *ServiceTestSuite) TestSheriffCheckHiddenShadowReadsClean() {
	players := classicFive()
	players = append(players, &models.Player{ID: "p5", Name: "Frank", Role: models.RoleShadow, Alive: true})
	s.seedGame(&models.Game{
		Stage:         StageSheriff,
		Players:       players,
		HiddenShadows: []int{0},
	})

	_, err := s.service.UseAbility(context.Background(), &UseAbilityInput{
		ChatID:  testChatID,
		ActorID: "p1",
		Target:  0,
	})
	s.Require().NoError(err)

	// The hidden mafia reads exactly like a clean player, with nothing
	// hinting that anything intervened
	s.Require().NotEmpty(s.privateTexts)
	s.Contains(s.privateTexts[0], "Alice")
	s.Contains(s.privateTexts[0], "clean")
	s.NotContains(s.privateTexts[0], "mafia")
	s.NotContains(s.privateTexts[0], "nothing")
}

// --- night resolution ---

// seedNightEnd stores a game in the last night stage so a single advance
// lands on morning
func (s *ServiceTestSuite) seedNightEnd(game *models.Game) *models.Game {
	game.Stage = StageGrinch
	return s.seedGame(game)
}

func (s *ServiceTestSuite) TestNightShotKills() {
	players := classicFive()
	players = append(players, &models.Player{ID: "p5", Name: "Frank", Role: models.RolePeace, Alive: true})
	game := s.seedNightEnd(&models.Game{
		Players: players,
		Shots:   []int{3},
	})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	stored := s.storedGame()
	s.Equal(StageMorning, stored.Stage)
	s.False(stored.Players[3].Alive)
}

func (s *ServiceTestSuite) TestNightShotHealed() {
	game := s.seedNightEnd(&models.Game{
		Players: classicFive(),
		Shots:   []int{3},
		Heals:   []int{3},
	})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	s.True(s.storedGame().Players[3].Alive)
}

func (s *ServiceTestSuite) TestNightShotShielded() {
	game := s.seedNightEnd(&models.Game{
		Players: classicFive(),
		Shots:   []int{3},
		Shields: []int{3},
	})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	s.True(s.storedGame().Players[3].Alive)
}

func (s *ServiceTestSuite) TestNightContestedShotsFirstSeenPlurality() {
	players := classicFive()
	players = append(players,
		&models.Player{ID: "p5", Name: "Frank", Role: models.RolePeace, Alive: true},
		&models.Player{ID: "p6", Name: "Grace", Role: models.RolePeace, Alive: true},
	)
	game := s.seedNightEnd(&models.Game{
		Players: players,
		// 4 leads 3 after all shots are in
		Shots: []int{3, 4, 4},
	})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	stored := s.storedGame()
	s.True(stored.Players[3].Alive)
	s.False(stored.Players[4].Alive)
}

func (s *ServiceTestSuite) TestNightTiedShotsKillFirstSeen() {
	players := classicFive()
	players = append(players,
		&models.Player{ID: "p5", Name: "Frank", Role: models.RolePeace, Alive: true},
		&models.Player{ID: "p6", Name: "Grace", Role: models.RolePeace, Alive: true},
	)
	game := s.seedNightEnd(&models.Game{
		Players: players,
		Shots:   []int{4, 3},
	})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	// On a tie the first-seen target dies
	stored := s.storedGame()
	s.False(stored.Players[4].Alive)
	s.True(stored.Players[3].Alive)
}

func (s *ServiceTestSuite) TestSheriffDeathPromotesDeputy() {
	players := []*models.Player{
		{ID: "p0", Name: "Alice", Role: models.RoleMafia, Alive: true},
		{ID: "p1", Name: "Bob", Role: models.RoleSheriff, Alive: true},
		{ID: "p2", Name: "Carol", Role: models.RoleDeputy, Alive: true},
		{ID: "p3", Name: "Dave", Role: models.RolePeace, Alive: true},
		{ID: "p4", Name: "Erin", Role: models.RolePeace, Alive: true},
	}
	game := s.seedNightEnd(&models.Game{
		Players: players,
		Shots:   []int{1},
	})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	stored := s.storedGame()
	s.False(stored.Players[1].Alive)
	s.Equal(models.RoleSheriff, stored.Players[2].Role)
}

func (s *ServiceTestSuite) TestMafiaParityWin() {
	// One mafia against two town; killing one brings parity
	players := []*models.Player{
		{ID: "p0", Name: "Alice", Role: models.RoleMafia, Alive: true},
		{ID: "p1", Name: "Bob", Role: models.RolePeace, Alive: true},
		{ID: "p2", Name: "Carol", Role: models.RolePeace, Alive: true},
	}
	game := s.seedNightEnd(&models.Game{
		Players: players,
		Shots:   []int{1},
	})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	// The game ended and was deleted
	_, err = s.games.GetGame(context.Background(), &gameRepo.GetGameInput{ChatID: testChatID})
	s.Equal(gameRepo.ErrGameNotFound, err)

	// The mafia got the win
	counters, err := s.stats.GetStats(context.Background(), &statsRepo.GetStatsInput{
		ChatID:   testChatID,
		PlayerID: "p0",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), counters["games.win"])
}

// --- stage table ---

func (s *ServiceTestSuite) TestAdvanceSkipsEmptyRoleStages() {
	// No mistress in the game; advancing out of night start lands past the
	// mistress stage on the mafia prompt
	game := s.seedGame(&models.Game{Stage: StageNightStart, Players: classicFive()})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	// Mistress and drunkard stages self-skipped; the chain stops at the
	// mafia stage, which has a living actor
	s.Equal(StageMafia, s.storedGame().Stage)
}

func (s *ServiceTestSuite) TestWrapIncrementsDay() {
	game := s.seedGame(&models.Game{Stage: StageMorning, Players: classicFive(), DayCount: 1})

	_, err := s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	stored := s.storedGame()
	s.Equal(StageDiscussion, stored.Stage)
	s.Equal(2, stored.DayCount)
}

// --- polls ---

func (s *ServiceTestSuite) TestSkipPollMajority() {
	s.seedGame(&models.Game{Stage: StageDiscussion, Players: classicFive()})

	// 5 alive, majority is 3; the starter counts as the first vote
	_, err := s.service.StartPoll(context.Background(), &StartPollInput{
		ChatID:     testChatID,
		PlayerID:   "p0",
		PlayerName: "Alice",
		Kind:       models.PollKindSkip,
	})
	s.Require().NoError(err)

	_, err = s.service.VotePoll(context.Background(), &VotePollInput{
		ChatID:   testChatID,
		PlayerID: "p1",
		Kind:     models.PollKindSkip,
	})
	s.Require().NoError(err)
	s.Equal(StageDiscussion, s.storedGame().Stage)

	// Duplicate vote is rejected
	_, err = s.service.VotePoll(context.Background(), &VotePollInput{
		ChatID:   testChatID,
		PlayerID: "p1",
		Kind:     models.PollKindSkip,
	})
	s.Equal(ErrAlreadyVoted, err)

	// The third vote passes the poll and skips the stage
	out, err := s.service.VotePoll(context.Background(), &VotePollInput{
		ChatID:   testChatID,
		PlayerID: "p2",
		Kind:     models.PollKindSkip,
	})
	s.Require().NoError(err)
	s.True(out.Passed)
	s.Equal(StageVoting, s.storedGame().Stage)
}

func (s *ServiceTestSuite) TestEndPollTerminatesWithoutWinner() {
	s.seedGame(&models.Game{Stage: StageDiscussion, Players: classicFive()})

	_, err := s.service.StartPoll(context.Background(), &StartPollInput{
		ChatID:     testChatID,
		PlayerID:   "p0",
		PlayerName: "Alice",
		Kind:       models.PollKindEnd,
	})
	s.Require().NoError(err)

	for _, id := range []string{"p1", "p2"} {
		_, err = s.service.VotePoll(context.Background(), &VotePollInput{
			ChatID:   testChatID,
			PlayerID: id,
			Kind:     models.PollKindEnd,
		})
		s.Require().NoError(err)
	}

	// The game is gone and nobody got a win
	_, err = s.games.GetGame(context.Background(), &gameRepo.GetGameInput{ChatID: testChatID})
	s.Equal(gameRepo.ErrGameNotFound, err)

	counters, err := s.stats.GetStats(context.Background(), &statsRepo.GetStatsInput{
		ChatID:   testChatID,
		PlayerID: "p0",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), counters["games.total"])
	s.Equal(int64(0), counters["games.win"])
}

func (s *ServiceTestSuite) TestPollRequiresLivingPlayer() {
	players := classicFive()
	players[3].Alive = false
	s.seedGame(&models.Game{Stage: StageDiscussion, Players: players})

	_, err := s.service.StartPoll(context.Background(), &StartPollInput{
		ChatID:   testChatID,
		PlayerID: "p3",
		Kind:     models.PollKindSkip,
	})
	s.Equal(ErrDead, err)

	_, err = s.service.StartPoll(context.Background(), &StartPollInput{
		ChatID:   testChatID,
		PlayerID: "stranger",
		Kind:     models.PollKindSkip,
	})
	s.Equal(ErrNotInGame, err)
}

func (s *ServiceTestSuite) TestPollsDiscardedOnAdvance() {
	game := s.seedGame(&models.Game{Stage: StageDiscussion, Players: classicFive()})

	_, err := s.service.StartPoll(context.Background(), &StartPollInput{
		ChatID:     testChatID,
		PlayerID:   "p0",
		PlayerName: "Alice",
		Kind:       models.PollKindSkip,
	})
	s.Require().NoError(err)

	_, err = s.service.advance(context.Background(), game, 1)
	s.Require().NoError(err)

	// The open poll did not survive the transition
	_, err = s.service.VotePoll(context.Background(), &VotePollInput{
		ChatID:   testChatID,
		PlayerID: "p1",
		Kind:     models.PollKindSkip,
	})
	s.Equal(ErrPollNotFound, err)
}

// --- team reveal and stats ---

func (s *ServiceTestSuite) TestRevealTeam() {
	players := classicFive()
	players = append(players, &models.Player{ID: "p5", Name: "Frank", Role: models.RoleDon, Alive: true})
	s.seedGame(&models.Game{Stage: StageDiscussion, Players: players})

	_, err := s.service.RevealTeam(context.Background(), &RevealTeamInput{
		ChatID:   testChatID,
		PlayerID: "p0",
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(s.privateTexts)
	s.Contains(s.privateTexts[0], "Frank")

	// Town players get nothing
	_, err = s.service.RevealTeam(context.Background(), &RevealTeamInput{
		ChatID:   testChatID,
		PlayerID: "p1",
	})
	s.Equal(ErrWrongRole, err)
}

// --- scheduler ---

func (s *ServiceTestSuite) TestTickAdvancesExpiredLobby() {
	players := classicFive()
	for _, p := range players {
		p.Role = ""
	}
	s.seedGame(&models.Game{
		Stage:    StageLobby,
		Players:  players,
		Cards:    []models.RoleKind{models.RoleMafia, models.RoleSheriff, models.RoleDoctor, models.RolePeace, models.RolePeace},
		Deadline: s.testNow.Add(-time.Second),
	})

	err := s.service.Tick(context.Background())
	s.Require().NoError(err)

	// The lobby timed out: unclaimed cards were dealt and play began
	stored := s.storedGame()
	s.Equal(StageDiscussion, stored.Stage)
	for _, p := range stored.Players {
		s.NotEmpty(p.Role)
	}
}

func (s *ServiceTestSuite) TestTickLeavesFreshGamesAlone() {
	s.seedGame(&models.Game{
		Stage:    StageDiscussion,
		Players:  classicFive(),
		Deadline: s.testNow.Add(time.Minute),
	})

	err := s.service.Tick(context.Background())
	s.Require().NoError(err)

	s.Equal(StageDiscussion, s.storedGame().Stage)
}

func (s *ServiceTestSuite) TestSweepRequests() {
	_, err := s.service.CreateRequest(context.Background(), &CreateRequestInput{
		ChatID:     testChatID,
		PlayerID:   "owner",
		PlayerName: "Alice",
	})
	s.Require().NoError(err)

	// Not expired yet
	err = s.service.SweepRequests(context.Background())
	s.Require().NoError(err)
	_, err = s.requests.GetRequest(context.Background(), &requestRepo.GetRequestInput{ChatID: testChatID})
	s.Require().NoError(err)

	// Rewrite the expiry into the past through a join
	_, err = s.requests.JoinRequest(context.Background(), &requestRepo.JoinRequestInput{
		ChatID:    testChatID,
		Player:    &models.Player{ID: "p2", Name: "Bob"},
		Capacity:  10,
		ExpiresAt: s.testNow.Add(-time.Minute),
	})
	s.Require().NoError(err)

	err = s.service.SweepRequests(context.Background())
	s.Require().NoError(err)

	_, err = s.requests.GetRequest(context.Background(), &requestRepo.GetRequestInput{ChatID: testChatID})
	s.Equal(requestRepo.ErrRequestNotFound, err)
}
