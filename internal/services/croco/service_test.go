package croco

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/winterden/mafiabot/internal/common/clock/mocks"
	"github.com/winterden/mafiabot/internal/common/uuid"
	minigameRepo "github.com/winterden/mafiabot/internal/repositories/minigame"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
	"github.com/winterden/mafiabot/internal/services/messaging"
	messagingMocks "github.com/winterden/mafiabot/internal/services/messaging/mocks"
	wordsMocks "github.com/winterden/mafiabot/internal/words/mocks"
)

const testChatID = "test-chat-id"

type ServiceTestSuite struct {
	suite.Suite
	mr        *miniredis.Miniredis
	client    *redis.Client
	ctrl      *gomock.Controller
	notifier  *messagingMocks.MockNotifier
	words     *wordsMocks.MockSource
	minigames minigameRepo.Repository
	stats     statsRepo.Repository
	service   *service

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

	minigames, err := minigameRepo.NewRedis(&minigameRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.minigames = minigames
	stats, err := statsRepo.NewRedis(&statsRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.stats = stats

	s.ctrl = gomock.NewController(s.T())

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

	s.words = wordsMocks.NewMockSource(s.ctrl)
	s.words.EXPECT().RandomWord().Return("snowflake").AnyTimes()

	mockClock := clockMocks.NewMockClock(s.ctrl)
	mockClock.EXPECT().Now().Return(time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)).AnyTimes()

	svc, err := NewService(&Config{
		MinigameRepo: s.minigames,
		StatsRepo:    s.stats,
		Notifier:     s.notifier,
		Words:        s.words,
		Clock:        mockClock,
		UUID:         uuid.New(),
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

func (s *ServiceTestSuite) startRound() {
	_, err := s.service.StartRound(context.Background(), &StartRoundInput{
		ChatID:     testChatID,
		PlayerID:   "host-id",
		PlayerName: "Alice",
	})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) playerStats(playerID string) map[string]int64 {
	counters, err := s.stats.GetStats(context.Background(), &statsRepo.GetStatsInput{
		ChatID:   testChatID,
		PlayerID: playerID,
	})
	s.Require().NoError(err)
	return counters
}

func (s *ServiceTestSuite) TestStartRound() {
	out, err := s.service.StartRound(context.Background(), &StartRoundInput{
		ChatID:     testChatID,
		PlayerID:   "host-id",
		PlayerName: "Alice",
	})
	s.Require().NoError(err)
	s.Equal("snowflake", out.Round.Word)
	s.Equal("host-id", out.Round.HostID)

	// The word went to the host privately, not to the chat
	s.Require().NotEmpty(s.privateTexts)
	s.Contains(s.privateTexts[0], "snowflake")
	s.Require().NotEmpty(s.chatTexts)
	s.NotContains(s.chatTexts[0], "snowflake")
}

func (s *ServiceTestSuite) TestStartRoundAlreadyRunning() {
	s.startRound()

	_, err := s.service.StartRound(context.Background(), &StartRoundInput{
		ChatID:     testChatID,
		PlayerID:   "other-id",
		PlayerName: "Bob",
	})
	s.Require().Error(err)
	s.Equal(ErrRoundExists, err)
}

func (s *ServiceTestSuite) TestSuggestNoRound() {
	_, err := s.service.Suggest(context.Background(), &SuggestInput{
		ChatID:   testChatID,
		PlayerID: "player-1",
		Text:     "snowflake",
	})
	s.Require().Error(err)
	s.Equal(ErrRoundNotFound, err)
}

func (s *ServiceTestSuite) TestSuggestMiss() {
	s.startRound()

	out, err := s.service.Suggest(context.Background(), &SuggestInput{
		ChatID:     testChatID,
		PlayerID:   "player-1",
		PlayerName: "Bob",
		Text:       "is it a snowman?",
	})
	s.Require().NoError(err)
	s.False(out.Guessed)

	// The round is still running
	_, err = s.minigames.GetCroco(context.Background(), &minigameRepo.GetCrocoInput{ChatID: testChatID})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestSuggestSubstringDoesNotCount() {
	s.startRound()

	// The word must stand on its own, not hide inside another
	out, err := s.service.Suggest(context.Background(), &SuggestInput{
		ChatID:     testChatID,
		PlayerID:   "player-1",
		PlayerName: "Bob",
		Text:       "snowflakes everywhere",
	})
	s.Require().NoError(err)
	s.False(out.Guessed)
}

func (s *ServiceTestSuite) TestSuggestWin() {
	s.startRound()

	out, err := s.service.Suggest(context.Background(), &SuggestInput{
		ChatID:     testChatID,
		PlayerID:   "player-1",
		PlayerName: "Bob",
		Text:       "Is the word SNOWFLAKE, maybe?",
	})
	s.Require().NoError(err)
	s.True(out.Guessed)

	// The round is over
	_, err = s.minigames.GetCroco(context.Background(), &minigameRepo.GetCrocoInput{ChatID: testChatID})
	s.Equal(minigameRepo.ErrRoundNotFound, err)

	// Guesser and host both got credit
	s.Equal(int64(1), s.playerStats("player-1")["croco.guesses"])
	host := s.playerStats("host-id")
	s.Equal(int64(1), host["croco.total"])
	s.Equal(int64(1), host["croco.win"])
}

func (s *ServiceTestSuite) TestSuggestHostSlip() {
	s.startRound()

	out, err := s.service.Suggest(context.Background(), &SuggestInput{
		ChatID:     testChatID,
		PlayerID:   "host-id",
		PlayerName: "Alice",
		Text:       "oops, a snowflake",
	})
	s.Require().NoError(err)
	s.True(out.Guessed)

	// The slip ends the round and is recorded as a cheat, not a win
	host := s.playerStats("host-id")
	s.Equal(int64(1), host["croco.total"])
	s.Equal(int64(1), host["croco.cheat"])
	s.Equal(int64(0), host["croco.win"])
}

func (s *ServiceTestSuite) TestSuggestAfterFinish() {
	s.startRound()

	_, err := s.service.Suggest(context.Background(), &SuggestInput{
		ChatID:     testChatID,
		PlayerID:   "player-1",
		PlayerName: "Bob",
		Text:       "snowflake",
	})
	s.Require().NoError(err)

	// A second correct guess finds no round
	_, err = s.service.Suggest(context.Background(), &SuggestInput{
		ChatID:     testChatID,
		PlayerID:   "player-2",
		PlayerName: "Carol",
		Text:       "snowflake",
	})
	s.Equal(ErrRoundNotFound, err)
}

func TestContainsWord(t *testing.T) {
	cases := []struct {
		text string
		word string
		want bool
	}{
		{"snowflake", "snowflake", true},
		{"a SNOWFLAKE fell", "snowflake", true},
		{"snowflake!", "snowflake", true},
		{"snowflakes", "snowflake", false},
		{"snow flake", "snowflake", false},
		{"", "snowflake", false},
	}

	for _, c := range cases {
		if got := containsWord(c.text, c.word); got != c.want {
			t.Errorf("containsWord(%q, %q) = %v, want %v", c.text, c.word, got, c.want)
		}
	}
}
