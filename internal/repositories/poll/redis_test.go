package poll

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/winterden/mafiabot/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) createTestPoll(kind models.PollKind) *models.Poll {
	poll := &models.Poll{
		ID:        "test-poll-id",
		ChatID:    "test-chat-id",
		Kind:      kind,
		VoterIDs:  []string{"starter-id"},
		Required:  3,
		CreatedAt: time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC),
	}

	err := s.repo.CreatePoll(context.Background(), &CreatePollInput{Poll: poll})
	s.Require().NoError(err)
	return poll
}

func (s *RedisRepositoryTestSuite) TestCreateAndGetPoll() {
	poll := s.createTestPoll(models.PollKindSkip)

	retrieved, err := s.repo.GetPoll(context.Background(), &GetPollInput{
		ChatID: poll.ChatID,
		Kind:   models.PollKindSkip,
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-poll-id", retrieved.ID)
	s.Equal(models.PollKindSkip, retrieved.Kind)
	s.Equal(3, retrieved.Required)
	s.Equal([]string{"starter-id"}, retrieved.VoterIDs)
}

func (s *RedisRepositoryTestSuite) TestCreatePollAlreadyExists() {
	poll := s.createTestPoll(models.PollKindSkip)

	err := s.repo.CreatePoll(context.Background(), &CreatePollInput{Poll: poll})
	s.Require().Error(err)
	s.Equal(ErrPollExists, err)
}

func (s *RedisRepositoryTestSuite) TestPollKindsAreIndependent() {
	s.createTestPoll(models.PollKindSkip)

	// An end poll can open alongside the skip poll
	endPoll := &models.Poll{
		ID:       "end-poll-id",
		ChatID:   "test-chat-id",
		Kind:     models.PollKindEnd,
		Required: 3,
	}
	err := s.repo.CreatePoll(context.Background(), &CreatePollInput{Poll: endPoll})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestAddVote() {
	poll := s.createTestPoll(models.PollKindSkip)

	updated, err := s.repo.AddVote(context.Background(), &AddVoteInput{
		ChatID:   poll.ChatID,
		Kind:     models.PollKindSkip,
		PlayerID: "voter-2",
	})
	s.Require().NoError(err)
	s.Equal([]string{"starter-id", "voter-2"}, updated.VoterIDs)
}

func (s *RedisRepositoryTestSuite) TestAddVoteTwice() {
	poll := s.createTestPoll(models.PollKindSkip)

	_, err := s.repo.AddVote(context.Background(), &AddVoteInput{
		ChatID:   poll.ChatID,
		Kind:     models.PollKindSkip,
		PlayerID: "starter-id",
	})
	s.Require().Error(err)
	s.Equal(ErrAlreadyVoted, err)
}

func (s *RedisRepositoryTestSuite) TestAddVoteNoPoll() {
	_, err := s.repo.AddVote(context.Background(), &AddVoteInput{
		ChatID:   "no-such-chat",
		Kind:     models.PollKindSkip,
		PlayerID: "voter-1",
	})
	s.Require().Error(err)
	s.Equal(ErrPollNotFound, err)
}

func (s *RedisRepositoryTestSuite) TestDeleteByChat() {
	s.createTestPoll(models.PollKindSkip)
	s.createTestPoll(models.PollKindEnd)

	err := s.repo.DeleteByChat(context.Background(), &DeleteByChatInput{
		ChatID: "test-chat-id",
	})
	s.Require().NoError(err)

	// Both kinds are gone
	_, err = s.repo.GetPoll(context.Background(), &GetPollInput{
		ChatID: "test-chat-id",
		Kind:   models.PollKindSkip,
	})
	s.Equal(ErrPollNotFound, err)
	_, err = s.repo.GetPoll(context.Background(), &GetPollInput{
		ChatID: "test-chat-id",
		Kind:   models.PollKindEnd,
	})
	s.Equal(ErrPollNotFound, err)
}
