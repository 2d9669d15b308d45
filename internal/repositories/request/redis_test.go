package request

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
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
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

	// Set up test time
	s.testNow = time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) createTestRequest() *models.JoinRequest {
	owner := &models.Player{ID: "owner-id", Name: "Alice"}
	request := &models.JoinRequest{
		ID:        "test-request-id",
		ChatID:    "test-chat-id",
		Owner:     owner,
		Players:   []*models.Player{owner},
		ExpiresAt: s.testNow.Add(10 * time.Minute),
		CreatedAt: s.testNow,
	}

	err := s.repo.CreateRequest(context.Background(), &CreateRequestInput{Request: request})
	s.Require().NoError(err)
	return request
}

func (s *RedisRepositoryTestSuite) TestCreateAndGetRequest() {
	request := s.createTestRequest()

	retrieved, err := s.repo.GetRequest(context.Background(), &GetRequestInput{
		ChatID: request.ChatID,
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-request-id", retrieved.ID)
	s.Equal("owner-id", retrieved.Owner.ID)
	s.Len(retrieved.Players, 1)
}

func (s *RedisRepositoryTestSuite) TestCreateRequestAlreadyExists() {
	request := s.createTestRequest()

	err := s.repo.CreateRequest(context.Background(), &CreateRequestInput{Request: request})
	s.Require().Error(err)
	s.Equal(ErrRequestExists, err)
}

func (s *RedisRepositoryTestSuite) TestJoinRequest() {
	request := s.createTestRequest()

	updated, err := s.repo.JoinRequest(context.Background(), &JoinRequestInput{
		ChatID:    request.ChatID,
		Player:    &models.Player{ID: "player-2", Name: "Bob"},
		Capacity:  10,
		ExpiresAt: s.testNow.Add(20 * time.Minute),
	})
	s.Require().NoError(err)
	s.Len(updated.Players, 2)
	s.Equal("player-2", updated.Players[1].ID)

	// Joining refreshed the expiry
	s.Equal(s.testNow.Add(20*time.Minute).Unix(), updated.ExpiresAt.Unix())
}

func (s *RedisRepositoryTestSuite) TestJoinRequestTwice() {
	request := s.createTestRequest()

	_, err := s.repo.JoinRequest(context.Background(), &JoinRequestInput{
		ChatID:    request.ChatID,
		Player:    &models.Player{ID: "owner-id", Name: "Alice"},
		Capacity:  10,
		ExpiresAt: s.testNow.Add(20 * time.Minute),
	})
	s.Require().Error(err)
	s.Equal(ErrAlreadyJoined, err)
}

func (s *RedisRepositoryTestSuite) TestJoinRequestFull() {
	request := s.createTestRequest()

	// Capacity of one is already filled by the owner
	_, err := s.repo.JoinRequest(context.Background(), &JoinRequestInput{
		ChatID:    request.ChatID,
		Player:    &models.Player{ID: "player-2", Name: "Bob"},
		Capacity:  1,
		ExpiresAt: s.testNow.Add(20 * time.Minute),
	})
	s.Require().Error(err)
	s.Equal(ErrRequestFull, err)
}

func (s *RedisRepositoryTestSuite) TestLeaveRequest() {
	request := s.createTestRequest()

	updated, err := s.repo.LeaveRequest(context.Background(), &LeaveRequestInput{
		ChatID:   request.ChatID,
		PlayerID: "owner-id",
	})
	s.Require().NoError(err)
	s.Len(updated.Players, 0)

	// Leaving again fails
	_, err = s.repo.LeaveRequest(context.Background(), &LeaveRequestInput{
		ChatID:   request.ChatID,
		PlayerID: "owner-id",
	})
	s.Require().Error(err)
	s.Equal(ErrNotJoined, err)
}

func (s *RedisRepositoryTestSuite) TestDeleteRequest() {
	request := s.createTestRequest()

	deleted, err := s.repo.DeleteRequest(context.Background(), &DeleteRequestInput{
		ChatID: request.ChatID,
	})
	s.Require().NoError(err)
	s.True(deleted)

	// A second delete reports nothing removed; this is the start lock
	deleted, err = s.repo.DeleteRequest(context.Background(), &DeleteRequestInput{
		ChatID: request.ChatID,
	})
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *RedisRepositoryTestSuite) TestListExpired() {
	request := s.createTestRequest()

	expired, err := s.repo.ListExpired(context.Background(), &ListExpiredInput{
		Now: s.testNow,
	})
	s.Require().NoError(err)
	s.Len(expired, 0)

	expired, err = s.repo.ListExpired(context.Background(), &ListExpiredInput{
		Now: s.testNow.Add(time.Hour),
	})
	s.Require().NoError(err)
	s.Require().Len(expired, 1)
	s.Equal(request.ChatID, expired[0].ChatID)
}

func (s *RedisRepositoryTestSuite) TestSetMessageID() {
	request := s.createTestRequest()

	err := s.repo.SetMessageID(context.Background(), &SetMessageIDInput{
		ChatID:    request.ChatID,
		MessageID: "lobby-message",
	})
	s.Require().NoError(err)

	stored, err := s.repo.GetRequest(context.Background(), &GetRequestInput{ChatID: request.ChatID})
	s.Require().NoError(err)
	s.Equal("lobby-message", stored.MessageID)
}
