package stats

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
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

func (s *RedisRepositoryTestSuite) TestIncrementAndGetStats() {
	err := s.repo.IncrementStats(context.Background(), &IncrementStatsInput{
		ChatID:   "test-chat-id",
		PlayerID: "player-1",
		Name:     "Alice",
		Increments: map[string]int64{
			"games.total": 1,
			"games.win":   1,
		},
	})
	s.Require().NoError(err)

	counters, err := s.repo.GetStats(context.Background(), &GetStatsInput{
		ChatID:   "test-chat-id",
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), counters["games.total"])
	s.Equal(int64(1), counters["games.win"])

	// The stored name is not exposed as a counter
	_, ok := counters["name"]
	s.False(ok)
}

func (s *RedisRepositoryTestSuite) TestIncrementAccumulates() {
	for i := 0; i < 3; i++ {
		err := s.repo.IncrementStats(context.Background(), &IncrementStatsInput{
			ChatID:   "test-chat-id",
			PlayerID: "player-1",
			Increments: map[string]int64{
				"games.total": 1,
			},
		})
		s.Require().NoError(err)
	}

	counters, err := s.repo.GetStats(context.Background(), &GetStatsInput{
		ChatID:   "test-chat-id",
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Equal(int64(3), counters["games.total"])
}

func (s *RedisRepositoryTestSuite) TestStatsAreScopedPerChat() {
	err := s.repo.IncrementStats(context.Background(), &IncrementStatsInput{
		ChatID:     "chat-a",
		PlayerID:   "player-1",
		Increments: map[string]int64{"games.total": 1},
	})
	s.Require().NoError(err)

	// Same player in a different chat has a clean slate
	counters, err := s.repo.GetStats(context.Background(), &GetStatsInput{
		ChatID:   "chat-b",
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Len(counters, 0)
}

func (s *RedisRepositoryTestSuite) TestGetStatsEmpty() {
	counters, err := s.repo.GetStats(context.Background(), &GetStatsInput{
		ChatID:   "test-chat-id",
		PlayerID: "nobody",
	})
	s.Require().NoError(err)
	s.Len(counters, 0)
}
