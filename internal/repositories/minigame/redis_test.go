package minigame

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

func (s *RedisRepositoryTestSuite) createCrocoRound() *models.CrocoRound {
	round := &models.CrocoRound{
		ID:        "croco-round-id",
		ChatID:    "test-chat-id",
		HostID:    "host-id",
		HostName:  "Alice",
		Word:      "snowflake",
		CreatedAt: time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC),
	}

	err := s.repo.CreateCroco(context.Background(), &CreateCrocoInput{Round: round})
	s.Require().NoError(err)
	return round
}

func (s *RedisRepositoryTestSuite) createGallowsRound() *models.GallowsRound {
	round := &models.GallowsRound{
		ID:        "gallows-round-id",
		ChatID:    "test-chat-id",
		Word:      "sled",
		Right:     map[string]string{},
		Wrong:     map[string]string{},
		Names:     map[string]string{},
		CreatedAt: time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC),
	}

	err := s.repo.CreateGallows(context.Background(), &CreateGallowsInput{Round: round})
	s.Require().NoError(err)
	return round
}

func (s *RedisRepositoryTestSuite) TestCreateAndGetCroco() {
	s.createCrocoRound()

	retrieved, err := s.repo.GetCroco(context.Background(), &GetCrocoInput{
		ChatID: "test-chat-id",
	})
	s.Require().NoError(err)
	s.Equal("snowflake", retrieved.Word)
	s.Equal("host-id", retrieved.HostID)
}

func (s *RedisRepositoryTestSuite) TestCreateCrocoAlreadyExists() {
	round := s.createCrocoRound()

	err := s.repo.CreateCroco(context.Background(), &CreateCrocoInput{Round: round})
	s.Require().Error(err)
	s.Equal(ErrRoundExists, err)
}

func (s *RedisRepositoryTestSuite) TestDeleteCrocoAsFinishLock() {
	s.createCrocoRound()

	// The first delete wins the round
	deleted, err := s.repo.DeleteCroco(context.Background(), &DeleteCrocoInput{
		ChatID: "test-chat-id",
	})
	s.Require().NoError(err)
	s.True(deleted)

	// A racing second delete reports nothing removed
	deleted, err = s.repo.DeleteCroco(context.Background(), &DeleteCrocoInput{
		ChatID: "test-chat-id",
	})
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *RedisRepositoryTestSuite) TestGetCrocoNotFound() {
	_, err := s.repo.GetCroco(context.Background(), &GetCrocoInput{
		ChatID: "no-such-chat",
	})
	s.Require().Error(err)
	s.Equal(ErrRoundNotFound, err)
}

func (s *RedisRepositoryTestSuite) TestRoundsAreIndependent() {
	// A croco round and a gallows round can run in the same chat
	s.createCrocoRound()
	s.createGallowsRound()

	_, err := s.repo.GetCroco(context.Background(), &GetCrocoInput{ChatID: "test-chat-id"})
	s.Require().NoError(err)
	_, err = s.repo.GetGallows(context.Background(), &GetGallowsInput{ChatID: "test-chat-id"})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestSubmitLetter() {
	s.createGallowsRound()

	updated, err := s.repo.SubmitLetter(context.Background(), &SubmitLetterInput{
		ChatID:     "test-chat-id",
		Letter:     "s",
		Correct:    true,
		PlayerID:   "player-1",
		PlayerName: "Bob",
	})
	s.Require().NoError(err)
	s.Equal("player-1", updated.Right["s"])
	s.Equal("Bob", updated.Names["player-1"])
	s.Empty(updated.Wrong)
}

func (s *RedisRepositoryTestSuite) TestSubmitLetterWrong() {
	s.createGallowsRound()

	updated, err := s.repo.SubmitLetter(context.Background(), &SubmitLetterInput{
		ChatID:     "test-chat-id",
		Letter:     "z",
		Correct:    false,
		PlayerID:   "player-1",
		PlayerName: "Bob",
	})
	s.Require().NoError(err)
	s.Equal("player-1", updated.Wrong["z"])
	s.Empty(updated.Right)
}

func (s *RedisRepositoryTestSuite) TestSubmitLetterTaken() {
	s.createGallowsRound()

	_, err := s.repo.SubmitLetter(context.Background(), &SubmitLetterInput{
		ChatID:     "test-chat-id",
		Letter:     "s",
		Correct:    true,
		PlayerID:   "player-1",
		PlayerName: "Bob",
	})
	s.Require().NoError(err)

	// The same letter is rejected regardless of who tries it
	_, err = s.repo.SubmitLetter(context.Background(), &SubmitLetterInput{
		ChatID:     "test-chat-id",
		Letter:     "s",
		Correct:    true,
		PlayerID:   "player-2",
		PlayerName: "Carol",
	})
	s.Require().Error(err)
	s.Equal(ErrLetterTaken, err)
}

func (s *RedisRepositoryTestSuite) TestSetGallowsMessageID() {
	s.createGallowsRound()

	err := s.repo.SetGallowsMessageID(context.Background(), &SetGallowsMessageIDInput{
		ChatID:    "test-chat-id",
		MessageID: "board-message",
	})
	s.Require().NoError(err)

	stored, err := s.repo.GetGallows(context.Background(), &GetGallowsInput{ChatID: "test-chat-id"})
	s.Require().NoError(err)
	s.Equal("board-message", stored.MessageID)
}

func (s *RedisRepositoryTestSuite) TestGallowsRevealed() {
	s.createGallowsRound()

	// Guess every letter of "sled"
	for _, letter := range []string{"s", "l", "e", "d"} {
		_, err := s.repo.SubmitLetter(context.Background(), &SubmitLetterInput{
			ChatID:     "test-chat-id",
			Letter:     letter,
			Correct:    true,
			PlayerID:   "player-1",
			PlayerName: "Bob",
		})
		s.Require().NoError(err)
	}

	stored, err := s.repo.GetGallows(context.Background(), &GetGallowsInput{ChatID: "test-chat-id"})
	s.Require().NoError(err)
	s.True(stored.Revealed())
}
