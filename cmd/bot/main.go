package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/common/clock"
	"github.com/winterden/mafiabot/internal/common/random"
	"github.com/winterden/mafiabot/internal/common/uuid"
	"github.com/winterden/mafiabot/internal/config"
	"github.com/winterden/mafiabot/internal/handlers/discord"
	"github.com/winterden/mafiabot/internal/logger"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	minigameRepo "github.com/winterden/mafiabot/internal/repositories/minigame"
	pollRepo "github.com/winterden/mafiabot/internal/repositories/poll"
	requestRepo "github.com/winterden/mafiabot/internal/repositories/request"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
	"github.com/winterden/mafiabot/internal/services/croco"
	"github.com/winterden/mafiabot/internal/services/gallows"
	"github.com/winterden/mafiabot/internal/services/game"
	"github.com/winterden/mafiabot/internal/services/messaging"
	"github.com/winterden/mafiabot/internal/words"
)

func main() {
	// Optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.LogLevel)
	defer func() { _ = zap.S().Sync() }()

	if cfg.DiscordToken == "" {
		zap.S().Fatal("MAFIA_DISCORD_TOKEN is not set")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zap.S().Fatalw("failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
	}

	games, err := gameRepo.NewRedis(&gameRepo.Config{RedisClient: redisClient})
	if err != nil {
		zap.S().Fatalw("failed to create game repository", "error", err)
	}
	requests, err := requestRepo.NewRedis(&requestRepo.Config{RedisClient: redisClient})
	if err != nil {
		zap.S().Fatalw("failed to create request repository", "error", err)
	}
	polls, err := pollRepo.NewRedis(&pollRepo.Config{RedisClient: redisClient})
	if err != nil {
		zap.S().Fatalw("failed to create poll repository", "error", err)
	}
	minigames, err := minigameRepo.NewRedis(&minigameRepo.Config{RedisClient: redisClient})
	if err != nil {
		zap.S().Fatalw("failed to create minigame repository", "error", err)
	}
	stats, err := statsRepo.NewRedis(&statsRepo.Config{RedisClient: redisClient})
	if err != nil {
		zap.S().Fatalw("failed to create stats repository", "error", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		zap.S().Fatalw("failed to create Discord session", "error", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	notifier, err := messaging.New(&messaging.Config{Session: session})
	if err != nil {
		zap.S().Fatalw("failed to create notifier", "error", err)
	}

	wordSource, err := words.New(&words.Config{
		Path:   cfg.WordsPath,
		Random: random.New(nil),
	})
	if err != nil {
		zap.S().Fatalw("failed to create word source", "error", err)
	}

	sysClock := &clock.DefaultClock{}
	ids := uuid.New()

	gameService, err := game.NewService(&game.Config{
		GameRepo:            games,
		RequestRepo:         requests,
		PollRepo:            polls,
		StatsRepo:           stats,
		Notifier:            notifier,
		Clock:               sysClock,
		UUID:                ids,
		Random:              random.New(nil),
		MinPlayers:          cfg.MinPlayers,
		MaxPlayers:          cfg.MaxPlayers,
		NightActionDuration: time.Duration(cfg.NightActionSeconds) * time.Second,
		DayDuration:         time.Duration(cfg.DaySeconds) * time.Second,
		VoteDuration:        time.Duration(cfg.VoteSeconds) * time.Second,
		RequestTTL:          cfg.RequestTTL(),
	})
	if err != nil {
		zap.S().Fatalw("failed to create game service", "error", err)
	}

	crocoService, err := croco.NewService(&croco.Config{
		MinigameRepo: minigames,
		StatsRepo:    stats,
		Notifier:     notifier,
		Words:        wordSource,
		Clock:        sysClock,
		UUID:         ids,
	})
	if err != nil {
		zap.S().Fatalw("failed to create croco service", "error", err)
	}

	gallowsService, err := gallows.NewService(&gallows.Config{
		MinigameRepo: minigames,
		StatsRepo:    stats,
		Notifier:     notifier,
		Words:        wordSource,
		Clock:        sysClock,
		UUID:         ids,
	})
	if err != nil {
		zap.S().Fatalw("failed to create gallows service", "error", err)
	}

	bot, err := discord.New(&discord.Config{
		Session:        session,
		ApplicationID:  cfg.ApplicationID,
		GuildID:        cfg.GuildID,
		GameService:    gameService,
		CrocoService:   crocoService,
		GallowsService: gallowsService,
	})
	if err != nil {
		zap.S().Fatalw("failed to create bot", "error", err)
	}

	if err := bot.Start(); err != nil {
		zap.S().Fatalw("failed to start bot", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go gameService.Run(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zap.S().Info("shutting down")
	cancel()
	if err := bot.Stop(); err != nil {
		zap.S().Errorw("failed to stop bot", "error", err)
	}
	if err := redisClient.Close(); err != nil {
		zap.S().Errorw("failed to close Redis client", "error", err)
	}
}
