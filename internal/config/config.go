package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every scalar setting the bot consumes. All values can be
// supplied through environment variables (MAFIA_ prefix) or an optional
// config file in the working directory.
type Config struct {
	// DiscordToken is the bot token
	DiscordToken string `mapstructure:"discord_token"`

	// ApplicationID is the Discord application ID for command registration
	ApplicationID string `mapstructure:"application_id"`

	// GuildID optionally scopes command registration to one guild
	GuildID string `mapstructure:"guild_id"`

	// RedisAddr is the address of the Redis store
	RedisAddr string `mapstructure:"redis_addr"`

	// RedisPassword is the optional Redis password
	RedisPassword string `mapstructure:"redis_password"`

	// LogLevel is the zap log level (debug/info/warn/error)
	LogLevel string `mapstructure:"log_level"`

	// MinPlayers is the minimum number of joined players to start a game
	MinPlayers int `mapstructure:"min_players"`

	// MaxPlayers is the join-request capacity bound
	MaxPlayers int `mapstructure:"max_players"`

	// NightActionSeconds is the duration of each night role stage
	NightActionSeconds int `mapstructure:"night_action_seconds"`

	// DaySeconds is the duration of the first day's discussion stage
	DaySeconds int `mapstructure:"day_seconds"`

	// VoteSeconds is the duration of the voting stage
	VoteSeconds int `mapstructure:"vote_seconds"`

	// RequestTTLMinutes is how long a join request lives before the
	// sweeper deletes it
	RequestTTLMinutes int `mapstructure:"request_ttl_minutes"`

	// WordsPath optionally points at a word list file for the mini-games,
	// one word per line
	WordsPath string `mapstructure:"words_path"`
}

// RequestTTL returns the join-request expiry window
func (c *Config) RequestTTL() time.Duration {
	return time.Duration(c.RequestTTLMinutes) * time.Minute
}

// Load reads the configuration from the environment and, when present,
// a config.yaml in the working directory
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("log_level", "info")
	v.SetDefault("min_players", 6)
	v.SetDefault("max_players", 10)
	v.SetDefault("night_action_seconds", 30)
	v.SetDefault("day_seconds", 180)
	v.SetDefault("vote_seconds", 60)
	v.SetDefault("request_ttl_minutes", 10)

	v.SetEnvPrefix("mafia")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
