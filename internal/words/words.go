// Package words provides the random word source backing the guessing games.
package words

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/winterden/mafiabot/internal/common/random"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_source.go github.com/winterden/mafiabot/internal/words Source

// Source hands out random words
type Source interface {
	// RandomWord returns one word from the base
	RandomWord() string
}

// Config holds configuration for the file-backed word source
type Config struct {
	// Path is the word base file, one word per line. Empty falls back
	// to the built-in list.
	Path string

	// Random source
	Random *random.Source
}

type fileSource struct {
	words  []string
	random *random.Source
}

// fallbackWords keeps the games playable when no word base is configured
var fallbackWords = []string{
	"snowman", "reindeer", "chimney", "garland", "blizzard",
	"mittens", "sleigh", "icicle", "lantern", "ornament",
	"firework", "caramel", "workshop", "avalanche", "penguin",
}

// New creates a word source from the configured base file
func New(cfg *Config) (*fileSource, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Random == nil {
		return nil, errors.New("random source cannot be nil")
	}

	s := &fileSource{
		random: cfg.Random,
	}

	if cfg.Path != "" {
		words, err := loadWords(cfg.Path)
		if err != nil {
			return nil, err
		}
		s.words = words
	}

	if len(s.words) == 0 {
		s.words = fallbackWords
	}

	return s, nil
}

// RandomWord returns one word from the base
func (s *fileSource) RandomWord() string {
	return s.words[s.random.Intn(len(s.words))]
}

func loadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}
