package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winterden/mafiabot/internal/common/random"
)

func TestFallbackWords(t *testing.T) {
	source, err := New(&Config{
		Random: random.New(&random.Config{Seed: 1}),
	})
	require.NoError(t, err)

	word := source.RandomWord()
	assert.Contains(t, fallbackWords, word)
}

func TestLoadWordsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "Reindeer\n\n  sleigh  \nICICLE\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	source, err := New(&Config{
		Path:   path,
		Random: random.New(&random.Config{Seed: 1}),
	})
	require.NoError(t, err)

	// Words are lowercased and trimmed, blank lines are skipped
	assert.ElementsMatch(t, []string{"reindeer", "sleigh", "icicle"}, source.words)
}

func TestLoadWordsMissingFile(t *testing.T) {
	_, err := New(&Config{
		Path:   filepath.Join(t.TempDir(), "no-such-file.txt"),
		Random: random.New(&random.Config{Seed: 1}),
	})
	assert.Error(t, err)
}

func TestNewRequiresRandom(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)
}
