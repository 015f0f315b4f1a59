package tables

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/cricbot/cricbot-go/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTermTableLookup(t *testing.T) {
	path := writeTempJSON(t, "terms.json", `[
		{"term": "Gully", "definition": "A close fielding position."},
		{"term": "Silly point", "definition": "A very close fielding position."}
	]`)

	table, err := LoadTermTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	definition, err := table.Lookup("Gully")
	require.NoError(t, err)
	assert.Equal(t, "A close fielding position.", definition)

	definition, err = table.Lookup("Silly point")
	require.NoError(t, err)
	assert.Equal(t, "A very close fielding position.", definition)
}

func TestTermTableLookupMiss(t *testing.T) {
	path := writeTempJSON(t, "terms.json", `[{"term": "Gully", "definition": "x"}]`)

	table, err := LoadTermTable(path)
	require.NoError(t, err)

	// Lookup is exact; lowercase key must not match.
	_, err = table.Lookup("gully")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = table.Lookup("Flamingo shot")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoadTermTableErrors(t *testing.T) {
	_, err := LoadTermTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeTempJSON(t, "terms.json", `{"not": "a list"}`)
	_, err = LoadTermTable(path)
	assert.Error(t, err)
}

func TestLoadJokeTableRequiresPlaceholderAndJoke(t *testing.T) {
	path := writeTempJSON(t, "jokes.json", `[{"question": "placeholder", "answer": "placeholder"}]`)
	_, err := LoadJokeTable(path)
	assert.Error(t, err)
}

func TestJokeTablePickSkipsPlaceholder(t *testing.T) {
	path := writeTempJSON(t, "jokes.json", `[
		{"question": "placeholder", "answer": "placeholder"},
		{"question": "q1", "answer": "a1"},
		{"question": "q2", "answer": "a2"},
		{"question": "q3", "answer": "a3"}
	]`)

	table, err := LoadJokeTable(path)
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())

	seen := make(map[int]int)
	for range 4000 {
		idx := table.pickIndex()
		require.GreaterOrEqual(t, idx, 1)
		require.Less(t, idx, table.Len())
		seen[idx]++
	}

	// Every real entry should come up; with 4000 draws over 3 entries a
	// missing bucket means the selection is broken, not unlucky.
	for i := 1; i < table.Len(); i++ {
		assert.Greater(t, seen[i], 0, "entry %d never selected", i)
	}
	assert.Zero(t, seen[0])
}

func TestJokeTablePickReturnsRealJoke(t *testing.T) {
	path := writeTempJSON(t, "jokes.json", `[
		{"question": "placeholder", "answer": "placeholder"},
		{"question": "only one", "answer": "only answer"}
	]`)

	table, err := LoadJokeTable(path)
	require.NoError(t, err)

	for range 10 {
		joke := table.Pick()
		assert.Equal(t, "only one", joke.Question)
		assert.Equal(t, "only answer", joke.Answer)
	}
}

func TestShippedDataFilesLoad(t *testing.T) {
	terms, err := LoadTermTable(filepath.Join("..", "..", "data", "terms.json"))
	require.NoError(t, err)
	assert.Greater(t, terms.Len(), 0)

	_, err = terms.Lookup("Gully")
	assert.NoError(t, err)

	jokes, err := LoadJokeTable(filepath.Join("..", "..", "data", "jokes.json"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, jokes.Len(), 2)
}
