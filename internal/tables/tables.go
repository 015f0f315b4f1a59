// Package tables loads the static term and joke tables from local JSON
// files at startup. Tables are immutable after load.
package tables

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"

	apperrors "github.com/cricbot/cricbot-go/internal/errors"
)

// TermEntry is one term/definition record.
type TermEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// TermTable resolves glossary terms by exact key match.
type TermTable struct {
	definitions map[string]string
}

// LoadTermTable reads the term table from a JSON file.
func LoadTermTable(path string) (*TermTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read term table: %w", err)
	}

	var entries []TermEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse term table %s: %w", path, err)
	}

	definitions := make(map[string]string, len(entries))
	for _, e := range entries {
		definitions[e.Term] = e.Definition
	}
	return &TermTable{definitions: definitions}, nil
}

// Lookup returns the definition for an exact term key.
// A miss returns ErrNotFound; callers degrade to a not-found reply.
func (t *TermTable) Lookup(term string) (string, error) {
	definition, ok := t.definitions[term]
	if !ok {
		return "", fmt.Errorf("term %q: %w", term, apperrors.ErrNotFound)
	}
	return definition, nil
}

// Len returns the number of terms in the table.
func (t *TermTable) Len() int {
	return len(t.definitions)
}

// Joke is one question/answer record.
type Joke struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// JokeTable holds the joke rotation. The first entry is a placeholder
// row and is never selected.
type JokeTable struct {
	jokes []Joke
}

// LoadJokeTable reads the joke table from a JSON file. The table must
// hold the placeholder row plus at least one joke.
func LoadJokeTable(path string) (*JokeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read joke table: %w", err)
	}

	var jokes []Joke
	if err := json.Unmarshal(data, &jokes); err != nil {
		return nil, fmt.Errorf("parse joke table %s: %w", path, err)
	}
	if len(jokes) < 2 {
		return nil, fmt.Errorf("joke table %s needs the placeholder row and at least one joke, got %d entries", path, len(jokes))
	}
	return &JokeTable{jokes: jokes}, nil
}

// Pick returns one pseudorandom joke, uniform over the rotation
// (entries 1..N; the placeholder at index 0 stays out).
func (t *JokeTable) Pick() Joke {
	return t.jokes[t.pickIndex()]
}

func (t *JokeTable) pickIndex() int {
	return rand.IntN(len(t.jokes)-1) + 1
}

// Len returns the number of entries including the placeholder row.
func (t *JokeTable) Len() int {
	return len(t.jokes)
}
