// Package namegen produces the public identifiers objects are stored under.
//
// An identifier is two random adjectives followed by a random animal,
// e.g. "brisksilentotter". Uniqueness is probabilistic: identifiers are never
// checked against existing objects, so a colliding draw overwrites the prior
// object. The word lists are compiled into the binary and validated non-empty
// at init, so Generate itself cannot fail.
package namegen

import (
	_ "embed"
	"math/rand"
	"strings"
)

//go:embed words/adjectives.txt
var adjectivesRaw string

//go:embed words/animals.txt
var animalsRaw string

var (
	adjectives = mustWords(adjectivesRaw)
	animals    = mustWords(animalsRaw)
)

// Generate returns a fresh identifier. Safe for concurrent use: the word
// lists are read-only after init and math/rand needs no shared state.
func Generate() string {
	var b strings.Builder
	b.WriteString(adjectives[rand.Intn(len(adjectives))])
	b.WriteString(adjectives[rand.Intn(len(adjectives))])
	b.WriteString(animals[rand.Intn(len(animals))])
	return b.String()
}

// mustWords splits an embedded list into its non-blank lines and panics if
// none remain. An empty list is a build defect, not a runtime condition.
func mustWords(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	if len(words) == 0 {
		panic("namegen: embedded word list is empty")
	}
	return words
}
