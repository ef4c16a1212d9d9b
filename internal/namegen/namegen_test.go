package namegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordListsLoaded(t *testing.T) {
	require.NotEmpty(t, adjectives)
	require.NotEmpty(t, animals)

	for _, w := range append(append([]string{}, adjectives...), animals...) {
		assert.NotEmpty(t, w)
		assert.Equal(t, strings.ToLower(w), w, "word lists must be lowercase: %q", w)
		assert.NotContains(t, w, " ")
	}
}

func TestGenerateShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := Generate()
		require.NotEmpty(t, id)
		assert.Equal(t, strings.ToLower(id), id)

		// Ends in exactly one animal from the list.
		var animal string
		for _, a := range animals {
			if strings.HasSuffix(id, a) && len(a) > len(animal) {
				animal = a
			}
		}
		require.NotEmpty(t, animal, "identifier %q does not end in a known animal", id)
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[Generate()] = true
	}
	// Collisions are possible but 50 draws from this space should not
	// all land on a handful of values.
	assert.Greater(t, len(seen), 10)
}

func TestMustWordsPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { mustWords("\n\n  \n") })
}
