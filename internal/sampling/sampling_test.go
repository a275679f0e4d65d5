package sampling

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, ok := Uniform(nil, rng)
	require.False(t, ok)

	counts := make(map[int]int)
	choices := []int{2, 5, 7}
	for i := 0; i < 3000; i++ {
		c, ok := Uniform(choices, rng)
		require.True(t, ok)
		counts[c]++
	}

	require.Len(t, counts, len(choices))
	for _, c := range choices {
		require.InDelta(t, 1000, counts[c], 150, "choice %d", c)
	}
}
