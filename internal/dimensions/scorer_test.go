package dimensions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocena/internal/rng"
)

// fixedSource always returns one end of the requested range.
type fixedSource struct{ high bool }

func (f fixedSource) Uniform(min, max int) int {
	if f.high {
		return max
	}
	return min
}
func (f fixedSource) Pick(items []string) string           { return items[0] }
func (f fixedSource) PickN(items []string, k int) []string { return items[:k] }

func inRange(t *testing.T, s Scores) {
	t.Helper()
	for name, v := range map[string]int{
		"content":      s.Content,
		"organization": s.Organization,
		"evidence":     s.Evidence,
		"innovation":   s.Innovation,
	} {
		require.GreaterOrEqual(t, v, 0, name)
		require.LessOrEqual(t, v, 100, name)
	}
}

func TestDefault(t *testing.T) {
	assert.Equal(t, Scores{75, 70, 65, 60}, Default())
	assert.Equal(t, Default(), Score(rng.NewSeeded(1), ModeDefault, 10, 0.3))
}

func TestRandomBounds(t *testing.T) {
	src := rng.NewSeeded(3)
	for range 500 {
		s := Random(src, 0)
		inRange(t, s)
		assert.GreaterOrEqual(t, s.Content, 50)
		assert.LessOrEqual(t, s.Content, 100)
		assert.GreaterOrEqual(t, s.Innovation, 35)
		assert.LessOrEqual(t, s.Evidence, 95)
	}
}

func TestRandomExtremes(t *testing.T) {
	low := Random(fixedSource{high: false}, 0.3)
	assert.Equal(t, Scores{Content: 20, Organization: 15, Evidence: 10, Innovation: 5}, low)

	high := Random(fixedSource{high: true}, 0)
	assert.Equal(t, Scores{Content: 100, Organization: 100, Evidence: 95, Innovation: 100}, high)
}

func TestAnchoredOffsets(t *testing.T) {
	low := Anchored(fixedSource{high: false}, 80, 0.05)
	assert.Equal(t, Scores{Content: 70, Organization: 65, Evidence: 60, Innovation: 55}, low)

	high := Anchored(fixedSource{high: true}, 80, 0)
	assert.Equal(t, Scores{Content: 90, Organization: 85, Evidence: 80, Innovation: 95}, high)
}

func TestClampOnExtremeInputs(t *testing.T) {
	src := rng.NewSeeded(11)
	for _, base := range []int{-500, 0, 5, 100, 1000} {
		for _, penalty := range []float64{0, 0.3, 5} {
			inRange(t, Anchored(src, base, penalty))
			inRange(t, Score(src, ModeRandom, base, penalty))
		}
	}
	assert.Equal(t, Scores{}, Anchored(fixedSource{}, -500, 0))
	assert.Equal(t, Scores{100, 100, 100, 100}, Anchored(fixedSource{high: true}, 1000, 0))
}
