package rng

import "math/rand/v2"

// Source is the randomness used by the grading heuristics. Implementations
// are not required to be safe for concurrent use; each grading call gets
// its own.
type Source interface {
	// Uniform returns an int in [min, max], both inclusive.
	Uniform(min, max int) int
	Pick(items []string) string
	// PickN returns up to k distinct items, drawn without replacement.
	PickN(items []string, k int) []string
}

type Rand struct {
	r *rand.Rand
}

var _ Source = (*Rand)(nil)

func New() *Rand {
	return &Rand{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func NewSeeded(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Rand) Uniform(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + s.r.IntN(max-min+1)
}

func (s *Rand) Pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[s.r.IntN(len(items))]
}

func (s *Rand) PickN(items []string, k int) []string {
	if k <= 0 || len(items) == 0 {
		return nil
	}
	if k > len(items) {
		k = len(items)
	}
	idx := s.r.Perm(len(items))[:k]
	out := make([]string, 0, k)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}
