package dimensions

import (
	"math"

	"ocena/internal/rng"
)

type Scores struct {
	Content      int `json:"content"`
	Organization int `json:"organization"`
	Evidence     int `json:"evidence"`
	Innovation   int `json:"innovation"`
}

type Mode string

const (
	ModeRandom   Mode = "random"
	ModeAnchored Mode = "anchored"
	ModeDefault  Mode = "default"
)

type offsets struct {
	content, organization, evidence, innovation [2]int
}

var (
	randomOffsets = offsets{
		content:      [2]int{-10, 15},
		organization: [2]int{-15, 10},
		evidence:     [2]int{-20, 5},
		innovation:   [2]int{-25, 20},
	}
	anchoredOffsets = offsets{
		content:      [2]int{-5, 10},
		organization: [2]int{-10, 5},
		evidence:     [2]int{-15, 0},
		innovation:   [2]int{-20, 15},
	}
)

func Default() Scores {
	return Scores{Content: 75, Organization: 70, Evidence: 65, Innovation: 60}
}

// Random draws a fresh base in [60,90] and jitters each dimension around it.
func Random(src rng.Source, penalty float64) Scores {
	return jitter(src, src.Uniform(60, 90), penalty, randomOffsets)
}

// Anchored jitters each dimension around a known overall score.
func Anchored(src rng.Source, score int, penalty float64) Scores {
	return jitter(src, score, penalty, anchoredOffsets)
}

// Score dispatches on mode; base is ignored outside anchored mode.
func Score(src rng.Source, mode Mode, base int, penalty float64) Scores {
	switch mode {
	case ModeRandom:
		return Random(src, penalty)
	case ModeAnchored:
		return Anchored(src, base, penalty)
	default:
		return Default()
	}
}

func jitter(src rng.Source, base int, penalty float64, o offsets) Scores {
	deduct := int(math.Round(penalty * 100))
	one := func(r [2]int) int {
		return clamp(base + src.Uniform(r[0], r[1]) - deduct)
	}
	return Scores{
		Content:      one(o.content),
		Organization: one(o.organization),
		Evidence:     one(o.evidence),
		Innovation:   one(o.innovation),
	}
}

func clamp(v int) int {
	return min(100, max(0, v))
}
