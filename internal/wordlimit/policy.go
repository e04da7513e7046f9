package wordlimit

import (
	"regexp"

	"ocena/internal/textstats"
)

const DefaultWordsPerQuestion = 240

var questionPattern = regexp.MustCompile(`(?i)Question\s+\d+`)

type Analysis struct {
	WordCount        int     `json:"wordCount"`
	ExpectedMaxWords int     `json:"expectedMaxWords"`
	Adherence        int     `json:"adherence"`
	Penalty          float64 `json:"penalty"`
	OverageRatio     float64 `json:"overageRatio"`
}

func (a Analysis) Exceeded() bool {
	return a.Adherence == 0
}

// Policy sizes the word budget by the number of "Question N" markers.
type Policy struct {
	WordsPerQuestion int
}

func Check(text string) Analysis {
	return Policy{WordsPerQuestion: DefaultWordsPerQuestion}.Check(text)
}

func (p Policy) Check(text string) Analysis {
	perQuestion := p.WordsPerQuestion
	if perQuestion <= 0 {
		perQuestion = DefaultWordsPerQuestion
	}
	questions := max(1, len(questionPattern.FindAllStringIndex(text, -1)))
	return evaluate(textstats.CountWords(text), questions*perQuestion)
}

func evaluate(wordCount, expectedMax int) Analysis {
	a := Analysis{
		WordCount:        wordCount,
		ExpectedMaxWords: expectedMax,
		Adherence:        1,
	}
	if wordCount <= expectedMax {
		return a
	}
	a.Adherence = 0
	a.OverageRatio = float64(wordCount-expectedMax) / float64(expectedMax)
	a.Penalty = penaltyFor(a.OverageRatio)
	return a
}

func penaltyFor(overage float64) float64 {
	switch {
	case overage <= 0.10:
		return 0.05
	case overage <= 0.25:
		return 0.10
	case overage <= 0.50:
		return 0.20
	default:
		return 0.30
	}
}
