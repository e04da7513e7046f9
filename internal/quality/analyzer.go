package quality

import (
	"regexp"
	"strings"

	"ocena/internal/textstats"
)

type Rating string

const (
	RatingPoor      Rating = "poor"
	RatingFair      Rating = "fair"
	RatingGood      Rating = "good"
	RatingExcellent Rating = "excellent"
)

func (r Rating) Score() float64 {
	switch r {
	case RatingExcellent:
		return 5.0
	case RatingGood:
		return 4.0
	case RatingFair:
		return 3.0
	default:
		return 2.0
	}
}

type WritingQuality struct {
	Score             float64 `json:"score"`
	Rating            Rating  `json:"rating"`
	GrammarErrors     int     `json:"grammarErrors"`
	ReadabilityScore  float64 `json:"readabilityScore"`
	SentenceCount     int     `json:"sentenceCount"`
	AvgSentenceLength float64 `json:"avgSentenceLength"`
}

var (
	missingPeriod = regexp.MustCompile(`[a-z]\n[A-Z]`)
	danglingTail  = regexp.MustCompile(`(?i)\b(?:however|therefore|thus|hence|consequently)\s*$`)
	plainWord     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// band is one row of the rating table; rows are checked in order.
type band struct {
	rating         Rating
	maxErrorRatio  float64
	minReadability float64
	minAvgLen      float64
	maxAvgLen      float64
}

var bands = []band{
	{RatingExcellent, 0.5, 60, 15, 25},
	{RatingGood, 1.5, 50, 12, 30},
	{RatingFair, 3.0, 40, 8, 35},
}

func Analyze(text string) WritingQuality {
	if strings.TrimSpace(text) == "" {
		return WritingQuality{Rating: RatingFair}
	}

	errors := GrammarErrors(text)
	words := textstats.CountWords(text)
	sentences := len(textstats.Sentences(text))

	var avgLen, ratio float64
	if sentences > 0 {
		avgLen = float64(words) / float64(sentences)
	}
	if words > 0 {
		ratio = float64(errors) / float64(words) * 100
	}
	readability := textstats.Readability(text)
	rating := Rate(ratio, readability, avgLen)

	return WritingQuality{
		Score:             rating.Score(),
		Rating:            rating,
		GrammarErrors:     errors,
		ReadabilityScore:  readability,
		SentenceCount:     sentences,
		AvgSentenceLength: avgLen,
	}
}

// Rate maps errors per hundred words, readability and average sentence
// length onto a rating.
func Rate(errorRatio, readability, avgSentenceLen float64) Rating {
	for _, b := range bands {
		if errorRatio <= b.maxErrorRatio &&
			readability >= b.minReadability &&
			avgSentenceLen >= b.minAvgLen && avgSentenceLen <= b.maxAvgLen {
			return b.rating
		}
	}
	return RatingPoor
}

// GrammarErrors counts double spaces, a line break between a lowercase and
// an uppercase letter, immediately repeated words and a transition word
// left dangling at the end of the text.
func GrammarErrors(text string) int {
	count := strings.Count(text, "  ")
	count += len(missingPeriod.FindAllStringIndex(text, -1))
	count += repeatedWords(text)
	if danglingTail.MatchString(text) {
		count++
	}
	return count
}

func repeatedWords(text string) int {
	idx := plainWord.FindAllStringIndex(text, -1)
	count := 0
	for i := 0; i+1 < len(idx); i++ {
		gap := text[idx[i][1]:idx[i+1][0]]
		if gap == "" || strings.TrimSpace(gap) != "" {
			continue
		}
		if strings.EqualFold(text[idx[i][0]:idx[i][1]], text[idx[i+1][0]:idx[i+1][1]]) {
			count++
			i++
		}
	}
	return count
}
