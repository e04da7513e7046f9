package textstats

import (
	"math"
	"regexp"
)

const (
	ShortParagraphWords = 30
	LongParagraphWords  = 100
)

type Pacing string

const (
	PacingBalanced Pacing = "balanced"
	PacingChoppy   Pacing = "choppy"
	PacingDense    Pacing = "dense"
)

var blankLine = regexp.MustCompile(`\n\s*\n`)

// Segment is one paragraph, located by word offsets into the whole text.
type Segment struct {
	Index     int
	StartWord int
	EndWord   int
	Words     int
	Text      string
}

type WordCountStats struct {
	WordCount           int     `json:"wordCount"`
	ParagraphCount      int     `json:"paragraphCount"`
	WordsPerParagraph   float64 `json:"wordsPerParagraph"`
	ShortParagraphCount int     `json:"shortParagraphCount"`
	LongParagraphCount  int     `json:"longParagraphCount"`
	Pacing              Pacing  `json:"pacing"`
}

// Paragraphs splits text on blank lines. Empty input still yields a single
// empty paragraph so that callers never divide by zero.
func Paragraphs(text string) []Segment {
	parts := blankLine.Split(text, -1)
	segments := make([]Segment, 0, len(parts))
	offset := 0
	for _, part := range parts {
		n := CountWords(part)
		segments = append(segments, Segment{
			Index:     len(segments),
			StartWord: offset,
			EndWord:   offset + n,
			Words:     n,
			Text:      normalizeWhitespace(part),
		})
		offset += n
	}
	return segments
}

func AnalyzeParagraphs(text string) WordCountStats {
	wordCount := CountWords(text)
	segments := Paragraphs(text)

	stats := WordCountStats{
		WordCount:      wordCount,
		ParagraphCount: len(segments),
		Pacing:         PacingBalanced,
	}
	if stats.ParagraphCount == 0 {
		return stats
	}

	for _, seg := range segments {
		if seg.Words < ShortParagraphWords {
			stats.ShortParagraphCount++
		}
		if seg.Words > LongParagraphWords {
			stats.LongParagraphCount++
		}
	}

	stats.WordsPerParagraph = math.Round(float64(wordCount)/float64(stats.ParagraphCount)*10) / 10
	stats.Pacing = classifyPacing(stats.ShortParagraphCount, stats.LongParagraphCount, stats.ParagraphCount)
	return stats
}

func classifyPacing(short, long, total int) Pacing {
	if total == 0 {
		return PacingBalanced
	}
	switch threshold := float64(total) * 0.7; {
	case float64(short) > threshold:
		return PacingChoppy
	case float64(long) > threshold:
		return PacingDense
	default:
		return PacingBalanced
	}
}
