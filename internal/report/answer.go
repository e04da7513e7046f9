package report

import (
	"regexp"
	"strconv"
	"strings"

	"ocena/internal/rng"
)

// Answer is the structured form of a remote model's free-text assessment.
// Every section is optional.
type Answer struct {
	Score            int
	Confidence       int
	ScoreParsed      bool
	ConfidenceParsed bool
	Preamble         []string
	Feedback         []string
	Strengths        []string
	CriticalIssues   []string
}

type section int

const (
	sectionNone section = iota
	sectionScore
	sectionConfidence
	sectionFeedback
	sectionStrengths
	sectionIssues
)

var (
	scorePattern      = regexp.MustCompile(`(?i)score:?\s*(\d+)`)
	confidencePattern = regexp.MustCompile(`(?i)confidence:?\s*(\d+)`)
	headerPattern     = regexp.MustCompile(`(?i)^(score|confidence|feedback|strengths|critical issues|areas for improvement)\s*:\s*(.*)$`)
	bulletPattern     = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+(.*)$`)
)

var headers = map[string]section{
	"score":                 sectionScore,
	"confidence":            sectionConfidence,
	"feedback":              sectionFeedback,
	"strengths":             sectionStrengths,
	"critical issues":       sectionIssues,
	"areas for improvement": sectionIssues,
}

// ParseAnswer reads the labeled sections of a model answer. A missing score
// or confidence is replaced by a draw from [60,95] and reported through the
// *Parsed flags.
func ParseAnswer(text string, src rng.Source) Answer {
	var a Answer
	plain := strings.ReplaceAll(text, "**", "")
	a.Score, a.ScoreParsed = firstNumber(scorePattern, plain)
	a.Confidence, a.ConfidenceParsed = firstNumber(confidencePattern, plain)
	if a.ScoreParsed {
		a.Score = min(100, max(0, a.Score))
	} else {
		a.Score = src.Uniform(60, 95)
	}
	if a.ConfidenceParsed {
		a.Confidence = min(100, max(1, a.Confidence))
	} else {
		a.Confidence = src.Uniform(60, 95)
	}

	current := sectionNone
	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		joined := strings.Join(para, "\n")
		switch current {
		case sectionFeedback:
			a.Feedback = append(a.Feedback, joined)
		case sectionNone:
			a.Preamble = append(a.Preamble, joined)
		}
		para = nil
	}

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := cleanLine(raw)
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = headers[strings.ToLower(m[1])]
			line = strings.TrimSpace(m[2])
			if current == sectionScore || current == sectionConfidence || line == "" {
				continue
			}
		}
		if line == "" {
			flush()
			continue
		}

		switch current {
		case sectionStrengths:
			a.Strengths = appendItem(a.Strengths, line)
		case sectionIssues:
			a.CriticalIssues = appendItem(a.CriticalIssues, line)
		case sectionScore, sectionConfidence:
			if _, err := strconv.Atoi(strings.TrimSuffix(line, "/100")); err == nil {
				continue
			}
			// Trailing prose under a numeric header reads as feedback.
			current = sectionFeedback
			para = append(para, line)
		default:
			para = append(para, line)
		}
	}
	flush()
	return a
}

func firstNumber(p *regexp.Regexp, text string) (int, bool) {
	m := p.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// cleanLine drops markdown emphasis and heading marks that models add
// around section labels.
func cleanLine(line string) string {
	line = strings.ReplaceAll(line, "**", "")
	line = strings.TrimLeft(strings.TrimSpace(line), "# ")
	return strings.TrimSpace(line)
}

func appendItem(items []string, line string) []string {
	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		if item := strings.TrimSpace(m[1]); item != "" {
			return append(items, item)
		}
		return items
	}
	if len(items) == 0 {
		return append(items, line)
	}
	items[len(items)-1] += " " + line
	return items
}
