package report

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"ocena/internal/quality"
	"ocena/internal/rng"
	"ocena/internal/wordlimit"
)

var (
	issuePool = []string{
		"Lack of specific, measurable outcomes",
		"Insufficient data to support key claims",
		"No clear implementation timeline",
		"Budget allocations lack necessary detail",
		"Failure to address accessibility requirements",
		"Limited innovation in proposed solutions",
		"Inadequate community engagement strategies",
		"No sustainability measures outlined",
		"Weak evidence of best practices application",
		"Missing demographic analysis",
	}
	qualityPhrases = []string{
		"provides a basic overview of current programs but lacks depth",
		"outlines several strategies but fails to demonstrate effectiveness",
		"presents an inadequate framework for recreational services",
		"proposes facility improvements without sufficient ROI analysis",
		"offers a limited foundation for departmental operations",
	}
	goalPhrases = []string{
		"poorly articulated",
		"inadequately defined",
		"inconsistently structured",
		"insufficiently developed",
	}
	innovationPhrases = []string{
		"showing few innovative approaches",
		"relying excessively on outdated practices",
		"featuring minimal forward-thinking concepts",
		"failing to incorporate modern methodologies",
	}
	strengthPool = []string{
		"Basic presentation of departmental mission",
		"Some attempt at budget allocation",
		"Recognition of community engagement importance",
		"Identification of several strategic priorities",
		"Inclusion of demographic data",
		"Acknowledgment of sustainability needs",
		"Maintenance plan outlined",
	}
)

var agencyPattern = regexp.MustCompile(`(?i)([A-Za-z \t-]+) Parks and Recreation`)

// Input is the locally computed evidence a heuristic report is built from.
type Input struct {
	Text      string
	WordCount int
	Quality   quality.WritingQuality
	Limit     wordlimit.Analysis
}

type Report struct {
	Score          int
	Confidence     int
	Agency         string
	Narrative      string
	Strengths      []string
	CriticalIssues []string
	HTML           string
}

// HeuristicScore starts from word volume, deducts for weak writing and for
// running over the word budget, and keeps the result in [40,95].
func HeuristicScore(wordCount int, rating quality.Rating, penalty float64) int {
	score := min(95, max(65, int(math.Round(float64(wordCount)/10))))
	switch rating {
	case quality.RatingPoor:
		score -= 15
	case quality.RatingFair:
		score -= 7
	}
	score -= int(math.Round(penalty * 100))
	return min(95, max(40, score))
}

func Compose(src rng.Source, in Input) Report {
	r := Report{
		Score:      HeuristicScore(in.WordCount, in.Quality.Rating, in.Limit.Penalty),
		Confidence: src.Uniform(60, 95),
		Agency:     agencyName(in.Text),
	}

	if in.Quality.Rating == quality.RatingPoor || in.Quality.Rating == quality.RatingFair {
		r.CriticalIssues = append(r.CriticalIssues,
			fmt.Sprintf("Poor writing quality with approximately %d grammar/style issues", in.Quality.GrammarErrors))
	}
	if in.Limit.Exceeded() {
		r.CriticalIssues = append(r.CriticalIssues,
			fmt.Sprintf("Exceeds word limit by %d%%", int(math.Round(in.Limit.OverageRatio*100))))
	}
	r.CriticalIssues = append(r.CriticalIssues, src.PickN(issuePool, src.Uniform(2, 3))...)

	r.Narrative = narrative(src, in.WordCount)
	r.Strengths = src.PickN(strengthPool, src.Uniform(1, 2))
	r.HTML = render("heuristic", r)
	return r
}

func narrative(src rng.Source, wordCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The submission %s. ", src.Pick(qualityPhrases))
	if wordCount > 300 {
		dataPoints := min(5, max(1, int(math.Round(float64(wordCount)/100))))
		fmt.Fprintf(&b, "The document incorporates approximately %d data points, but fails to effectively connect this data to proposed actions. ", dataPoints)
	} else {
		b.WriteString("The document is severely lacking in statistical support and concrete examples. ")
	}
	fmt.Fprintf(&b, "Goals are %s, %s.", src.Pick(goalPhrases), src.Pick(innovationPhrases))
	return b.String()
}

func agencyName(text string) string {
	m := agencyPattern.FindStringSubmatch(text)
	if m == nil {
		return "the"
	}
	if name := strings.TrimSpace(m[1]); name != "" {
		return name
	}
	return "the"
}
