package report

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocena/internal/quality"
	"ocena/internal/rng"
	"ocena/internal/wordlimit"
)

func parseHTML(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func TestParseAnswerFullFormat(t *testing.T) {
	answer := "Score: 88\nConfidence: 91\nFeedback:\nGood plan.\nStrengths:\n- Clear goals\nCRITICAL ISSUES:\n- No budget detail"
	a := ParseAnswer(answer, rng.NewSeeded(1))

	assert.Equal(t, 88, a.Score)
	assert.Equal(t, 91, a.Confidence)
	assert.True(t, a.ScoreParsed)
	assert.True(t, a.ConfidenceParsed)
	assert.Equal(t, []string{"Good plan."}, a.Feedback)
	assert.Equal(t, []string{"Clear goals"}, a.Strengths)
	assert.Equal(t, []string{"No budget detail"}, a.CriticalIssues)
}

func TestParseAnswerMissingNumbers(t *testing.T) {
	src := rng.NewSeeded(5)
	for range 50 {
		a := ParseAnswer("Feedback:\nThe plan is thin.", src)
		assert.False(t, a.ScoreParsed)
		assert.False(t, a.ConfidenceParsed)
		assert.GreaterOrEqual(t, a.Score, 60)
		assert.LessOrEqual(t, a.Score, 95)
		assert.GreaterOrEqual(t, a.Confidence, 60)
		assert.LessOrEqual(t, a.Confidence, 95)
	}
}

func TestParseAnswerToleratesDrift(t *testing.T) {
	answer := strings.Join([]string{
		"Here is my review.",
		"",
		"**Score:** 72",
		"## Confidence: 150",
		"",
		"Feedback: Solid intent but thin evidence.",
		"Second line of feedback.",
		"",
		"Another paragraph.",
		"Areas for Improvement:",
		"1. Add a timeline",
		"* Quantify outcomes",
		"  with baseline data",
	}, "\n")
	a := ParseAnswer(answer, rng.NewSeeded(2))

	assert.Equal(t, 72, a.Score)
	assert.Equal(t, 100, a.Confidence, "confidence is clamped")
	assert.Equal(t, []string{"Here is my review."}, a.Preamble)
	assert.Equal(t, []string{"Solid intent but thin evidence.\nSecond line of feedback.", "Another paragraph."}, a.Feedback)
	assert.Empty(t, a.Strengths)
	assert.Equal(t, []string{"Add a timeline", "Quantify outcomes with baseline data"}, a.CriticalIssues)
}

func TestFormatAnswerStructure(t *testing.T) {
	answer := "Score: 88\nConfidence: 91\nFeedback:\nGood plan.\nStrengths:\n- Clear goals\nCRITICAL ISSUES:\n- No budget detail"
	html := FormatAnswer(ParseAnswer(answer, rng.NewSeeded(1)))
	doc := parseHTML(t, html)

	require.Equal(t, 1, doc.Find("div.assessment-report").Length())
	assert.Equal(t, "88", doc.Find("span.score-value").Text())
	assert.Equal(t, "91", doc.Find("span.confidence-value").Text())
	assert.Equal(t, "Good plan.", strings.TrimSpace(doc.Find("div.feedback-section").Text()))
	assert.Equal(t, []string{"Clear goals"}, texts(doc.Find("ul.strengths-list li")))
	assert.Equal(t, []string{"No budget detail"}, texts(doc.Find("ul.critical-issues-list li")))
	assert.Equal(t, []string{"No budget detail"}, texts(doc.Find("div.critical-issues-summary li")))
	assert.Equal(t, "CRITICAL ISSUES", doc.Find("h3.critical-issues-header").Text())

	// The summary block comes first inside the container.
	first := doc.Find("div.assessment-report").Children().First()
	assert.True(t, first.HasClass("critical-issues-summary"))
}

func TestFormatAnswerWithoutIssues(t *testing.T) {
	html := FormatAnswer(ParseAnswer("Score: 80\nConfidence: 70\nFeedback:\nFine.", rng.NewSeeded(1)))
	doc := parseHTML(t, html)
	assert.Equal(t, 1, doc.Find("div.assessment-report").Length())
	assert.Zero(t, doc.Find("div.critical-issues-summary").Length())
	assert.Zero(t, doc.Find("ul.critical-issues-list").Length())
}

func TestFormatAnswerEscapesText(t *testing.T) {
	answer := "Score: 60\nFeedback:\n<script>alert('x')</script> & more\nStrengths:\n- <b>bold</b>"
	html := FormatAnswer(ParseAnswer(answer, rng.NewSeeded(1)))
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>bold</b>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&amp; more")
}

func TestHeuristicScore(t *testing.T) {
	cases := []struct {
		name    string
		words   int
		rating  quality.Rating
		penalty float64
		want    int
	}{
		{"floor of 65", 100, quality.RatingGood, 0, 65},
		{"volume", 800, quality.RatingExcellent, 0, 80},
		{"ceiling of 95", 5000, quality.RatingGood, 0, 95},
		{"fair deduction", 800, quality.RatingFair, 0, 73},
		{"poor deduction", 800, quality.RatingPoor, 0, 65},
		{"penalty deduction", 800, quality.RatingGood, 0.2, 60},
		{"clamped to 40", 10, quality.RatingPoor, 0.3, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HeuristicScore(tc.words, tc.rating, tc.penalty))
		})
	}
}

func TestComposeBounds(t *testing.T) {
	src := rng.NewSeeded(8)
	text := "Springfield Parks and Recreation\n\n" + strings.Repeat("We maintain parks and trails for residents. ", 60)
	in := Input{
		Text:      text,
		WordCount: 400,
		Quality:   quality.WritingQuality{Rating: quality.RatingFair, GrammarErrors: 4},
		Limit:     wordlimit.Analysis{Adherence: 0, OverageRatio: 0.6667, Penalty: 0.3},
	}

	for range 100 {
		r := Compose(src, in)
		assert.GreaterOrEqual(t, r.Score, 40)
		assert.LessOrEqual(t, r.Score, 95)
		assert.GreaterOrEqual(t, r.Confidence, 60)
		assert.LessOrEqual(t, r.Confidence, 95)
		assert.Equal(t, "Springfield", r.Agency)

		require.GreaterOrEqual(t, len(r.CriticalIssues), 4)
		require.LessOrEqual(t, len(r.CriticalIssues), 5)
		assert.Equal(t, "Poor writing quality with approximately 4 grammar/style issues", r.CriticalIssues[0])
		assert.Equal(t, "Exceeds word limit by 67%", r.CriticalIssues[1])
		for _, issue := range r.CriticalIssues[2:] {
			assert.Contains(t, issuePool, issue)
		}

		require.GreaterOrEqual(t, len(r.Strengths), 1)
		require.LessOrEqual(t, len(r.Strengths), 2)
		if len(r.Strengths) == 2 {
			assert.NotEqual(t, r.Strengths[0], r.Strengths[1])
		}
		assert.Contains(t, r.Narrative, "approximately 4 data points")
	}
}

func TestComposeRenderOrder(t *testing.T) {
	in := Input{
		Text:      "A short plan with no agency named.",
		WordCount: 120,
		Quality:   quality.WritingQuality{Rating: quality.RatingGood},
		Limit:     wordlimit.Analysis{Adherence: 1},
	}
	r := Compose(rng.NewSeeded(4), in)
	doc := parseHTML(t, r.HTML)

	root := doc.Find("div.assessment-report")
	require.Equal(t, 1, root.Length())
	var order []string
	root.Children().Each(func(_ int, s *goquery.Selection) {
		cls, _ := s.Attr("class")
		order = append(order, goquery.NodeName(s)+"."+cls)
	})
	assert.Equal(t, []string{
		"div.critical-issues-summary",
		"h2.",
		"p.",
		"h3.",
		"div.feedback-section",
		"h3.",
		"ul.strengths-list",
		"h3.critical-issues-header",
		"ul.critical-issues-list",
	}, order)

	assert.Equal(t, "Assessment of the Parks and Recreation Submission", doc.Find("h2").Text())
	assert.Contains(t, doc.Find("div.feedback-section").Text(), "severely lacking in statistical support")
	assert.Equal(t, len(r.CriticalIssues), doc.Find("ul.critical-issues-list li").Length())
	assert.Equal(t, len(r.CriticalIssues), doc.Find("div.critical-issues-summary li").Length())
}

func TestNotices(t *testing.T) {
	rejected := RejectedNotice("quota <exceeded>")
	assert.Contains(t, rejected, "API Error occurred:")
	assert.Contains(t, rejected, "quota &lt;exceeded&gt;")
	assert.Contains(t, RejectedNotice(""), "Unknown API error")
	assert.Contains(t, MalformedNotice(), "Invalid API response format")

	doc := parseHTML(t, Provisional(75, 70))
	assert.Contains(t, doc.Text(), "Score: 75")
	assert.Contains(t, doc.Text(), "Confidence: 70")
}
