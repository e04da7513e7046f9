package wordlimit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("trail ", n))
}

func TestCheckAtLimit(t *testing.T) {
	got := Check(words(240))
	assert.Equal(t, 240, got.ExpectedMaxWords)
	assert.Equal(t, 1, got.Adherence)
	assert.Zero(t, got.Penalty)
	assert.Zero(t, got.OverageRatio)
	assert.False(t, got.Exceeded())
}

func TestCheckOneWordOver(t *testing.T) {
	got := Check(words(241))
	assert.Equal(t, 0, got.Adherence)
	assert.Equal(t, 0.05, got.Penalty)
	assert.InDelta(t, 1.0/240, got.OverageRatio, 1e-9)
	assert.True(t, got.Exceeded())
}

func TestPenaltyBands(t *testing.T) {
	cases := []struct {
		overage float64
		want    float64
	}{
		{0.0001, 0.05},
		{0.10, 0.05},
		{0.1001, 0.10},
		{0.25, 0.10},
		{0.2501, 0.20},
		{0.50, 0.20},
		{0.5001, 0.30},
		{4.0, 0.30},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, penaltyFor(tc.overage), "overage %v", tc.overage)
	}
}

func TestQuestionMarkersRaiseBudget(t *testing.T) {
	text := "Question 1\n" + words(200) + "\n\nquestion  2\n" + words(200) + "\n\nQUESTION 3\n" + words(200)
	got := Check(text)
	assert.Equal(t, 3*240, got.ExpectedMaxWords)
	assert.Equal(t, 1, got.Adherence)

	// "Question" without a number does not count.
	got = Check("Question about trails " + words(300))
	assert.Equal(t, 240, got.ExpectedMaxWords)
	assert.Equal(t, 0, got.Adherence)
	assert.Equal(t, 0.20, got.Penalty)
}

func TestPolicyCustomBudget(t *testing.T) {
	got := Policy{WordsPerQuestion: 100}.Check(words(151))
	assert.Equal(t, 100, got.ExpectedMaxWords)
	assert.Equal(t, 0.30, got.Penalty)

	got = Policy{}.Check(words(10))
	assert.Equal(t, DefaultWordsPerQuestion, got.ExpectedMaxWords)
}
