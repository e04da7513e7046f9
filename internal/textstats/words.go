package textstats

import (
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
	// Runs of word characters joined by apostrophes or hyphens: "well-known",
	// "don't" and "2024" each count once.
	wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+(?:['-]+[\p{L}\p{M}\p{N}_]+)*`)
)

// StripTags removes markup tags and collapses whitespace runs to one space.
func StripTags(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	return spacePattern.ReplaceAllString(text, " ")
}

func Words(text string) []string {
	return wordPattern.FindAllString(StripTags(text), -1)
}

func CountWords(text string) int {
	return len(wordPattern.FindAllStringIndex(StripTags(text), -1))
}

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
