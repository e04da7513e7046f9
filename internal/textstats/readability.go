package textstats

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonLetters  = regexp.MustCompile(`[^a-z]`)
	vowelGroups = regexp.MustCompile(`[aeiouy]+`)
)

func EstimateSyllables(text string) int {
	total := 0
	for _, w := range Words(text) {
		total += wordSyllables(w)
	}
	return total
}

func wordSyllables(word string) int {
	word = nonLetters.ReplaceAllString(strings.ToLower(word), "")
	if word == "" {
		// Digits and symbols still read as one beat.
		return 1
	}
	n := len(vowelGroups.FindAllStringIndex(word, -1))
	if n == 0 {
		n = 1
	}
	if len(word) > 2 && word[len(word)-1] == 'e' && !isVowel(word[len(word)-2]) {
		n--
	}
	return max(1, n)
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiouy", c) >= 0
}

// Sentences splits after '.', '!' or '?' when followed by whitespace.
// Empty pieces are dropped.
func Sentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !strings.ContainsRune(".!?", runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Readability is a simplified Flesch reading-ease score clamped to [0,100].
func Readability(text string) float64 {
	return readabilityFrom(CountWords(text), len(Sentences(text)), EstimateSyllables(text))
}

func readabilityFrom(words, sentences, syllables int) float64 {
	var wordsPerSentence, syllablesPerWord float64
	if sentences > 0 {
		wordsPerSentence = float64(words) / float64(sentences)
	}
	if words > 0 {
		syllablesPerWord = float64(syllables) / float64(words)
	}
	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	return min(100, max(0, score))
}
