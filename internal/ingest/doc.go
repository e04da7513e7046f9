package ingest

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

const minDocRun = 12

// parseDOC recovers readable text from a legacy Word binary by collecting
// long printable runs, stored either as single bytes or as UTF-16LE.
func parseDOC(raw []byte) (string, error) {
	narrow := printableRuns(raw)
	wide := printableRunsUTF16(raw)
	text := narrow
	if len(wide) > len(narrow) {
		text = wide
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable text found in doc")
	}
	return text, nil
}

func printable(r rune) bool {
	return r == '\t' || r == '\r' || r == '\n' || (r >= 0x20 && r < 0x7f) || (r >= 0xa0 && r < 0xd800)
}

func keepRun(run []rune) bool {
	if len(run) < minDocRun {
		return false
	}
	letters := 0
	for _, r := range run {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == ' ' {
			letters++
		}
	}
	return letters*2 >= len(run)
}

func printableRuns(raw []byte) string {
	var runs []string
	var cur []rune
	flush := func() {
		if keepRun(cur) {
			runs = append(runs, string(cur))
		}
		cur = cur[:0]
	}
	for _, c := range raw {
		r := rune(c)
		if r < 0x80 && printable(r) {
			cur = append(cur, r)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(runs, "\n\n")
}

func printableRunsUTF16(raw []byte) string {
	var runs []string
	var cur []uint16
	flush := func() {
		decoded := utf16.Decode(cur)
		if keepRun(decoded) {
			runs = append(runs, string(decoded))
		}
		cur = cur[:0]
	}
	for i := 0; i+1 < len(raw); i += 2 {
		u := uint16(raw[i]) | uint16(raw[i+1])<<8
		if printable(rune(u)) {
			cur = append(cur, u)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(runs, "\n\n")
}
