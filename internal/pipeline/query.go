package pipeline

import (
	"strings"
	"unicode"
)

// maxQueryLines bounds how many transcribed lines feed the search string.
const maxQueryLines = 3

// searchQueryFromText derives a catalog search string from raw OCR text:
// the first few non-trivial lines, stripped of non-alphanumeric characters,
// with whitespace collapsed. Returns "" when nothing usable was transcribed.
func searchQueryFromText(text string) string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		if len(parts) == maxQueryLines {
			break
		}
		cleaned := cleanLine(line)
		if isTrivial(cleaned) {
			continue
		}
		parts = append(parts, cleaned)
	}
	return strings.Join(parts, " ")
}

// cleanLine keeps letters, digits, and spaces, then collapses runs of
// whitespace into single spaces.
func cleanLine(line string) string {
	var b strings.Builder
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// isTrivial reports whether a cleaned line is too short or carries no
// letters to be worth searching on.
func isTrivial(line string) bool {
	if len(line) <= 2 {
		return true
	}
	for _, r := range line {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
