// Package scripture normalizes and parses scripture references found in
// imported prompt content.
package scripture

import (
	"regexp"
	"strings"
)

var (
	numPrefix  = regexp.MustCompile(`^\d+\.`)
	refPattern = regexp.MustCompile(`^(?:\d\s+)?[A-Za-z]+(?:\s+[A-Za-z]+)?\s+\d+:\d+(?:-\d+)?$`)
	bareRange  = regexp.MustCompile(`(\d+:\d+)\s+(\d+)$`)
	digitsOnly = regexp.MustCompile(`^\d+$`)
)

// Clean strips the unicode spacing and dash variants spreadsheet exports
// tend to carry, collapsing runs of whitespace.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeReference tidies a reference cell: cleans it, drops a leading
// "NN." row number, and folds a trailing bare verse number into a range
// ("John 3:16 17" -> "John 3:16-17"). Returns "" when the cell does not
// look like a reference at all.
func NormalizeReference(ref string) string {
	ref = Clean(ref)
	ref = numPrefix.ReplaceAllString(ref, "")
	ref = strings.TrimSpace(ref)
	ref = bareRange.ReplaceAllString(ref, "$1-$2")

	if !refPattern.MatchString(ref) {
		return ""
	}
	return ref
}

// SplitLine pulls a reference and the verse text out of a combined
// "Book C:V text..." line. Both results are empty when the line cannot be
// split confidently.
func SplitLine(line string) (ref, text string) {
	line = Clean(line)
	tokens := strings.Fields(line)
	if len(tokens) < 5 {
		return "", ""
	}

	colonIdx := -1
	for i, t := range tokens {
		if strings.Contains(t, ":") {
			colonIdx = i
			break
		}
	}
	if colonIdx == -1 {
		return "", ""
	}

	// Book name: up to 3 words before the chapter:verse token
	bookStart := 0
	if numPrefix.MatchString(tokens[0]) {
		bookStart = 1
	}
	if colonIdx-bookStart > 3 {
		bookStart = colonIdx - 3
	}

	refTokens := tokens[bookStart : colonIdx+1]

	// A trailing bare number right after the colon token is a verse range
	textStart := colonIdx + 1
	if textStart < len(tokens) && digitsOnly.MatchString(tokens[textStart]) {
		refTokens = append(refTokens, tokens[textStart])
		textStart++
	}

	if len(tokens)-textStart < 2 {
		return "", ""
	}

	ref = NormalizeReference(strings.Join(refTokens, " "))
	if ref == "" {
		return "", ""
	}

	return ref, strings.Join(tokens[textStart:], " ")
}
