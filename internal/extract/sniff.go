package extract

import (
	"strings"
	"unicode/utf8"

	"blocklists/pkg/serrors"
)

// SampleSize is how many characters from the start of a CSV file are used to
// infer its delimiter.
const SampleSize = 4096

// delimiters are the CSV delimiter candidates in order of preference.
var delimiters = []rune{',', '\t', ';'} //nolint: gochecknoglobals

// minConsistency is the share of sample lines that must agree on a
// delimiter count for that delimiter to be accepted.
const minConsistency = 0.9

// sample returns the first SampleSize characters of text. When text is
// longer, the trailing partial line is dropped so it cannot skew the counts.
func sample(text string) string {
	if utf8.RuneCountInString(text) <= SampleSize {
		return text
	}

	n, i := 0, 0
	for i = range text {
		if n == SampleSize {
			break
		}
		n++
	}
	s := text[:i]
	if cut := strings.LastIndexByte(s, '\n'); cut > 0 {
		s = s[:cut]
	}

	return s
}

// SniffDelimiter infers the delimiter of a CSV sample among comma, tab and
// semicolon. For each candidate it counts occurrences outside double quotes
// on every non-empty line; the candidate wins when one non-zero count is
// shared by at least 90% of the lines. The most consistent candidate is
// chosen, ties going to the preferred order. A sample where no candidate
// qualifies, such as a single column file, yields ErrUndetectableDialect.
func SniffDelimiter(s string) (rune, error) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return 0, serrors.With(serrors.ErrUndetectableDialect, "could not determine delimiter: empty sample")
	}

	var (
		best      rune
		bestScore float64
	)
	for _, d := range delimiters {
		score := consistency(lines, d)
		if score >= minConsistency && score > bestScore {
			best, bestScore = d, score
		}
	}
	if best == 0 {
		return 0, serrors.With(serrors.ErrUndetectableDialect,
			"could not determine delimiter among %q in %d lines", string(delimiters), len(lines))
	}

	return best, nil
}

// consistency returns the share of lines on which d occurs exactly as often
// as on most lines. It is zero when d occurs on most lines zero times.
func consistency(lines []string, d rune) float64 {
	freq := map[int]int{}
	for _, line := range lines {
		freq[countOutsideQuotes(line, d)]++
	}

	mode, modeLines := 0, 0
	for count, n := range freq {
		if n > modeLines || (n == modeLines && count > mode) {
			mode, modeLines = count, n
		}
	}
	if mode == 0 {
		return 0
	}

	return float64(modeLines) / float64(len(lines))
}

func countOutsideQuotes(line string, d rune) int {
	n, quoted := 0, false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == d && !quoted:
			n++
		}
	}

	return n
}
