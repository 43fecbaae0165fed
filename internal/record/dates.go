package record

import (
	"regexp"
	"strings"

	"github.com/araddon/dateparse"
)

// DateLayout is the layout every recognized date is rewritten to.
const DateLayout = "2006-01-02"

var (
	leadingWeekday = regexp.MustCompile(`(?i)^(mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?,?\s+`)
	dottedNumeric  = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2,4}$`)
)

// NormalizeDate rewrites a free-form date ("March 20, 2025", "03/20/2025",
// "Thursday, March 20, 2025", "20.03.2025", ...) as YYYY-MM-DD. Ambiguous
// numeric dates are read month first unless the first number cannot be a
// month. Values that do not parse are returned unchanged.
func NormalizeDate(value string) string {
	normalized, ok := parseDate(value)
	if !ok {
		return value
	}
	return normalized
}

func parseDate(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}

	for _, candidate := range dateCandidates(trimmed) {
		t, err := dateparse.ParseAny(candidate, dateparse.RetryAmbiguousDateWithSwap(true))
		if err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// dateCandidates lists the spellings to try, the value as written first.
// dateparse reads dotted dates month first regardless of options, so a
// dotted numeric date is also tried with slashes, where the day/month
// swap applies.
func dateCandidates(value string) []string {
	candidates := []string{value}

	stripped := leadingWeekday.ReplaceAllString(value, "")
	if stripped != value && stripped != "" {
		candidates = append(candidates, stripped)
	}
	if dottedNumeric.MatchString(stripped) {
		candidates = append(candidates, strings.ReplaceAll(stripped, ".", "/"))
	}
	return candidates
}
