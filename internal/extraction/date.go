package extraction

import (
	"fmt"
	"strings"
	"time"
)

const canonicalDate = "2006-01-02"

// normalizeDate turns a raw date-like substring into a calendar date.
// Already-canonical YYYY-MM-DD input parses directly (normalization is
// idempotent). Otherwise the string is split on its separator into three
// parts: a 4-digit first part is taken as the year, else the last part is
// the year and the first two are day then month. Two-digit years are
// assumed to be 20xx. The day-before-month assumption is deliberate and
// mirrors the non-US layouts this pipeline was tuned for; US-style
// MM/DD/YYYY with day <= 12 will swap silently.
func normalizeDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)

	if t, err := time.Parse(canonicalDate, raw); err == nil {
		return t, true
	}

	sep := "/"
	switch {
	case strings.Contains(raw, "-"):
		sep = "-"
	case strings.Contains(raw, "."):
		sep = "."
	}

	parts := strings.Split(raw, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var year, month, day string
	if len(parts[0]) == 4 {
		year, month, day = parts[0], parts[1], parts[2]
	} else {
		day, month, year = parts[0], parts[1], parts[2]
		if len(year) == 2 {
			year = "20" + year
		}
	}

	t, err := time.Parse(canonicalDate, fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
