package service

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

func mustParseISODate(dateStr string) time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02T15:04:05.000",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// wholeDaysBetween counts complete 24h periods from a to b, never rounding up.
func wholeDaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// parsePriceValue keeps only the digits of s, so "TZS 180,000" becomes 180000.
// Anything without digits, or too long to fit, is 0.
func parsePriceValue(s string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// thousandsLabel renders a TZS price in thousands, keeping any fraction so
// 450500 reads "450.5k" rather than "450k".
func thousandsLabel(price int64) string {
	if price%1000 == 0 {
		return strconv.FormatInt(price/1000, 10) + "k"
	}
	return strconv.FormatFloat(float64(price)/1000, 'f', -1, 64) + "k"
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
