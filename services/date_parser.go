// backend/services/date_parser.go
package services

import (
	"strings"
	"time"
	"unicode"
)

// ParseScheduleDate parses the date strings external sources hand us.
// Accepted shapes, after normalizing '.' and '/' separators to '-':
//
//	2026-02-22        full date
//	2026-02-22(일)    full date with a trailing day-of-week marker
//	02-22             month-day, year defaults to the current year
//	20260222          bare eight digits
//
// Anything else yields nil. Parsing never fails loudly: a garbage date
// in one record must not take down the batch.
func ParseScheduleDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")

	// Drop a trailing "(월)" / "(Sun)" style day-of-week marker.
	if idx := strings.IndexByte(s, '('); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}

	for _, layout := range []string{"2006-01-02", "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	if t, err := time.Parse("01-02", s); err == nil {
		d := time.Date(time.Now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// Feb 29 in a non-leap year would normalize to Mar 1; reject it.
		if d.Month() != t.Month() || d.Day() != t.Day() {
			return nil
		}
		return &d
	}

	// Salvage bare digit runs like "20260222".
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 8 {
		if t, err := time.Parse("20060102", digits.String()); err == nil {
			return &t
		}
	}

	return nil
}
