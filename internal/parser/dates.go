package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date patterns found in US bank and card app screenshots, in the order they
// are tried. First match wins per fragment.
const weekdayOpt = `(?:(?:Sun|Mon|Tues?|Wed(?:nes)?|Thur?s?|Fri|Sat(?:ur)?)(?:day)?,\s*)?`

const abbrevMonths = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

const fullMonths = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	// M/D/YYYY or MM/DD/YYYY
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	// "Dec 7, 2024", optionally "Sun, Dec 7 2024"
	reAbbrevMonthYear = regexp.MustCompile(`(?i)` + weekdayOpt + `\b(` + abbrevMonths + `)\b\.?\s+(\d{1,2})\s*,?\s+(\d{4})\b`)
	// "Dec 7" with no year
	reAbbrevMonth = regexp.MustCompile(`(?i)` + weekdayOpt + `\b(` + abbrevMonths + `)\b\.?\s+(\d{1,2})\b`)
	// "December 7, 2024"
	reFullMonthYear = regexp.MustCompile(`(?i)\b(` + fullMonths + `)\s+(\d{1,2})\s*,?\s+(\d{4})\b`)
	// "December 7" with no year
	reFullMonth = regexp.MustCompile(`(?i)\b(` + fullMonths + `)\s+(\d{1,2})\b`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseDate extracts a calendar date from a text fragment and returns it in
// ISO YYYY-MM-DD form. Month-name dates without an explicit year use
// defaultYear. Returns false when no pattern matches or the captured numbers
// do not form a valid calendar date.
func ParseDate(s string, defaultYear int) (string, bool) {
	if m := reNumericDate.FindStringSubmatch(s); m != nil {
		return isoDate(atoi(m[3]), atoi(m[1]), atoi(m[2]))
	}
	if m := reAbbrevMonthYear.FindStringSubmatch(s); m != nil {
		return isoDate(atoi(m[3]), monthNumber(m[1]), atoi(m[2]))
	}
	if m := reAbbrevMonth.FindStringSubmatch(s); m != nil {
		return isoDate(defaultYear, monthNumber(m[1]), atoi(m[2]))
	}
	if m := reFullMonthYear.FindStringSubmatch(s); m != nil {
		return isoDate(atoi(m[3]), monthNumber(m[1]), atoi(m[2]))
	}
	if m := reFullMonth.FindStringSubmatch(s); m != nil {
		return isoDate(defaultYear, monthNumber(m[1]), atoi(m[2]))
	}
	return "", false
}

// stripDateText removes every date-shaped substring from a line. Used to
// decide whether a line is a bare date header or carries other content.
// Year-bearing patterns go first so no dangling ", 2025" is left behind.
func stripDateText(s string) string {
	s = reNumericDate.ReplaceAllString(s, "")
	s = reAbbrevMonthYear.ReplaceAllString(s, "")
	s = reFullMonthYear.ReplaceAllString(s, "")
	s = reAbbrevMonth.ReplaceAllString(s, "")
	s = reFullMonth.ReplaceAllString(s, "")
	return s
}

// isoDate builds the ISO string, rejecting captures that roll over when
// constructed as a real calendar date (day 32, Feb 30, month 13).
func isoDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func monthNumber(name string) int {
	key := strings.ToLower(name)
	if len(key) > 3 {
		key = key[:3]
	}
	return monthNumbers[key]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
