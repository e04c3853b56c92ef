package utils

import "time"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// FormatAPIDate formats a time as YYYY-MM-DD for list-by-range queries
func FormatAPIDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseAPIDate parses a YYYY-MM-DD date string
func ParseAPIDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
