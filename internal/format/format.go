package format

import (
	"fmt"
	"math"
	"time"
)

// Price renders a dollar amount with exactly two decimal places.
// Example: Price(19.5) => "$19.50".
// Non-finite input renders as "$0.00": upstream product records are not
// guaranteed to carry numeric prices, and a bad record must not take the
// surrounding card down with it.
func Price(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0.00"
	}
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// DateTime formats timestamps for admin tables.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}

// Relative returns a coarse "time ago" string for activity feeds.
func Relative(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("2006-01-02")
	}
}
