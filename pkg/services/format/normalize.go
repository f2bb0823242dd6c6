// Package format isolates "missing data" presentation in one place so
// every table in a report renders absent values the same way.
package format

import (
	"fmt"
	"math"
	"time"
)

const (
	// MissingNumber is the sentinel shown for absent numeric values.
	MissingNumber = "N/A"
	// MissingDate is the sentinel shown for absent dates.
	MissingDate = "—"
)

// NumberOr renders v with the given number of decimals, or the numeric
// sentinel when v is nil or not a finite number.
func NumberOr(v *float64, decimals int) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return MissingNumber
	}
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

// PercentOr renders v as a percentage with the given number of decimals.
// Fractions in [0,1] are scaled by 100; values above 1 are assumed to be
// percentages already and pass through unscaled.
func PercentOr(v *float64, decimals int) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return MissingNumber
	}
	p := *v
	if p >= 0 && p <= 1 {
		p *= 100
	}
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, p)
}

// DateOr renders t as YYYY-MM-DD HH:MM, or the date sentinel when t is
// nil or the zero time.
func DateOr(t *time.Time) string {
	if t == nil || t.IsZero() {
		return MissingDate
	}
	return t.Format("2006-01-02 15:04")
}

// StringOr returns s, or fallback when s is empty.
func StringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// YesNo renders a boolean flag for table cells.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
