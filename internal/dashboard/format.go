// Package dashboard provides formatting helpers for the terminal renderer.
package dashboard

import (
	"fmt"
	"time"
)

// FormatPrice formats a coin price with 8 decimal places, the precision the
// feed reports for small-cap coins.
func FormatPrice(p float64) string {
	return fmt.Sprintf("%.8f", p)
}

// FormatUSD formats a dollar value with B/M/K suffixes.
func FormatUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatAmount formats a coin amount with two decimals.
func FormatAmount(a float64) string {
	return fmt.Sprintf("%.2f", a)
}

// FormatChange formats a 24h change percentage with an explicit sign.
func FormatChange(c float64) string {
	if c >= 0 {
		return fmt.Sprintf("+%.2f%%", c)
	}
	return fmt.Sprintf("%.2f%%", c)
}

// FormatClock formats a receipt timestamp as HH:MM:SS local time.
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}
