// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/model"
)

// DateLayout is how dates are shown to the user.
const DateLayout = "02/01/2006"

// FormatBRL formats an amount as Brazilian reais.
// e.g., 1234.5 -> "R$ 1.234,50", -10 -> "-R$ 10,00"
func FormatBRL(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	whole := decimal.RequireFromString(intPart).IntPart()
	grouped := strings.ReplaceAll(humanize.Comma(whole), ",", ".")
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped, frac)
}

// FormatSigned prefixes the amount with + for income and - for expense.
func FormatSigned(t model.Transaction) string {
	if t.Type == model.Income {
		return "+ " + FormatBRL(t.Amount)
	}
	return "- " + FormatBRL(t.Amount)
}

// FormatDate formats t in local time as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// FormatRelative describes how long ago t was.
// e.g., "now", "3 minutes ago", "2 days ago"
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if t.After(now) {
		t = now
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatNumber adds thousands separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDays formats a day count with the right plural.
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// Truncate shortens s to max runes, ending in an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
