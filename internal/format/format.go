// Package format renders amounts, dates and compliance figures for dashboards and notification texts.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var currencySymbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"GHS": "GH₵",
	"KES": "KSh",
	"ZAR": "R",
}

// FormatCurrency renders amount with the currency symbol, thousands separators and two decimals.
// Unknown currency codes are used as a prefix.
func FormatCurrency(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "NGN"
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	num := humanize.FormatFloat("#,###.##", amount)
	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + num
	}
	return sign + code + " " + num
}

// FormatDate renders t as "Jan 2, 2006".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders t as "Jan 2, 2006 15:04".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006 15:04")
}

// FormatRelative renders t relative to now ("3 hours ago", "2 days from now").
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatDistance renders a distance in kilometres.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return humanize.FormatFloat("#,###.#", km) + " km"
}

// FormatDuration renders a duration given in hours as "5h 30m".
func FormatDuration(hours float64) string {
	total := int(math.Round(hours * 60))
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// CalculateSLA returns the compliance percentage min(100, round(completed/target*100)).
// A zero target counts as fully compliant.
func CalculateSLA(completed, target int) int {
	if target <= 0 {
		return 100
	}
	pct := int(math.Round(float64(completed) / float64(target) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
