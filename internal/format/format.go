// Package format renders amounts, dates and category colors for display.
// All functions are stateless.
package format

import (
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// Symbol is the fixed currency symbol used for all rendered amounts.
const Symbol = "$"

// fallbackColor is used for category values outside the closed set.
const fallbackColor = "#9CA3AF"

var categoryColors = map[core.Category]string{
	core.CategoryFood:          "#8B5CF6",
	core.CategoryTransport:     "#06B6D4",
	core.CategoryEntertainment: "#EC4899",
	core.CategoryShopping:      "#FACC15",
	core.CategoryUtilities:     "#F59E0B",
	core.CategoryHealth:        "#10B981",
	core.CategoryOther:         "#6366F1",
}

// Currency renders cents as a currency string with thousands grouping and
// exactly two fractional digits, e.g. "$1,234.56" or "-$900.00".
func Currency(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(Symbol)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	rem := cents % 100
	b.WriteByte(byte('0' + rem/10))
	b.WriteByte(byte('0' + rem%10))
	return b.String()
}

// Date renders an ISO 8601 date string as a human-readable date,
// e.g. "2024-01-05" -> "Jan 5, 2024". Invalid input returns an error
// rather than a garbage string.
func Date(iso string) (string, error) {
	d, err := core.ParseDate(iso)
	if err != nil {
		return "", err
	}
	return d.Format("Jan 2, 2006"), nil
}

// CategoryColor maps a category to its display color token. Values outside
// the closed set get the neutral fallback.
func CategoryColor(c core.Category) string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return fallbackColor
}
