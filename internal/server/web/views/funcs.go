package views

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/Masterminds/sprig/v3"
)

// FuncMap is sprig's function set plus a few portal helpers.
func FuncMap() template.FuncMap {
	fm := sprig.FuncMap()
	fm["price"] = FormatPrice
	fm["excerpt"] = Excerpt
	return fm
}

// FormatPrice renders 1234567.5 as "1,234,567.50" and whole amounts without
// decimals.
func FormatPrice(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "00" {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Excerpt shortens s to at most n runes, appending "…" when cut.
func Excerpt(n int, s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// FormatPlainPrice renders a price for an input field: no separators, no
// trailing zeros.
func FormatPlainPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
