package utils

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CapitalizeFirst capitalizes the first letter of a type name (e.g., "grass" -> "Grass")
func CapitalizeFirst(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	// Casers are stateful, one per call
	return cases.Title(language.Und).String(s)
}

// StatLabel turns an API stat name into its display label
// (e.g., "special-attack" -> "SPECIAL ATTACK")
func StatLabel(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", " "))
}

// FormatMeasure formats a measurement with exactly 2 decimals and a unit (e.g., "0.70 m")
func FormatMeasure(value decimal.Decimal, unit string) string {
	return value.StringFixed(2) + " " + unit
}
