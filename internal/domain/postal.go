package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Customers carry free-text address lines with no structured postal fields;
// postal codes are derived lazily when a calculation needs them (France
// department lookup, country detection).

var frenchPostalPattern = regexp.MustCompile(`\b(\d{5})\b`)

// FrenchPostalCode extracts the first 5-digit postal code from a free-text
// address line. Returns "" when none is present.
func FrenchPostalCode(address string) string {
	match := frenchPostalPattern.FindStringSubmatch(address)
	if match == nil {
		return ""
	}
	return match[1]
}

// FrenchDepartment derives the 2-digit department code from a postal code.
// Returns "" if the code does not map to a metropolitan department (01-95).
func FrenchDepartment(postalCode string) string {
	code := strings.TrimSpace(postalCode)
	if len(code) < 2 {
		return ""
	}

	dept := code[:2]
	n, err := strconv.Atoi(dept)
	if err != nil || n < 1 || n > 95 {
		return ""
	}
	return dept
}
