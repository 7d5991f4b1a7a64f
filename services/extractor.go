package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// priceRegexp captures a 3–5 digit amount with optional currency markers
	priceRegexp = regexp.MustCompile(`(?i)\$?\s*([0-9]{3,5})\s*(?:\$|cad|/mo|per month)?`)
	// sqftRegexp captures a 3–5 digit figure followed by an English or French
	// square-footage unit
	sqftRegexp = regexp.MustCompile(`(?i)([0-9]{3,5})\s*(?:sq ?ft|pi2|pieds)`)
	// petsRegexp matches a pets keyword followed within ~20 chars by an
	// allowed/permitted keyword
	petsRegexp = regexp.MustCompile(`(?i)(pets?|animaux).{0,20}(allowed|permis|accept)`)
	// smokingRegexp matches smoking/tobacco mentions, with an optional
	// negative prefix that is deliberately part of the match
	smokingRegexp = regexp.MustCompile(`(?i)(non[- ]?)?smoking|fumeur|tabac`)
)

// PriceFromText scans free text for a currency-like amount and returns the
// first match. ok is false when no amount is found. A structured price field
// on the listing always takes precedence over this fallback.
func PriceFromText(text string) (float64, bool) {
	m := priceRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SqftFromText scans free text for a square-footage figure. Structured
// living/net square footage fields take precedence over this fallback.
func SqftFromText(text string) (int, bool) {
	m := sqftRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// HasGym reports whether the text mentions a fitness facility.
func HasGym(text string) bool {
	low := strings.ToLower(text)
	return strings.Contains(low, "gym") || strings.Contains(low, "fitness")
}

// PetsAllowed reports whether the text states that pets are permitted,
// in English or French.
func PetsAllowed(text string) bool {
	return petsRegexp.MatchString(text)
}

// SmokingAllowed reports whether the text mentions smoking without the
// literal phrase "non smoking". The regexp itself tolerates a "non-" prefix,
// so hyphenated "non-smoking" still counts as allowed; known heuristic
// limitation, kept as-is.
func SmokingAllowed(text string) bool {
	if !smokingRegexp.MatchString(text) {
		return false
	}
	return !strings.Contains(strings.ToLower(text), "non smoking")
}

// FallbackDescription synthesizes a description for listings that ship
// without one. Missing bedroom count renders as "?", missing category as
// "unit", and a zero price as "N/A".
func FallbackDescription(beds *int, category, place string, price float64) string {
	bedsPart := "?"
	if beds != nil {
		bedsPart = strconv.Itoa(*beds)
	}

	unit := "unit"
	if category != "" {
		unit = strings.ToLower(category)
	}

	rent := "N/A"
	if price != 0 {
		rent = strconv.FormatFloat(price, 'f', -1, 64)
	}

	return fmt.Sprintf("%s-bed %s at %s. Rent %s CAD.", bedsPart, unit, place, rent)
}
