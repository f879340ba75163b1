// Package asn normalizes and validates autonomous system numbers.
package asn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	plainRegex  = regexp.MustCompile(`^\d+$`)
	prefixRegex = regexp.MustCompile(`^(?i:AS)(\d+)$`)
	asdotRegex  = regexp.MustCompile(`^(\d+)\.(\d+)$`)
)

type numberRange struct {
	lo, hi uint64
}

// allocation ranges per RFC 5398, RFC 6793 and RFC 6996
var validRanges = []numberRange{
	{1, 23455},          // public 2-byte
	{23456, 23456},      // AS_TRANS
	{64496, 64511},      // reserved for documentation
	{64512, 65534},      // private use
	{65536, 4199999999}, // 4-byte
}

// Normalize converts an ASN written as a plain number ("65001"), with an
// "AS" prefix ("AS65001") or in asdot notation ("1.1") to its canonical
// decimal string. It reports false for anything else.
func Normalize(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if plainRegex.MatchString(input) {
		return input, true
	}
	if groups := prefixRegex.FindStringSubmatch(input); groups != nil {
		return groups[1], true
	}
	if groups := asdotRegex.FindStringSubmatch(input); groups != nil {
		// both asdot words are 16-bit
		high, err := strconv.ParseUint(groups[1], 10, 16)
		if err != nil {
			return "", false
		}
		low, err := strconv.ParseUint(groups[2], 10, 16)
		if err != nil {
			return "", false
		}
		return strconv.FormatUint(high*65536+low, 10), true
	}

	return "", false
}

// IsValid reports whether a canonical ASN string falls inside a recognized
// allocation range.
func IsValid(canonical string) bool {
	n, err := strconv.ParseUint(canonical, 10, 64)
	if err != nil {
		return false
	}
	for _, r := range validRanges {
		if n >= r.lo && n <= r.hi {
			return true
		}
	}
	return false
}

// ValidateAndSuggest normalizes and validates in one step. When the input is
// rejected it returns an empty ASN together with a human-readable hint.
func ValidateAndSuggest(input string) (string, string) {
	normalized, ok := Normalize(input)
	if !ok {
		return "", "invalid format, try: 65001, AS65001 or 1.1"
	}
	if !IsValid(normalized) {
		return "", fmt.Sprintf("ASN %s is outside valid ranges", normalized)
	}
	return normalized, ""
}
