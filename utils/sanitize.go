package utils

import (
	"regexp"
	"strings"
)

var (
	jsSchemePattern     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)on\w+\s*=`)
	angleBrackets       = strings.NewReplacer("<", "", ">", "")
	nonDigits           = regexp.MustCompile(`\D`)
)

// SanitizeString removes the markup fragments we never accept in input:
// angle brackets, javascript: scheme prefixes and inline on<event>= handler
// patterns, then trims surrounding whitespace. Removal repeats until a fixed
// point so stripping one fragment cannot reassemble another.
func SanitizeString(s string) string {
	for {
		cleaned := angleBrackets.Replace(s)
		cleaned = jsSchemePattern.ReplaceAllString(cleaned, "")
		cleaned = eventHandlerPattern.ReplaceAllString(cleaned, "")
		if cleaned == s {
			break
		}
		s = cleaned
	}
	return strings.TrimSpace(s)
}

// SanitizeValue walks a decoded JSON value and sanitizes every string leaf.
// The value shapes are the closed set produced by encoding/json: string,
// float64, bool, nil, []interface{} and map[string]interface{}. Non-string
// leaves pass through unchanged.
func SanitizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return SanitizeString(val)
	case []interface{}:
		for i, item := range val {
			val[i] = SanitizeValue(item)
		}
		return val
	case map[string]interface{}:
		for k, item := range val {
			val[k] = SanitizeValue(item)
		}
		return val
	default:
		return v
	}
}

// SanitizeBody sanitizes a decoded JSON object in place and returns it.
func SanitizeBody(body map[string]interface{}) map[string]interface{} {
	if body == nil {
		return nil
	}
	SanitizeValue(body)
	return body
}

// NormalizePhone reduces a phone number to its 10 significant digits.
// A 12-digit number with the 91 country prefix is trimmed to 10; anything
// else is returned as its bare digits, never silently truncated, so the
// validator can reject it with a clear message.
func NormalizePhone(s string) string {
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		return digits[2:]
	}
	return digits
}
