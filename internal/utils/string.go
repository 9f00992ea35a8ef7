package utils

import (
	"unicode"
)

// IsQuerySeparator checks if a rune may separate words inside a place name
func IsQuerySeparator(r rune) bool {
	return r == ' ' || r == '-' || r == '.' || r == '\'' || r == ','
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains characters that never
// appear in place names (anything outside letters, digits and separators)
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsQuerySeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks if a string consists of repetitive characters
// Simple version that checks for repeated characters (e.g., "aaa", "zzz")
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}

	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}

// IsValidQuery checks if a query should be processed for suggestions
// Returns false for strings that are only numbers, contain special characters, or are repetitive
func IsValidQuery(s string) bool {
	if len(s) == 0 {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsSpecialChars(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	return true
}
