package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

const maxQueryLength = 500

var analysisIDPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// ValidateQuery checks the free-text research query
func ValidateQuery(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if len(q) > maxQueryLength {
		return fmt.Errorf("query too long (max %d characters)", maxQueryLength)
	}
	return nil
}

// ValidateAnalysisID validates analysis ID format (UUID)
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}

	if !analysisIDPattern.MatchString(strings.ToLower(id)) {
		return fmt.Errorf("invalid analysis ID format")
	}

	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
