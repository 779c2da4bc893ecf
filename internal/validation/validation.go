package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationError represents a structured validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects multiple field errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

// RequireField checks a required string field is non-empty.
func RequireField(ve *ValidationErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, "is required")
	}
}

// ValidateEnum checks a field is one of allowed values.
func ValidateEnum(ve *ValidationErrors, field, value string, allowed []string) {
	if value == "" {
		return // only validate if set; combine with RequireField if mandatory
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	ve.Add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// ValidateID checks a string holds a positive integer id.
func ValidateID(ve *ValidationErrors, field, value string) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		ve.Add(field, "must be a positive integer")
	}
}

// ParseID converts a path segment to a positive integer id, 0 on failure.
func ParseID(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// ValidatePrice checks an optional monetary value is a non-negative finite number.
func ValidatePrice(ve *ValidationErrors, field string, value *float64) {
	if value == nil {
		return
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		ve.Add(field, "must be a finite number")
		return
	}
	if *value < 0 {
		ve.Add(field, "must be non-negative")
	}
}

// ValidateDate checks a field is exactly YYYY-MM-DD.
func ValidateDate(ve *ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	if len(value) != 10 {
		ve.Add(field, "must be a valid date (YYYY-MM-DD)")
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		ve.Add(field, "must be a valid date (YYYY-MM-DD)")
	}
}

// ValidateMonth checks a field is exactly YYYY-MM.
func ValidateMonth(ve *ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	if len(value) != 7 {
		ve.Add(field, "must be a valid month (YYYY-MM)")
		return
	}
	if _, err := time.Parse("2006-01", value); err != nil {
		ve.Add(field, "must be a valid month (YYYY-MM)")
	}
}

// ValidateMaxLength checks string doesn't exceed max length.
func ValidateMaxLength(ve *ValidationErrors, field, value string, max int) {
	if len(value) > max {
		ve.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// illegalPathChars are never allowed in a stored image reference.
var illegalPathChars = []string{"|", "&", ";", "$", "`", "<", ">", "\"", "*", "?", "\x00"}

// ValidateImagePath checks an upload reference for path injection: parent
// traversal, absolute paths, drive letters, and illegal filename characters.
func ValidateImagePath(ve *ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	if strings.Contains(value, "..") {
		ve.Add(field, "contains invalid path traversal sequence (..)")
	}
	if strings.HasPrefix(value, "/") || strings.HasPrefix(value, "\\") {
		ve.Add(field, "cannot be an absolute path")
	}
	if len(value) >= 2 && value[1] == ':' {
		ve.Add(field, "cannot contain drive letters")
	}
	for _, c := range illegalPathChars {
		if strings.Contains(value, c) {
			ve.Add(field, fmt.Sprintf("contains illegal character: %q", c))
			break
		}
	}
	if strings.ContainsAny(value, "\r\n") {
		ve.Add(field, "contains line breaks")
	}
}

// sqlKeywordPattern matches the SQL keyword tokens stripped by SanitizeText.
var sqlKeywordPattern = regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|alter|create|truncate|union|exec|execute|script)\b`)

// SanitizeText strips SQL keyword tokens, semicolons, quotes, backslashes,
// and comment delimiters from free text. Parameterized statements are the
// primary defense; this is a secondary filter and deliberately over-strips.
// Stripping repeats until the string is stable, so sanitizing already
// sanitized text returns it unchanged.
func SanitizeText(s string) string {
	for {
		out := sqlKeywordPattern.ReplaceAllString(s, "")
		for _, tok := range []string{";", "'", "\"", "\\", "--", "/*", "*/"} {
			out = strings.ReplaceAll(out, tok, "")
		}
		if out == s {
			return out
		}
		s = out
	}
}
