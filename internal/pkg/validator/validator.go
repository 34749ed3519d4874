package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Family status code: marital letter (C single, M married) followed by
// the number of dependents, e.g. "C0", "M3", "M12".
var statusCodeRegex = regexp.MustCompile(`^[CM][0-9]{1,2}$`)

func IsValidStatusCode(code string) bool {
	return statusCodeRegex.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

// Employee codes follow the legacy register format: 3-10 uppercase
// alphanumerics, e.g. "EMP001".
var employeeCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)

func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}
