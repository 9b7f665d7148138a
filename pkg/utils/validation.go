package utils

import (
	"fmt"
	"strings"
)

// ValidateUsername validates a platform username
func ValidateUsername(username string) error {
	if err := ValidateRequired("username", username); err != nil {
		return err
	}
	return ValidateMaxLength("username", username, 255)
}

// ValidateEmployeeID validates an employee identifier
func ValidateEmployeeID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("employee ID must be a positive integer")
	}
	return nil
}

// SanitizeString removes dangerous characters from user input
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateMaxLength validates maximum string length
func ValidateMaxLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters", fieldName, maxLength)
	}
	return nil
}
