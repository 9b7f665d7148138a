package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))

	err := ValidateUsername("   ")
	assert.EqualError(t, err, "username is required")

	err = ValidateUsername(strings.Repeat("a", 256))
	assert.EqualError(t, err, "username exceeds maximum length of 255 characters")
}

func TestValidateEmployeeID(t *testing.T) {
	assert.NoError(t, ValidateEmployeeID(1))
	assert.Error(t, ValidateEmployeeID(0))
	assert.Error(t, ValidateEmployeeID(-7))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "alice", SanitizeString("  ali\x00ce \n"))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("name", "x"))
	assert.EqualError(t, ValidateRequired("name", ""), "name is required")
}
