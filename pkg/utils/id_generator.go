package utils

import (
	"github.com/google/uuid"
)

// GenerateID generates a new UUID
func GenerateID() string {
	return uuid.New().String()
}

// GenerateInvocationID generates a unique ID for one tool invocation
func GenerateInvocationID() string {
	return "CALL-" + GenerateID()
}
