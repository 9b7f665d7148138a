package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, GenerateID())
}

func TestGenerateInvocationID(t *testing.T) {
	id := GenerateInvocationID()

	require.True(t, strings.HasPrefix(id, "CALL-"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "CALL-"))
	assert.NoError(t, err)
}
