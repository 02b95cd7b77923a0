package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeRedisOperationError, "update score")

	assert.Equal(t, CodeRedisOperationError, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "update score")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeEmptyCompetition, CodeOf(New(CodeEmptyCompetition, "no participants")))
	assert.Equal(t, CodeInternalServer, CodeOf(errors.New("plain")))
}

func TestIs(t *testing.T) {
	err := New(CodeNotFound, "missing")

	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeInvalidInput))
	assert.False(t, Is(errors.New("plain"), CodeNotFound))
}
