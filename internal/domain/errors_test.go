package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputError(t *testing.T) {
	err := NewInputError("weight %v is negative", -0.2)
	assert.EqualError(t, err, "invalid input: weight -0.2 is negative")
	assert.True(t, IsInputError(err))
}

func TestIsInputErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("estimate return model: %w", NewInputError("no data"))
	assert.True(t, IsInputError(wrapped))

	assert.False(t, IsInputError(errors.New("no data")))
	assert.False(t, IsInputError(nil))
}
