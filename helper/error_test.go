package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	t.Run("Wraps with the operation", func(t *testing.T) {
		sentinel := errors.New("connection refused")

		err := NewError("semantic search", sentinel)

		assert.EqualError(t, err, "semantic search: connection refused")
		assert.ErrorIs(t, err, sentinel)

		var wrapped *Error
		assert.ErrorAs(t, err, &wrapped)
		assert.Equal(t, "semantic search", wrapped.Operation)
	})

	t.Run("Nested errors keep the chain", func(t *testing.T) {
		sentinel := errors.New("timeout")

		err := NewError("semantic search", NewError("run", sentinel))

		assert.EqualError(t, err, "semantic search: run: timeout")
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("Nil error stays nil", func(t *testing.T) {
		assert.NoError(t, NewError("noop", nil))
	})
}
