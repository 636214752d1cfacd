package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	t.Run("Returns the code of a wrapped error", func(t *testing.T) {
		// Given: a game error wrapped twice
		err := fmt.Errorf("failed to handle command: %w", fmt.Errorf("join: %w", ErrGameFull))

		// When: resolving its code
		code := Code(err)

		// Then: the sentinel's code is returned
		assert.Equal(t, "game_full", code)
	})

	t.Run("Returns internal code for unknown errors", func(t *testing.T) {
		// Given: an error that is not part of the taxonomy
		err := errors.New("redis down")

		// When / Then: it maps to the internal code and a generic message
		assert.Equal(t, CodeInternal, Code(err))
		assert.Equal(t, "Internal error", Message(err))
	})

	t.Run("Every taxonomy error has a distinct code", func(t *testing.T) {
		seen := make(map[string]bool, len(codes))
		for _, c := range codes {
			assert.False(t, seen[c.code], "duplicate code %s", c.code)
			seen[c.code] = true
			assert.Equal(t, c.code, Code(c.err))
		}
	})
}

func TestMessage(t *testing.T) {
	// Given: a wrapped turn error
	err := fmt.Errorf("apply move: %w", ErrNotYourTurn)

	// When: resolving its message
	msg := Message(err)

	// Then: the exact stable message is returned
	assert.Equal(t, "Not your turn", msg)
}
