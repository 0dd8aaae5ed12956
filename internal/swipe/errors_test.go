package swipe

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/muzz-interest/internal/ratelimit"
)

func TestErrorCodes(t *testing.T) {
	wrapped := fmt.Errorf("process: %w", ErrActionExists)
	assert.ErrorIs(t, wrapped, ErrActionExists)
	assert.Equal(t, CodeActionExists, CodeOf(wrapped))
	assert.False(t, IsFault(wrapped))

	cause := errors.New("disk full")
	err := persistence(cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsFault(err))
	assert.Equal(t, "persistence_error: disk full", err.Error())

	assert.Same(t, ErrUndoExpired, persistence(ErrUndoExpired))
	assert.NoError(t, persistence(nil))
	assert.True(t, IsFault(cause))
	assert.False(t, IsFault(nil))
}

func TestRateLimitedCodes(t *testing.T) {
	assert.Equal(t, CodeRateLimitMinute, CodeOf(rateLimited(ratelimit.ReasonMinute)))
	assert.Equal(t, CodeDailyLikes, CodeOf(rateLimited(ratelimit.ReasonDailyLikes)))
	assert.Equal(t, CodeDailySuperLikes, CodeOf(rateLimited(ratelimit.ReasonDailySuperLikes)))
}
