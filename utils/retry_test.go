package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryWithBackoff(t *testing.T) {
	logger := NewNopLogger()

	calls := 0
	err := RetryWithBackoff(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, logger)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	boom := errors.New("boom")
	calls = 0
	err = RetryWithBackoff(2, time.Millisecond, func() error {
		calls++
		return boom
	}, logger)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
