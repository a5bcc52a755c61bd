package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaybackSlot_AcquireCancelsPrevious(t *testing.T) {
	slot := NewPlaybackSlot()

	first, releaseFirst := slot.Acquire(context.Background(), 1)
	defer releaseFirst()
	second, releaseSecond := slot.Acquire(context.Background(), 2)
	defer releaseSecond()

	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.NoError(t, second.Err())

	playing, ok := slot.Playing()
	assert.True(t, ok)
	assert.Equal(t, int64(2), playing)
}

func TestPlaybackSlot_StaleReleaseKeepsCurrent(t *testing.T) {
	slot := NewPlaybackSlot()

	_, releaseFirst := slot.Acquire(context.Background(), 1)
	second, releaseSecond := slot.Acquire(context.Background(), 2)
	defer releaseSecond()

	releaseFirst()

	assert.NoError(t, second.Err())
	playing, ok := slot.Playing()
	assert.True(t, ok)
	assert.Equal(t, int64(2), playing)
}

func TestPlaybackSlot_Stop(t *testing.T) {
	slot := NewPlaybackSlot()
	ctx, release := slot.Acquire(context.Background(), 5)
	defer release()

	slot.Stop()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	_, ok := slot.Playing()
	assert.False(t, ok)
}
