package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestNewBooking(t *testing.T) {
	t.Run("creates a valid booking", func(t *testing.T) {
		b, err := NewBooking(day(1), day(10))
		require.NoError(t, err)
		assert.Equal(t, day(1), b.BookedSince)
		assert.Equal(t, day(10), b.BookedTill)
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		_, err := NewBooking(day(10), day(1))
		assert.Error(t, err)
	})

	t.Run("rejects a zero-length range", func(t *testing.T) {
		_, err := NewBooking(day(1), day(1))
		assert.Error(t, err)
	})
}

func TestBookingRange(t *testing.T) {
	b, err := NewBooking(day(1), day(10))
	require.NoError(t, err)

	r := b.Range()
	assert.Equal(t, day(1), r.Since)
	assert.Equal(t, day(10), r.Till)

	other, err := NewBooking(day(10), day(15))
	require.NoError(t, err)
	assert.True(t, r.Overlaps(other.Range()))

	clear, err := NewBooking(day(11), day(15))
	require.NoError(t, err)
	assert.False(t, r.Overlaps(clear.Range()))
}
