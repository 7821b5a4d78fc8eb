package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateRange(t *testing.T) {
	t.Run("creates a strictly ordered range", func(t *testing.T) {
		r, err := NewDateRange(day(1), day(10))
		require.NoError(t, err)
		assert.Equal(t, day(1), r.Since)
		assert.Equal(t, day(10), r.Till)
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		_, err := NewDateRange(day(10), day(1))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "before")
	})

	t.Run("rejects a zero-length range", func(t *testing.T) {
		_, err := NewDateRange(day(1), day(1))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "equal")
	})

	t.Run("rejects unset endpoints", func(t *testing.T) {
		_, err := NewDateRange(time.Time{}, day(10))
		assert.Error(t, err)
		_, err = NewDateRange(day(1), time.Time{})
		assert.Error(t, err)
	})
}

func TestDateRangeOverlaps(t *testing.T) {
	base := DateRange{Since: day(1), Till: day(10)}

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical range", DateRange{Since: day(1), Till: day(10)}, true},
		{"contained range", DateRange{Since: day(3), Till: day(7)}, true},
		{"partial overlap at the end", DateRange{Since: day(8), Till: day(15)}, true},
		{"partial overlap at the start", DateRange{Since: day(1), Till: day(3)}, true},
		{"touching at the end counts as overlap", DateRange{Since: day(10), Till: day(15)}, true},
		{"touching at the start counts as overlap", DateRange{Since: day(1), Till: day(1).Add(time.Hour)}, true},
		{"one day gap after", DateRange{Since: day(11), Till: day(15)}, false},
		{"fully before", DateRange{Since: day(20), Till: day(25)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestDateRangeDuration(t *testing.T) {
	r := DateRange{Since: day(1), Till: day(3)}
	assert.Equal(t, 48*time.Hour, r.Duration())
}
