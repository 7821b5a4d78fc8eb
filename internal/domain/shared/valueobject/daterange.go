package valueobject

import (
	"errors"
	"time"
)

// DateRange is a booked interval. Till must be strictly after Since;
// zero-length ranges are invalid.
type DateRange struct {
	Since time.Time `json:"since"`
	Till  time.Time `json:"till"`
}

// NewDateRange creates a validated DateRange.
func NewDateRange(since, till time.Time) (DateRange, error) {
	r := DateRange{Since: since, Till: till}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks that both endpoints are set and strictly ordered.
func (r DateRange) Validate() error {
	if r.Since.IsZero() {
		return errors.New("since must be set")
	}
	if r.Till.IsZero() {
		return errors.New("till must be set")
	}
	if r.Till.Before(r.Since) {
		return errors.New("till cannot be before since")
	}
	if r.Till.Equal(r.Since) {
		return errors.New("till cannot be equal to since")
	}
	return nil
}

// Overlaps applies the inclusive overlap test: ranges that merely touch
// at an endpoint count as overlapping. The store-side collision query
// uses the same comparison.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Since.After(other.Till) && !r.Till.Before(other.Since)
}

// Duration returns the length of the range.
func (r DateRange) Duration() time.Duration {
	return r.Till.Sub(r.Since)
}
