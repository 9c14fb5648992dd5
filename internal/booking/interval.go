package booking

import "time"

// Interval is a half-open stay range [CheckIn, CheckOut). The caller
// guarantees CheckOut is after CheckIn.
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps reports whether iv conflicts with other. Back-to-back stays
// (iv.CheckOut == other.CheckIn or the reverse) do not conflict, with
// one exception: two stays starting on the same date always conflict,
// whatever their lengths.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.CheckIn.Equal(other.CheckIn) {
		return true
	}

	if iv.CheckIn.After(other.CheckIn) && iv.CheckIn.Before(other.CheckOut) {
		return true
	}

	if iv.CheckOut.After(other.CheckIn) && iv.CheckOut.Before(other.CheckOut) {
		return true
	}

	return iv.CheckIn.Before(other.CheckIn) && iv.CheckOut.After(other.CheckOut)
}

// Available reports whether the candidate interval can be admitted
// against a room's committed bookings. The freshness of existing is
// the caller's concern.
func Available(candidate Interval, existing []*Booking) bool {
	for _, b := range existing {
		if candidate.Overlaps(b.Interval()) {
			return false
		}
	}

	return true
}
