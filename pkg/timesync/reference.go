package timesync

// referencePoints walks the reference sequence and yields the points
// the secondaries are aligned to.
//
// In linearize mode the gap between two consecutive reference timestamps
// is filled with points spaced by step, starting from the previously
// emitted point. The original timestamp is emitted as soon as the
// previous point is within one step of it, so original timestamps
// are never skipped.
type referencePoints struct {
	reference []Timestamp
	linearize bool
	step      Timestamp

	idx     int
	prev    Timestamp
	hasPrev bool
}

func newReferencePoints(reference []Timestamp, cfg Config) *referencePoints {
	return &referencePoints{
		reference: reference,
		linearize: cfg.Linearize,
		step:      Timestamp(cfg.Step),
	}
}

func (r *referencePoints) next() (Timestamp, bool) {
	if r.idx >= len(r.reference) {
		return 0, false
	}
	upcoming := r.reference[r.idx]

	var m Timestamp
	if !r.linearize || !r.hasPrev || r.reachedWithinStep(upcoming) {
		m = upcoming
		r.idx++
	} else {
		m = r.prev + r.step
	}

	r.prev, r.hasPrev = m, true
	return m, true
}

// reachedWithinStep reports prev >= upcoming-step without underflowing.
func (r *referencePoints) reachedWithinStep(upcoming Timestamp) bool {
	if r.prev >= upcoming {
		return true
	}
	return upcoming-r.prev <= r.step
}
