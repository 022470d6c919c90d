package timesync

// nearestScanner finds the closest secondary timestamp for a
// non-decreasing stream of reference points. Both cursors only move
// forward, so a whole scan costs O(len(secondary)) in total.
type nearestScanner struct {
	secondary []Timestamp

	// cur is the index of the current candidate, -1 if there is none yet.
	cur int
	// next is the index of the next candidate, len(secondary) if exhausted.
	next int
}

func newNearestScanner(secondary []Timestamp) *nearestScanner {
	return &nearestScanner{
		secondary: secondary,
		cur:       -1,
	}
}

func distance(a, b Timestamp) Timestamp {
	if a > b {
		return a - b
	}
	return b - a
}

// nearest returns the secondary timestamp closest to m. On a tie the later
// (larger) timestamp wins.
func (s *nearestScanner) nearest(m Timestamp) (Timestamp, bool) {
	if s.next >= len(s.secondary) {
		if s.cur < 0 {
			return 0, false
		}
		return s.secondary[s.cur], true
	}

	hasCur := s.cur >= 0
	var curDist Timestamp
	if hasCur {
		curDist = distance(m, s.secondary[s.cur])
	}
	nextDist := distance(m, s.secondary[s.next])

	// an exact match stops the advancement
	for nextDist > 0 && (!hasCur || nextDist <= curDist) {
		s.cur, curDist, hasCur = s.next, nextDist, true
		s.next++
		if s.next >= len(s.secondary) {
			// the next candidate is infinitely far away
			return s.secondary[s.cur], true
		}
		nextDist = distance(m, s.secondary[s.next])
	}

	if hasCur && curDist < nextDist {
		return s.secondary[s.cur], true
	}
	s.cur = s.next
	return s.secondary[s.next], true
}
