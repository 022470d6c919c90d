package timesync

import (
	"io"
	"iter"
)

// Synchronizer aligns multiple secondary sequences against the same
// reference points.
//
// The reference points are generated once and handed to every secondary
// scanner, so all the secondaries always observe the same points.
type Synchronizer struct {
	reference *referencePoints
	scanners  []*nearestScanner
	refLen    int
	err       error
}

// NewSynchronizer returns a Synchronizer over the given sorted sequences.
// As with NewAligner, the configuration is validated immediately.
func NewSynchronizer(
	reference []Timestamp,
	secondaries [][]Timestamp,
	cfg Config,
) (*Synchronizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scanners := make([]*nearestScanner, 0, len(secondaries))
	for _, secondary := range secondaries {
		scanners = append(scanners, newNearestScanner(secondary))
	}
	return &Synchronizer{
		reference: newReferencePoints(reference, cfg),
		scanners:  scanners,
		refLen:    len(reference),
	}, nil
}

// Next returns the next tuple, or io.EOF when the reference points are over.
func (s *Synchronizer) Next() (Tuple, error) {
	if s.err != nil {
		return Tuple{}, s.err
	}

	m, ok := s.reference.next()
	if !ok {
		s.err = io.EOF
		return Tuple{}, s.err
	}

	tuple := Tuple{
		Reference:   m,
		Secondaries: make([]Timestamp, len(s.scanners)),
	}
	for idx, scanner := range s.scanners {
		v, ok := scanner.nearest(m)
		if !ok {
			s.err = &EmptySecondaryError{
				SecondaryIndex:  idx,
				ReferenceLength: s.refLen,
			}
			return Tuple{}, s.err
		}
		tuple.Secondaries[idx] = v
	}
	return tuple, nil
}

// All iterates over the remaining tuples. The iteration stops after the first error.
func (s *Synchronizer) All() iter.Seq2[Tuple, error] {
	return func(yield func(Tuple, error) bool) {
		for {
			tuple, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(tuple, err) || err != nil {
				return
			}
		}
	}
}

// Synchronize returns all the tuples at once.
func Synchronize(
	reference []Timestamp,
	secondaries [][]Timestamp,
	cfg Config,
) ([]Tuple, error) {
	s, err := NewSynchronizer(reference, secondaries, cfg)
	if err != nil {
		return nil, err
	}

	var result []Tuple
	for tuple, err := range s.All() {
		if err != nil {
			return nil, err
		}
		result = append(result, tuple)
	}
	return result, nil
}
