package timesync

import (
	"io"
	"iter"
)

// Aligner iterates over the reference points while taking the closest
// timestamp from a secondary sequence.
//
// An Aligner is single-use: it cannot be rewound. Construct a new one
// to iterate again.
type Aligner struct {
	reference *referencePoints
	scanner   *nearestScanner
	refLen    int
	err       error
}

// NewAligner returns an Aligner over the given sorted sequences.
//
// The configuration is validated immediately, even if the reference
// sequence is empty. Data errors are reported by Next.
func NewAligner(
	reference []Timestamp,
	secondary []Timestamp,
	cfg Config,
) (*Aligner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aligner{
		reference: newReferencePoints(reference, cfg),
		scanner:   newNearestScanner(secondary),
		refLen:    len(reference),
	}, nil
}

// Next returns the next aligned pair, or io.EOF when the reference points are over.
func (a *Aligner) Next() (Pair, error) {
	if a.err != nil {
		return Pair{}, a.err
	}

	m, ok := a.reference.next()
	if !ok {
		a.err = io.EOF
		return Pair{}, a.err
	}

	s, ok := a.scanner.nearest(m)
	if !ok {
		a.err = &EmptySecondaryError{ReferenceLength: a.refLen}
		return Pair{}, a.err
	}

	return Pair{Reference: m, Secondary: s}, nil
}

// All iterates over the remaining pairs. The iteration stops after the first error.
func (a *Aligner) All() iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		for {
			pair, err := a.Next()
			if err == io.EOF {
				return
			}
			if !yield(pair, err) || err != nil {
				return
			}
		}
	}
}

// Align returns all the pairs at once.
//
// For example, aligning reference [1 2 7 8 9 15 20] against
// secondary [0 1 4 6 9 10] gives
// (1,1) (2,1) (7,6) (8,9) (9,9) (15,10) (20,10).
func Align(
	reference []Timestamp,
	secondary []Timestamp,
	cfg Config,
) ([]Pair, error) {
	a, err := NewAligner(reference, secondary, cfg)
	if err != nil {
		return nil, err
	}

	result := make([]Pair, 0, len(reference))
	for pair, err := range a.All() {
		if err != nil {
			return nil, err
		}
		result = append(result, pair)
	}
	return result, nil
}
