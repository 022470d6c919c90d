package timesync

import (
	"errors"
	"fmt"
)

// ErrLinearizeRequiresStep is returned when linearize mode is requested without a step.
var ErrLinearizeRequiresStep = errors.New("option 'linearize' requires 'step' defined")

// EmptySecondaryError is returned when a non-empty reference sequence
// is aligned against an empty secondary sequence.
type EmptySecondaryError struct {
	// SecondaryIndex is the index of the offending sequence in a Synchronizer
	// (always zero for an Aligner).
	SecondaryIndex int

	// ReferenceLength is the amount of timestamps in the reference sequence.
	ReferenceLength int
}

func (e *EmptySecondaryError) Error() string {
	return fmt.Sprintf(
		"got empty secondary sequence #%d with non-empty main sequence (of %d timestamps)",
		e.SecondaryIndex, e.ReferenceLength,
	)
}
