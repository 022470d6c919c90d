// Package timesync aligns timestamp sequences sampled at different rates.
//
// For every point of a reference sequence it picks the closest timestamp
// of each secondary sequence using a single forward scan. Optionally
// ("linearize") the gaps of a sparse reference sequence are filled with
// points spaced by a fixed step, which resamples it onto a near-uniform grid.
package timesync

import (
	"fmt"
)

// Timestamp is a point in time in milliseconds.
type Timestamp uint64

// Step is the spacing (in milliseconds) between reference points
// synthesized in linearize mode. Zero means "not set".
type Step uint64

// Config defines how the reference points are generated.
type Config struct {
	// Linearize enables filling the gaps between reference timestamps
	// with points spaced by Step.
	Linearize bool

	// Step is mandatory if Linearize is set.
	Step Step
}

func (cfg Config) Validate() error {
	if cfg.Linearize && cfg.Step == 0 {
		return ErrLinearizeRequiresStep
	}
	return nil
}

// Pair is a reference point and the closest secondary timestamp to it.
type Pair struct {
	Reference Timestamp
	Secondary Timestamp
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d,%d)", p.Reference, p.Secondary)
}

// Tuple is a reference point and the closest timestamp of each secondary sequence,
// in the order the secondaries were given.
type Tuple struct {
	Reference   Timestamp
	Secondaries []Timestamp
}
