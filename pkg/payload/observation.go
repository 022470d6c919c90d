package payload

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xaionaro-go/sensorsync/pkg/metadata"
)

// Observation is a single touch sensor reading.
type Observation []int64

type ObservationLoader struct {
	cache *cache[ObservationMeta, Observation]
}

func NewObservationLoader(cacheSize int) (*ObservationLoader, error) {
	c, err := newCache("observation", cacheSize, loadObservation)
	if err != nil {
		return nil, err
	}
	return &ObservationLoader{cache: c}, nil
}

func (l *ObservationLoader) Load(ctx context.Context, obs ObservationMeta) (Observation, error) {
	return l.cache.Get(ctx, obs)
}

func loadObservation(_ context.Context, obs ObservationMeta) (Observation, error) {
	path := obs.FilePath()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not load observation file `%s`: %w", path, err)
	}
	defer f.Close()

	result, err := ParseObservation(f)
	if err != nil {
		return nil, fmt.Errorf("could not load observation file `%s`: %w", path, err)
	}
	return result, nil
}

// ParseObservation parses the content of an observation file: exactly one
// (non-comment) line of whitespace-separated integers.
func ParseObservation(r io.Reader) (Observation, error) {
	lines, err := metadata.ReadLines(r)
	if err != nil {
		return nil, err
	}
	switch {
	case len(lines) == 0:
		return nil, fmt.Errorf("no observations found in file")
	case len(lines) > 1:
		return nil, fmt.Errorf("must be exactly 1 line, found: %d", len(lines))
	}

	fields := strings.Fields(lines[0].Text)
	result := make(Observation, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value %q: %w", lines[0].Number, field, err)
		}
		result = append(result, v)
	}
	return result, nil
}
