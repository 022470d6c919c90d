package metadata

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/xaionaro-go/sensorsync/pkg/timesync"
)

// ID is an identifier of a record (a frame or an observation) within its stream.
type ID uint64

// Table maps the timestamps of a stream to the record identifiers.
type Table struct {
	Source     string
	ids        map[timesync.Timestamp]ID
	timestamps []timesync.Timestamp
}

func newTable(source string) *Table {
	return &Table{
		Source: source,
		ids:    map[timesync.Timestamp]ID{},
	}
}

func (t *Table) set(ts timesync.Timestamp, id ID) {
	if _, ok := t.ids[ts]; !ok {
		t.timestamps = append(t.timestamps, ts)
	}
	t.ids[ts] = id
}

// Len returns the amount of distinct timestamps.
func (t *Table) Len() int {
	return len(t.timestamps)
}

// Timestamps returns the timestamps in ascending order.
func (t *Table) Timestamps() []timesync.Timestamp {
	return slices.Clone(t.timestamps)
}

// Lookup returns the record identifier of the given timestamp.
func (t *Table) Lookup(ts timesync.Timestamp) (ID, bool) {
	id, ok := t.ids[ts]
	return id, ok
}

// ParseTable parses lines of "<timestamp_ms> <id>". If a timestamp is
// repeated, the latest id wins.
func ParseTable(r io.Reader, source string) (*Table, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read metadata file `%s`: %w", source, err)
	}

	table := newTable(source)
	for _, line := range lines {
		ts, id, err := parseLine(line.Text)
		if err != nil {
			return nil, &FormatError{
				Source: source,
				Line:   line.Number,
				Reason: err.Error(),
			}
		}
		table.set(ts, id)
	}
	slices.Sort(table.timestamps)
	return table, nil
}

// ReadTableFile parses the metadata file at the given path.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open metadata file `%s`: %w", path, err)
	}
	defer f.Close()
	return ParseTable(f, path)
}

func parseLine(text string) (timesync.Timestamp, ID, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expect 2 elements, got %d: %q", len(fields), fields)
	}

	ms, err := ParseNonNegative(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("1st element must be a non-negative int, got: %s", fields[0])
	}
	id, err := ParseNonNegative(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("2nd element must be a non-negative int, got: %s", fields[1])
	}
	return timesync.Timestamp(ms), ID(id), nil
}

// ParseNonNegative parses a base-10 non-negative integer, leading zeros are allowed.
func ParseNonNegative(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
