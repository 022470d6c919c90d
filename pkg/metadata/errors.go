package metadata

import (
	"fmt"
)

// FormatError is returned when a metadata file contains a malformed line.
type FormatError struct {
	Source string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid metadata file `%s`: line %d: %s", e.Source, e.Line, e.Reason)
}
