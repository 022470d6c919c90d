// Package export writes synchronized timestamps out.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/xaionaro-go/sensorsync/pkg/dataset"
)

type Format string

const (
	FormatText = Format("text")
	FormatJSON = Format("json")
)

func (f Format) String() string {
	return string(f)
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	switch Format(s) {
	case FormatText, FormatJSON:
		*f = Format(s)
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be one of [%s %s]", s, FormatText, FormatJSON)
	}
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}

type Writer interface {
	Write(dataset.Timestamps) error
	Flush() error
}

func NewWriter(format Format, w io.Writer) (Writer, error) {
	switch format {
	case FormatText:
		return NewTextWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// TextWriter writes lines "<touch_ms> <rgb_ms> <depth_ms>" preceded by a
// comment header, so the output has the same syntax as metadata files.
type TextWriter struct {
	w             *bufio.Writer
	headerWritten bool
}

var _ Writer = (*TextWriter)(nil)

func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

func (t *TextWriter) Write(ts dataset.Timestamps) error {
	if !t.headerWritten {
		if _, err := fmt.Fprintln(t.w, "; TOUCH_MS RGB_MS DEPTH_MS"); err != nil {
			return fmt.Errorf("unable to write the header: %w", err)
		}
		t.headerWritten = true
	}
	if _, err := fmt.Fprintf(t.w, "%09d %09d %09d\n", ts.Touch, ts.RGB, ts.Depth); err != nil {
		return fmt.Errorf("unable to write %#+v: %w", ts, err)
	}
	return nil
}

func (t *TextWriter) Flush() error {
	return t.w.Flush()
}

type jsonRecord struct {
	Touch uint64 `json:"touch_ms"`
	RGB   uint64 `json:"rgb_ms"`
	Depth uint64 `json:"depth_ms"`
}

// JSONWriter writes one JSON object per line.
type JSONWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

var _ Writer = (*JSONWriter)(nil)

func NewJSONWriter(w io.Writer) *JSONWriter {
	bw := bufio.NewWriter(w)
	return &JSONWriter{
		w:   bw,
		enc: json.NewEncoder(bw),
	}
}

func (j *JSONWriter) Write(ts dataset.Timestamps) error {
	err := j.enc.Encode(jsonRecord{
		Touch: uint64(ts.Touch),
		RGB:   uint64(ts.RGB),
		Depth: uint64(ts.Depth),
	})
	if err != nil {
		return fmt.Errorf("unable to encode %#+v: %w", ts, err)
	}
	return nil
}

func (j *JSONWriter) Flush() error {
	return j.w.Flush()
}
