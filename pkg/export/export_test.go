package export

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/sensorsync/pkg/dataset"
)

var sampleTimestamps = []dataset.Timestamps{
	{Touch: 1, RGB: 1, Depth: 0},
	{Touch: 3, RGB: 4, Depth: 0},
	{Touch: 8, RGB: 9, Depth: 0},
	{Touch: 10, RGB: 10, Depth: 20},
	{Touch: 40, RGB: 45, Depth: 41},
}

func TestWriters(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, format := range []Format{FormatText, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(format, &buf)
			require.NoError(t, err)
			for _, ts := range sampleTimestamps {
				require.NoError(t, w.Write(ts))
			}
			require.NoError(t, w.Flush())
			g.Assert(t, format.String(), buf.Bytes())
		})
	}
}

func TestFormatSet(t *testing.T) {
	var f Format
	require.NoError(t, f.Set("json"))
	require.Equal(t, FormatJSON, f)
	require.Error(t, f.Set("xml"))
	require.Equal(t, FormatJSON, f)

	_, err := NewWriter(Format("xml"), &bytes.Buffer{})
	require.Error(t, err)
}
