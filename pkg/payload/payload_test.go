package payload

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/sensorsync/pkg/metadata"
	"github.com/xaionaro-go/sensorsync/pkg/payload/video"
	"github.com/xaionaro-go/sensorsync/pkg/timesync"
)

func writePNG(t *testing.T, path string, w, h int, fill uint16) {
	t.Helper()
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetGray16(x, y, color.Gray16{Y: fill})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestParseObservation(t *testing.T) {
	obs, err := ParseObservation(strings.NewReader("; this is a comment\n1 -2 3 4\n\n"))
	require.NoError(t, err)
	require.Equal(t, Observation{1, -2, 3, 4}, obs)

	for name, tc := range map[string]struct {
		input  string
		errMsg string
	}{
		"empty":               {"", "no observations found in file"},
		"empty_with_comments": {"; comment\n;\n", "no observations found in file"},
		"multiple_lines":      {"1 2\n3 4\n", "must be exactly 1 line, found: 2"},
		"non_int":             {"1 b 3\n", "invalid value \"b\""},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseObservation(strings.NewReader(tc.input))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestObservationLoader(t *testing.T) {
	dir := t.TempDir()
	meta := ObservationMeta{ID: 7, MS: 1000, BaseDir: dir}
	require.Equal(t, filepath.Join(dir, "observation-000007.txt"), meta.FilePath())
	require.NoError(t, os.WriteFile(meta.FilePath(), []byte("10 20 30\n"), 0o644))

	l, err := NewObservationLoader(DefaultObservationCacheSize)
	require.NoError(t, err)

	ctx := context.Background()
	obs, err := l.Load(ctx, meta)
	require.NoError(t, err)
	require.Equal(t, Observation{10, 20, 30}, obs)

	// served from the cache even if the file is gone
	require.NoError(t, os.Remove(meta.FilePath()))
	obs, err = l.Load(ctx, meta)
	require.NoError(t, err)
	require.Equal(t, Observation{10, 20, 30}, obs)

	_, err = l.Load(ctx, ObservationMeta{ID: 8, BaseDir: dir})
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), "observation-000008.txt")
}

func TestDepthLoader(t *testing.T) {
	dir := t.TempDir()
	meta := DepthFrameMeta{ID: 3, MS: 10, BaseDir: dir}
	writePNG(t, meta.FilePath(), 4, 2, 1234)

	l, err := NewDepthLoader(DefaultDepthFrameCacheSize)
	require.NoError(t, err)

	img, err := l.Load(context.Background(), meta)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(1234), r)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-000004.png"), []byte("not a png"), 0o644))
	_, err = l.Load(context.Background(), DepthFrameMeta{ID: 4, BaseDir: dir})
	require.Error(t, err)
	require.Contains(t, err.Error(), "frame-000004.png")
}

func TestCacheEviction(t *testing.T) {
	loads := map[int]int{}
	c, err := newCache("test", 2, func(_ context.Context, k int) (int, error) {
		loads[k]++
		if k < 0 {
			return 0, errors.New("negative")
		}
		return k * 10, nil
	})
	require.NoError(t, err)

	ctx := context.Background()
	for _, k := range []int{1, 2, 1, 3, 1, 2} {
		v, err := c.Get(ctx, k)
		require.NoError(t, err)
		require.Equal(t, k*10, v)
	}
	// 2 was evicted by 3 (1 was used more recently)
	require.Equal(t, map[int]int{1: 1, 2: 2, 3: 1}, loads)
	require.Equal(t, 2, c.Len())

	_, err = c.Get(ctx, -1)
	require.Error(t, err)
	_, err = c.Get(ctx, -1)
	require.Error(t, err)
	require.Equal(t, 2, loads[-1], "errors must not be cached")

	_, err = newCache("test", 0, func(context.Context, int) (int, error) { return 0, nil })
	require.Error(t, err)
}

type fakeVideo struct {
	closeErr error
	reads    []timesync.Timestamp
}

func (v *fakeVideo) Close() error                         { return v.closeErr }
func (v *fakeVideo) FPS(context.Context) (float64, error) { return 30, nil }
func (v *fakeVideo) FrameSize(context.Context) (image.Point, error) {
	return image.Point{X: 1, Y: 1}, nil
}
func (v *fakeVideo) SeekReadFrame(_ context.Context, ms timesync.Timestamp) (image.Image, error) {
	v.reads = append(v.reads, ms)
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

type fakeOpener struct {
	opened map[string]*fakeVideo
}

func (o *fakeOpener) OpenVideo(_ context.Context, path string, _ *metadata.Table) (video.Video, error) {
	if path == "" {
		return nil, errors.New("no path")
	}
	v := &fakeVideo{}
	if strings.HasSuffix(path, "broken.mp4") {
		v.closeErr = errors.New("close failure")
	}
	o.opened[path] = v
	return v, nil
}

func TestRGBLoader(t *testing.T) {
	opener := &fakeOpener{opened: map[string]*fakeVideo{}}
	l, err := NewRGBLoader(opener, nil, DefaultRGBFrameCacheSize)
	require.NoError(t, err)

	ctx := context.Background()
	for _, ms := range []timesync.Timestamp{10, 20, 10} {
		_, err := l.Load(ctx, RGBFrameMeta{ID: 1, MS: ms, VideoPath: "a/video.mp4"})
		require.NoError(t, err)
	}
	_, err = l.Load(ctx, RGBFrameMeta{ID: 1, MS: 10, VideoPath: "b/broken.mp4"})
	require.NoError(t, err)

	require.Len(t, opener.opened, 2, "a video must be opened once")
	require.Equal(t, []timesync.Timestamp{10, 20}, opener.opened["a/video.mp4"].reads)

	_, err = l.Load(ctx, RGBFrameMeta{ID: 1, MS: 10})
	require.Error(t, err)

	err = l.Close()
	require.Error(t, err)
	require.Contains(t, err.Error(), "close failure")
	require.Contains(t, err.Error(), "broken.mp4")

	_, err = NewRGBLoader(nil, nil, 1)
	require.Error(t, err)
}
