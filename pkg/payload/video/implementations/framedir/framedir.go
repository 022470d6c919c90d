// Package framedir implements video.Video on top of a directory of
// pre-extracted frames ("frame-000042.png" or "frame-000042.jpg"),
// where the number is the frame ID from the RGB metadata file.
package framedir

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/montanaflynn/stats"
	"github.com/xaionaro-go/sensorsync/pkg/metadata"
	"github.com/xaionaro-go/sensorsync/pkg/payload/video"
	"github.com/xaionaro-go/sensorsync/pkg/timesync"
)

// FramesDirName is the name of the directory with frames, placed next to the video file.
const FramesDirName = "frames"

var frameExtensions = []string{".png", ".jpg", ".jpeg"}

type Video struct {
	dir        string
	timestamps []timesync.Timestamp
	ids        []metadata.ID
	fps        float64
}

var _ video.Video = (*Video)(nil)

type Opener struct{}

var _ video.Opener = Opener{}

func (Opener) OpenVideo(
	ctx context.Context,
	path string,
	frames *metadata.Table,
) (video.Video, error) {
	return Open(ctx, path, frames)
}

func Open(
	ctx context.Context,
	path string,
	frames *metadata.Table,
) (_ *Video, _err error) {
	logger.Tracef(ctx, "Open(%s)", path)
	defer func() { logger.Tracef(ctx, "/Open(%s): %v", path, _err) }()

	if frames == nil || frames.Len() == 0 {
		return nil, fmt.Errorf("could not open video `%s`: no frames in the metadata", path)
	}

	dir := filepath.Join(filepath.Dir(path), FramesDirName)
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("could not open video `%s`: %w", path, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("could not open video `%s`: `%s` is not a directory", path, dir)
	}

	timestamps := frames.Timestamps()
	ids := make([]metadata.ID, 0, len(timestamps))
	for _, ts := range timestamps {
		id, _ := frames.Lookup(ts)
		ids = append(ids, id)
	}

	fps, err := EstimateFPS(timestamps)
	if err != nil {
		return nil, fmt.Errorf("could not open video `%s`: %w", path, err)
	}

	return &Video{
		dir:        dir,
		timestamps: timestamps,
		ids:        ids,
		fps:        fps,
	}, nil
}

// EstimateFPS derives the frame rate from the median interval between frames.
func EstimateFPS(timestamps []timesync.Timestamp) (float64, error) {
	if len(timestamps) < 2 {
		return 0, fmt.Errorf("at least 2 frames are required to estimate the FPS, got %d", len(timestamps))
	}

	intervals := make(stats.Float64Data, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		intervals = append(intervals, float64(timestamps[i]-timestamps[i-1]))
	}
	median, err := stats.Median(intervals)
	if err != nil {
		return 0, fmt.Errorf("unable to calculate the median frame interval: %w", err)
	}
	if median <= 0 {
		return 0, fmt.Errorf("the median frame interval is not positive: %v", median)
	}
	return 1000 / median, nil
}

func (v *Video) Close() error {
	return nil
}

func (v *Video) FPS(
	ctx context.Context,
) (float64, error) {
	return v.fps, nil
}

func (v *Video) FrameSize(
	ctx context.Context,
) (image.Point, error) {
	path, err := v.framePath(v.ids[0])
	if err != nil {
		return image.Point{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, fmt.Errorf("unable to open frame `%s`: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, fmt.Errorf("unable to decode the header of frame `%s`: %w", path, err)
	}
	return image.Point{X: cfg.Width, Y: cfg.Height}, nil
}

func (v *Video) SeekReadFrame(
	ctx context.Context,
	ms timesync.Timestamp,
) (image.Image, error) {
	idx := v.frameIndexAt(ms)
	if idx < 0 {
		return nil, io.EOF
	}

	path, err := v.framePath(v.ids[idx])
	if err != nil {
		return nil, err
	}
	logger.Tracef(ctx, "reading frame %d at %dms from `%s`", v.ids[idx], ms, path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open frame `%s`: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode frame `%s`: %w", path, err)
	}
	return img, nil
}

// frameIndexAt returns the index of the last frame starting at or before ms
// (the first frame for moments before the video start), or -1 if ms is
// after the last frame has ended.
func (v *Video) frameIndexAt(ms timesync.Timestamp) int {
	last := v.timestamps[len(v.timestamps)-1]
	if float64(ms) >= float64(last)+1000/v.fps {
		return -1
	}
	idx := sort.Search(len(v.timestamps), func(i int) bool {
		return v.timestamps[i] > ms
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (v *Video) framePath(id metadata.ID) (string, error) {
	for _, ext := range frameExtensions {
		path := filepath.Join(v.dir, fmt.Sprintf("frame-%06d%s", id, ext))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("frame %d is not found in `%s`", id, v.dir)
}
