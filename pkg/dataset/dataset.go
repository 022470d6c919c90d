// Package dataset assembles synchronized samples out of a multimodal
// recording: touch observations are the reference stream, RGB and depth
// frames are matched to every touch timestamp by the closest timestamp.
//
// The layout of a recording root:
//
//	rgb/per_frame_timestamps.txt
//	rgb/video.mp4
//	depth/per_frame_timestamps.txt
//	depth/frame-000000.png
//	touch/per_observation_timestamps.txt
//	touch/observation-000000.txt
package dataset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/sensorsync/pkg/metadata"
	"github.com/xaionaro-go/sensorsync/pkg/payload"
	"github.com/xaionaro-go/sensorsync/pkg/payload/video"
	"github.com/xaionaro-go/sensorsync/pkg/timesync"
)

type Options struct {
	// Linearize fills the gaps between touch timestamps, see timesync.Config.
	Linearize bool

	// Step between the synthesized touch timestamps. If zero and Linearize
	// is set, it is derived from the frame rate of the RGB video.
	Step timesync.Step

	// VideoOpener defaults to video.AutoOpener (which requires at least one
	// opener implementation to be imported).
	VideoOpener video.Opener

	// Cache sizes default to the payload.Default*CacheSize constants if <= 0.
	RGBFrameCacheSize    int
	DepthFrameCacheSize  int
	ObservationCacheSize int
}

type Dataset struct {
	root   string
	config timesync.Config

	rgbMeta   *metadata.Table
	depthMeta *metadata.Table
	touchMeta *metadata.Table

	rgbLoader   *payload.RGBLoader
	depthLoader *payload.DepthLoader
	touchLoader *payload.ObservationLoader
}

func Open(
	ctx context.Context,
	root string,
	opts Options,
) (_ *Dataset, _err error) {
	logger.Tracef(ctx, "Open(%s, %#+v)", root, opts)
	defer func() { logger.Tracef(ctx, "/Open(%s): %v", root, _err) }()

	if opts.VideoOpener == nil {
		opts.VideoOpener = video.AutoOpener{}
	}
	if opts.RGBFrameCacheSize <= 0 {
		opts.RGBFrameCacheSize = payload.DefaultRGBFrameCacheSize
	}
	if opts.DepthFrameCacheSize <= 0 {
		opts.DepthFrameCacheSize = payload.DefaultDepthFrameCacheSize
	}
	if opts.ObservationCacheSize <= 0 {
		opts.ObservationCacheSize = payload.DefaultObservationCacheSize
	}

	d := &Dataset{
		root: root,
		config: timesync.Config{
			Linearize: opts.Linearize,
			Step:      opts.Step,
		},
	}

	var mErr *multierror.Error
	for _, item := range []struct {
		stream metadata.Stream
		table  **metadata.Table
	}{
		{metadata.StreamRGB, &d.rgbMeta},
		{metadata.StreamDepth, &d.depthMeta},
		{metadata.StreamTouch, &d.touchMeta},
	} {
		table, err := metadata.ReadTableFile(filepath.Join(root, item.stream.MetaRelPath()))
		if err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to read the %s metadata: %w", item.stream, err))
			continue
		}
		logger.Debugf(ctx, "loaded %d %s timestamps", table.Len(), item.stream)
		*item.table = table
	}
	if err := mErr.ErrorOrNil(); err != nil {
		return nil, err
	}

	var err error
	d.rgbLoader, err = payload.NewRGBLoader(opts.VideoOpener, d.rgbMeta, opts.RGBFrameCacheSize)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the rgb frames loader: %w", err)
	}
	d.depthLoader, err = payload.NewDepthLoader(opts.DepthFrameCacheSize)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the depth frames loader: %w", err)
	}
	d.touchLoader, err = payload.NewObservationLoader(opts.ObservationCacheSize)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the observations loader: %w", err)
	}

	if d.config.Linearize && d.config.Step == 0 {
		step, err := d.stepFromVideo(ctx)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("unable to derive the step from the rgb video: %w", err)
		}
		logger.Debugf(ctx, "derived step: %dms", step)
		d.config.Step = step
	}

	if err := d.config.Validate(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Dataset) stepFromVideo(ctx context.Context) (timesync.Step, error) {
	v, err := d.rgbLoader.Video(ctx, d.videoPath())
	if err != nil {
		return 0, err
	}
	fps, err := v.FPS(ctx)
	if err != nil {
		return 0, fmt.Errorf("unable to get the FPS: %w", err)
	}
	step := video.StepFromFPS(fps)
	if step == 0 {
		return 0, fmt.Errorf("the FPS value %v is too high or not positive", fps)
	}
	return step, nil
}

func (d *Dataset) videoPath() string {
	return filepath.Join(d.root, filepath.Dir(metadata.StreamRGB.MetaRelPath()), payload.VideoFileName)
}

// Step returns the step between touch timestamps in linearize mode
// (zero if linearize mode is disabled and no step was given).
func (d *Dataset) Step() timesync.Step {
	return d.config.Step
}

func (d *Dataset) Config() timesync.Config {
	return d.config
}

// Meta returns the metadata table of the given stream.
func (d *Dataset) Meta(stream metadata.Stream) *metadata.Table {
	switch stream {
	case metadata.StreamRGB:
		return d.rgbMeta
	case metadata.StreamDepth:
		return d.depthMeta
	case metadata.StreamTouch:
		return d.touchMeta
	default:
		return nil
	}
}

func (d *Dataset) Close() error {
	return d.rgbLoader.Close()
}
