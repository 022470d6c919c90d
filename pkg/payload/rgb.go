package payload

import (
	"context"
	"fmt"
	"image"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/sensorsync/pkg/metadata"
	"github.com/xaionaro-go/sensorsync/pkg/payload/video"
)

type RGBLoader struct {
	opener video.Opener
	frames *metadata.Table
	videos map[string]video.Video
	cache  *cache[RGBFrameMeta, image.Image]
}

func NewRGBLoader(
	opener video.Opener,
	frames *metadata.Table,
	cacheSize int,
) (*RGBLoader, error) {
	if opener == nil {
		return nil, fmt.Errorf("video opener is mandatory")
	}
	l := &RGBLoader{
		opener: opener,
		frames: frames,
		videos: map[string]video.Video{},
	}
	c, err := newCache("rgb frame", cacheSize, l.load)
	if err != nil {
		return nil, err
	}
	l.cache = c
	return l, nil
}

// Video returns the opened video at the path, opening it on first use.
func (l *RGBLoader) Video(
	ctx context.Context,
	path string,
) (video.Video, error) {
	if v, ok := l.videos[path]; ok {
		return v, nil
	}
	logger.Debugf(ctx, "opening video `%s` with %T", path, l.opener)
	v, err := l.opener.OpenVideo(ctx, path, l.frames)
	if err != nil {
		return nil, fmt.Errorf("could not open video file `%s`: %w", path, err)
	}
	l.videos[path] = v
	return v, nil
}

func (l *RGBLoader) Load(ctx context.Context, frame RGBFrameMeta) (image.Image, error) {
	return l.cache.Get(ctx, frame)
}

func (l *RGBLoader) load(ctx context.Context, frame RGBFrameMeta) (image.Image, error) {
	v, err := l.Video(ctx, frame.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("could not load rgb frame file `%s`: %w", frame.VideoPath, err)
	}
	img, err := v.SeekReadFrame(ctx, frame.MS)
	if err != nil {
		return nil, fmt.Errorf("could not load rgb frame at %dms from `%s`: %w", frame.MS, frame.VideoPath, err)
	}
	return img, nil
}

func (l *RGBLoader) Close() error {
	var mErr *multierror.Error
	for path, v := range l.videos {
		if err := v.Close(); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to close video `%s`: %w", path, err))
		}
		delete(l.videos, path)
	}
	return mErr.ErrorOrNil()
}
