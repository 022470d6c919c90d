package payload

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
)

type DepthLoader struct {
	cache *cache[DepthFrameMeta, image.Image]
}

func NewDepthLoader(cacheSize int) (*DepthLoader, error) {
	l := &DepthLoader{}
	c, err := newCache("depth frame", cacheSize, l.load)
	if err != nil {
		return nil, err
	}
	l.cache = c
	return l, nil
}

// Load returns the decoded depth image.
func (l *DepthLoader) Load(ctx context.Context, frame DepthFrameMeta) (image.Image, error) {
	return l.cache.Get(ctx, frame)
}

func (l *DepthLoader) load(_ context.Context, frame DepthFrameMeta) (image.Image, error) {
	path := frame.FilePath()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not load depth frame file `%s`: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not load depth frame file `%s`: %w", path, err)
	}
	return img, nil
}
