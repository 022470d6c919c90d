package dataset

import (
	"context"
	"fmt"
	"image"
	"iter"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/sensorsync/pkg/metadata"
	"github.com/xaionaro-go/sensorsync/pkg/payload"
	"github.com/xaionaro-go/sensorsync/pkg/timesync"
)

// Timestamps is a set of synchronized timestamps.
type Timestamps struct {
	Touch timesync.Timestamp
	RGB   timesync.Timestamp
	Depth timesync.Timestamp
}

type DataItem struct {
	Timestamps Timestamps

	// Touch is empty if there is no observation exactly at Timestamps.Touch
	// (which is the case for timestamps synthesized in linearize mode).
	Touch payload.Observation
	RGB   image.Image
	Depth image.Image
}

// Tuples iterates over the synchronized timestamps without loading any payloads.
func (d *Dataset) Tuples(ctx context.Context) iter.Seq2[Timestamps, error] {
	return func(yield func(Timestamps, error) bool) {
		s, err := timesync.NewSynchronizer(
			d.touchMeta.Timestamps(),
			[][]timesync.Timestamp{
				d.rgbMeta.Timestamps(),
				d.depthMeta.Timestamps(),
			},
			d.config,
		)
		if err != nil {
			yield(Timestamps{}, err)
			return
		}

		for tuple, err := range s.All() {
			if err == nil {
				err = ctx.Err()
			}
			if err != nil {
				yield(Timestamps{}, fmt.Errorf("unable to synchronize the streams of `%s`: %w", d.root, err))
				return
			}
			if !yield(Timestamps{
				Touch: tuple.Reference,
				RGB:   tuple.Secondaries[0],
				Depth: tuple.Secondaries[1],
			}, nil) {
				return
			}
		}
	}
}

// Samples iterates over the synchronized samples with payloads loaded.
func (d *Dataset) Samples(ctx context.Context) iter.Seq2[DataItem, error] {
	return func(yield func(DataItem, error) bool) {
		for ts, err := range d.Tuples(ctx) {
			if err != nil {
				yield(DataItem{}, err)
				return
			}
			item, err := d.load(ctx, ts)
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

func (d *Dataset) load(ctx context.Context, ts Timestamps) (DataItem, error) {
	logger.Debugf(ctx, "loading touch ms %d, rgb ms %d, depth ms %d", ts.Touch, ts.RGB, ts.Depth)
	item := DataItem{Timestamps: ts}

	if id, ok := d.touchMeta.Lookup(ts.Touch); ok {
		obs, err := d.touchLoader.Load(ctx, payload.ObservationMeta{
			ID:      id,
			MS:      ts.Touch,
			BaseDir: d.streamDir(metadata.StreamTouch),
		})
		if err != nil {
			return DataItem{}, err
		}
		item.Touch = obs
	}

	rgbID, ok := d.rgbMeta.Lookup(ts.RGB)
	if !ok {
		return DataItem{}, fmt.Errorf("internal error: rgb timestamp %d is not in the metadata", ts.RGB)
	}
	rgb, err := d.rgbLoader.Load(ctx, payload.RGBFrameMeta{
		ID:        rgbID,
		MS:        ts.RGB,
		VideoPath: d.videoPath(),
	})
	if err != nil {
		return DataItem{}, err
	}
	item.RGB = rgb

	depthID, ok := d.depthMeta.Lookup(ts.Depth)
	if !ok {
		return DataItem{}, fmt.Errorf("internal error: depth timestamp %d is not in the metadata", ts.Depth)
	}
	depth, err := d.depthLoader.Load(ctx, payload.DepthFrameMeta{
		ID:      depthID,
		MS:      ts.Depth,
		BaseDir: d.streamDir(metadata.StreamDepth),
	})
	if err != nil {
		return DataItem{}, err
	}
	item.Depth = depth

	return item, nil
}

func (d *Dataset) streamDir(stream metadata.Stream) string {
	return filepath.Join(d.root, filepath.Dir(stream.MetaRelPath()))
}
