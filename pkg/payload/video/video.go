package video

import (
	"context"
	"image"
	"io"

	"github.com/xaionaro-go/sensorsync/pkg/metadata"
	"github.com/xaionaro-go/sensorsync/pkg/timesync"
)

type Video interface {
	io.Closer

	FPS(ctx context.Context) (float64, error)
	FrameSize(ctx context.Context) (image.Point, error)

	// SeekReadFrame returns the frame displayed at the given moment.
	// It returns io.EOF if the moment is after the end of the video.
	SeekReadFrame(ctx context.Context, ms timesync.Timestamp) (image.Image, error)
}

type Opener interface {
	// OpenVideo opens the video at the given path; frames is
	// the RGB metadata table of the same recording.
	OpenVideo(
		ctx context.Context,
		path string,
		frames *metadata.Table,
	) (Video, error)
}

// StepFromFPS returns the interval between frames in milliseconds, truncated.
func StepFromFPS(fps float64) timesync.Step {
	if fps <= 0 {
		return 0
	}
	return timesync.Step(1000 / fps)
}
