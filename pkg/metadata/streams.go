package metadata

import (
	"path/filepath"
)

// Stream is a kind of a recorded stream.
type Stream int

const (
	StreamUndefined = Stream(iota)
	StreamRGB
	StreamDepth
	StreamTouch
)

func (s Stream) String() string {
	switch s {
	case StreamUndefined:
		return "<undefined>"
	case StreamRGB:
		return "rgb"
	case StreamDepth:
		return "depth"
	case StreamTouch:
		return "touch"
	default:
		return "<unknown>"
	}
}

// MetaRelPath returns the path of the stream's metadata file relative to the dataset root.
func (s Stream) MetaRelPath() string {
	switch s {
	case StreamRGB:
		return filepath.Join("rgb", "per_frame_timestamps.txt")
	case StreamDepth:
		return filepath.Join("depth", "per_frame_timestamps.txt")
	case StreamTouch:
		return filepath.Join("touch", "per_observation_timestamps.txt")
	default:
		return ""
	}
}
