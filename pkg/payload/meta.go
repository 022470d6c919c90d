package payload

import (
	"fmt"
	"path/filepath"

	"github.com/xaionaro-go/sensorsync/pkg/metadata"
	"github.com/xaionaro-go/sensorsync/pkg/timesync"
)

// VideoFileName is the name of the RGB video file, placed next to the RGB metadata file.
const VideoFileName = "video.mp4"

type RGBFrameMeta struct {
	ID        metadata.ID
	MS        timesync.Timestamp
	VideoPath string
}

type DepthFrameMeta struct {
	ID      metadata.ID
	MS      timesync.Timestamp
	BaseDir string
}

func (m DepthFrameMeta) FilePath() string {
	return filepath.Join(m.BaseDir, fmt.Sprintf("frame-%06d.png", m.ID))
}

type ObservationMeta struct {
	ID      metadata.ID
	MS      timesync.Timestamp
	BaseDir string
}

func (m ObservationMeta) FilePath() string {
	return filepath.Join(m.BaseDir, fmt.Sprintf("observation-%06d.txt", m.ID))
}
