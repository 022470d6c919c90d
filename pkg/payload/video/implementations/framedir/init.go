package framedir

import (
	"github.com/xaionaro-go/sensorsync/pkg/payload/video"
)

const (
	Priority = 10
)

func init() {
	video.RegisterOpener(Priority, Opener{})
}
