package video

import (
	"context"
	"fmt"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/sensorsync/pkg/metadata"
)

var (
	lastSuccessfulOpener       Opener
	lastSuccessfulOpenerLocker sync.Mutex
)

func getLastSuccessfulOpener() Opener {
	lastSuccessfulOpenerLocker.Lock()
	defer lastSuccessfulOpenerLocker.Unlock()
	return lastSuccessfulOpener
}

// AutoOpener tries the registered openers (the one which succeeded
// the last time goes first) until one of them opens the video.
type AutoOpener struct{}

var _ Opener = AutoOpener{}

func (AutoOpener) OpenVideo(
	ctx context.Context,
	path string,
	frames *metadata.Table,
) (Video, error) {
	if opener := getLastSuccessfulOpener(); opener != nil {
		v, err := opener.OpenVideo(ctx, path, frames)
		if err == nil {
			return v, nil
		}
		logger.Debugf(ctx, "the last successful video opener %T failed: %v", opener, err)
	}

	openers := Openers()
	if len(openers) == 0 {
		return nil, fmt.Errorf("no video openers are registered")
	}

	var mErr *multierror.Error
	for _, opener := range openers {
		v, err := opener.OpenVideo(ctx, path, frames)
		logger.Debugf(ctx, "opening video `%s` with %T result is %v", path, opener, err)
		if err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to open with %T: %w", opener, err))
			continue
		}

		lastSuccessfulOpenerLocker.Lock()
		defer lastSuccessfulOpenerLocker.Unlock()
		lastSuccessfulOpener = opener
		return v, nil
	}
	return nil, mErr.ErrorOrNil()
}
