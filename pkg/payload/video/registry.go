package video

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

type registeredOpener struct {
	Priority int
	Type     reflect.Type
	Opener   Opener
}

var (
	openers       []registeredOpener
	openersLocker sync.Mutex
)

func openerType(opener Opener) reflect.Type {
	t := reflect.TypeOf(opener)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// RegisterOpener makes an Opener available to AutoOpener. It is meant to be
// called from the init function of a package under implementations/.
//
// The registered Opener receives the path of the recording's RGB video and
// the recording's RGB metadata table (`rgb/per_frame_timestamps.txt`, which
// maps frame timestamps to frame IDs). The table may be nil when the caller
// has no metadata; an Opener that cannot work without it must return an
// error then, so AutoOpener moves on to the next one.
//
// Openers with a higher priority are tried first; equal priorities keep
// the registration order. Registering a second Opener of the same type
// panics.
func RegisterOpener(
	priority int,
	opener Opener,
) {
	t := openerType(opener)

	openersLocker.Lock()
	defer openersLocker.Unlock()
	for _, r := range openers {
		if r.Type == t {
			panic(fmt.Errorf("a video opener of type %v is already registered", t))
		}
	}
	openers = append(openers, registeredOpener{
		Priority: priority,
		Type:     t,
		Opener:   opener,
	})
}

// Openers returns the registered openers in the order AutoOpener tries
// them. The returned slice is a copy.
func Openers() []Opener {
	openersLocker.Lock()
	sorted := slices.Clone(openers)
	openersLocker.Unlock()

	slices.SortStableFunc(sorted, func(a, b registeredOpener) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	result := make([]Opener, 0, len(sorted))
	for _, r := range sorted {
		result = append(result, r.Opener)
	}
	return result
}
