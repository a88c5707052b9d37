package checkpointer

import (
	"fmt"
	"time"
)

// timeLayout sorts lexically in time order
const timeLayout = "20060102T150405.000000000"

// FileTimer returns a function which names checkpoint files by the UTC
// time at which they are taken, as filename-<time><extension>. The
// clock is read on every call; a nil clock uses time.Now.
func FileTimer(filename, extension string, clock func() time.Time) func() string {
	if clock == nil {
		clock = time.Now
	}
	return func() string {
		return fmt.Sprintf("%v-%v%v", filename,
			clock().UTC().Format(timeLayout), extension)
	}
}
