package layout

import (
	"fmt"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

// Validate reports whether the snapshot satisfies the target master count.
// Checks run in order and short-circuit: the master count must match the
// target exactly (too many is as invalid as too few), and no window may
// classify as middle. The reason string is intended for logging only.
func Validate(windows []yabai.Window, targetMasters int) (bool, string) {
	line := DividingLine(windows, targetMasters)

	masters := MasterWindows(windows, line)
	if len(masters) != targetMasters {
		return false, fmt.Sprintf("expected %d master windows, found %d", targetMasters, len(masters))
	}

	for _, w := range windows {
		if IsMiddleWindow(w, line) {
			return false, fmt.Sprintf("middle window present: %s", w.Name())
		}
	}
	return true, ""
}
