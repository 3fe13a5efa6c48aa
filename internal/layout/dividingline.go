package layout

import (
	"sort"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

// DividingLine computes the x-coordinate separating the stack region from
// the master region. yabai keeps no record of the boundary, so it is
// rediscovered from geometry on every call:
//
//  1. With a single expected master, the top-right window's left edge is the
//     boundary by definition.
//  2. Otherwise, windows off the left edge are scanned right-to-left for an
//     adjacent pair sharing an x-coordinate. Two windows sharing an x is the
//     geometric signature of the vertical cut a BSP split leaves behind.
//  3. Windows already strictly right of the top-right window count toward
//     the expected master total before the scan starts.
//
// When no shared-edge pair exists (all windows side by side) the top-right
// window's x is returned unconditionally. That fallback may under-count the
// master region in degenerate layouts; it matches observed behavior and is
// kept as-is.
func DividingLine(windows []yabai.Window, expectedMasters int) float64 {
	topRight, ok := TopRightWindow(windows)
	if !ok {
		return 0
	}
	if expectedMasters == 1 {
		return topRight.Frame.X
	}

	var nonStack []yabai.Window
	for _, w := range windows {
		if !IsStackWindow(w) {
			nonStack = append(nonStack, w)
		}
	}

	eligible := make([]yabai.Window, 0, len(nonStack))
	for _, w := range nonStack {
		if w.Frame.X <= topRight.Frame.X {
			eligible = append(eligible, w)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Frame.X > eligible[j].Frame.X
	})

	// Windows strictly right of the top-right window are already beyond the
	// boundary.
	beyond := len(nonStack) - len(eligible)
	if beyond >= expectedMasters {
		return topRight.Frame.X
	}

	for i := 0; i+1 < len(eligible); i++ {
		if eligible[i].Frame.X == eligible[i+1].Frame.X && beyond+i+2 >= expectedMasters {
			return eligible[i].Frame.X
		}
	}
	return topRight.Frame.X
}
