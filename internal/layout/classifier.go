// Package layout implements the master-stack classification and rebalancing
// engine. yabai is a binary-space-partitioning manager with no native notion
// of master or stack regions, so every decision here is derived from raw
// window geometry: a dividing line is rediscovered per snapshot, windows are
// classified relative to it, and drift is repaired by issuing warp and
// split-toggle commands until the arrangement matches the target master count.
package layout

import (
	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

// Region is a window's classification relative to the dividing line.
type Region string

const (
	RegionMaster Region = "master"
	RegionStack  Region = "stack"
	// RegionMiddle marks a window floating between the stack edge and the
	// master region. It is the signature of post-BSP-rebalance drift and is
	// always transient: the rebalancer eliminates it before reporting success.
	RegionMiddle Region = "middle"
)

// IsStackWindow reports whether w is pinned to the screen's left edge.
func IsStackWindow(w yabai.Window) bool {
	return w.Frame.X == 0
}

// IsMasterWindow reports whether w sits at or beyond the dividing line.
func IsMasterWindow(w yabai.Window, dividingLineX float64) bool {
	return w.Frame.X >= dividingLineX
}

// IsMiddleWindow reports whether w is neither a stack nor a master window.
func IsMiddleWindow(w yabai.Window, dividingLineX float64) bool {
	return !IsStackWindow(w) && !IsMasterWindow(w, dividingLineX)
}

// Classify assigns w to exactly one region. Master takes precedence over
// stack so that a single full-width window (x == 0, line == 0) counts as
// master rather than stack.
func Classify(w yabai.Window, dividingLineX float64) Region {
	switch {
	case IsMasterWindow(w, dividingLineX):
		return RegionMaster
	case IsStackWindow(w):
		return RegionStack
	default:
		return RegionMiddle
	}
}

// StackWindows filters windows pinned to the left edge, preserving snapshot
// order.
func StackWindows(windows []yabai.Window) []yabai.Window {
	var out []yabai.Window
	for _, w := range windows {
		if IsStackWindow(w) {
			out = append(out, w)
		}
	}
	return out
}

// MasterWindows filters windows at or beyond the dividing line, preserving
// snapshot order.
func MasterWindows(windows []yabai.Window, dividingLineX float64) []yabai.Window {
	var out []yabai.Window
	for _, w := range windows {
		if IsMasterWindow(w, dividingLineX) {
			out = append(out, w)
		}
	}
	return out
}

// MiddleWindows filters windows that classify as neither stack nor master.
func MiddleWindows(windows []yabai.Window, dividingLineX float64) []yabai.Window {
	var out []yabai.Window
	for _, w := range windows {
		if IsMiddleWindow(w, dividingLineX) {
			out = append(out, w)
		}
	}
	return out
}

// TopWindow returns the window with minimal y. Ties go to the first
// encountered. Returns false for an empty subset.
func TopWindow(windows []yabai.Window) (yabai.Window, bool) {
	if len(windows) == 0 {
		return yabai.Window{}, false
	}
	top := windows[0]
	for _, w := range windows[1:] {
		if w.Frame.Y < top.Frame.Y {
			top = w
		}
	}
	return top, true
}

// BottomWindow returns the window with maximal y. Ties go to the first
// encountered. Returns false for an empty subset.
func BottomWindow(windows []yabai.Window) (yabai.Window, bool) {
	if len(windows) == 0 {
		return yabai.Window{}, false
	}
	bottom := windows[0]
	for _, w := range windows[1:] {
		if w.Frame.Y > bottom.Frame.Y {
			bottom = w
		}
	}
	return bottom, true
}

// WidestWindow returns the window with maximal width. Ties go to the first
// encountered. Returns false for an empty subset.
func WidestWindow(windows []yabai.Window) (yabai.Window, bool) {
	if len(windows) == 0 {
		return yabai.Window{}, false
	}
	widest := windows[0]
	for _, w := range windows[1:] {
		if w.Frame.Width > widest.Frame.Width {
			widest = w
		}
	}
	return widest, true
}

// TopLeftWindow returns the window with minimal y among those at the left
// edge. Returns false when no window touches the left edge.
func TopLeftWindow(windows []yabai.Window) (yabai.Window, bool) {
	return TopWindow(StackWindows(windows))
}

// TopRightWindow returns the window with maximal x among those sharing the
// snapshot-wide minimal y.
func TopRightWindow(windows []yabai.Window) (yabai.Window, bool) {
	top, ok := TopWindow(windows)
	if !ok {
		return yabai.Window{}, false
	}
	topRight := top
	for _, w := range windows {
		if w.Frame.Y == top.Frame.Y && w.Frame.X > topRight.Frame.X {
			topRight = w
		}
	}
	return topRight, true
}
