package layout

import (
	"sort"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

// FocusOrder returns the deterministic focus cycle for a snapshot: stack
// windows top to bottom, then master windows top to bottom, then any
// transient middle windows. Focus commands walk this cycle with wraparound.
func FocusOrder(windows []yabai.Window, targetMasters int) []yabai.Window {
	line := DividingLine(windows, targetMasters)

	byY := func(ws []yabai.Window) []yabai.Window {
		out := append([]yabai.Window(nil), ws...)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Frame.Y < out[j].Frame.Y
		})
		return out
	}

	var stack, masters, middles []yabai.Window
	for _, w := range windows {
		switch Classify(w, line) {
		case RegionMaster:
			masters = append(masters, w)
		case RegionStack:
			stack = append(stack, w)
		default:
			middles = append(middles, w)
		}
	}

	order := byY(stack)
	order = append(order, byY(masters)...)
	order = append(order, byY(middles)...)
	return order
}

// FocusNext moves focus one step forward in the focus cycle, wrapping from
// the last window back to the first. A no-op below two windows.
func FocusNext(mgr Manager, targetMasters int) error {
	return focusStep(mgr, targetMasters, 1)
}

// FocusPrev moves focus one step backward in the focus cycle, wrapping from
// the first window to the last.
func FocusPrev(mgr Manager, targetMasters int) error {
	return focusStep(mgr, targetMasters, -1)
}

func focusStep(mgr Manager, targetMasters, delta int) error {
	windows, err := mgr.Windows()
	if err != nil {
		return err
	}
	if len(windows) < 2 {
		return nil
	}

	focused, err := yabai.FocusedWindow(windows)
	if err != nil {
		// Nothing focused; land on the first window in the cycle.
		order := FocusOrder(windows, targetMasters)
		return mgr.FocusWindow(order[0].ID)
	}

	order := FocusOrder(windows, targetMasters)
	for i, w := range order {
		if w.ID == focused.ID {
			next := order[(i+delta+len(order))%len(order)]
			return mgr.FocusWindow(next.ID)
		}
	}
	return mgr.FocusWindow(order[0].ID)
}
