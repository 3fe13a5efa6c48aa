package layout

import (
	"testing"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

func focusWindows() []yabai.Window {
	return []yabai.Window{
		splitWin(3, 640, 0, 640, yabai.SplitHorizontal), // master
		splitWin(1, 0, 0, 640, yabai.SplitHorizontal),   // stack top
		splitWin(2, 0, 400, 640, yabai.SplitHorizontal), // stack bottom
	}
}

func TestFocusOrder_StackThenMasters(t *testing.T) {
	order := FocusOrder(focusWindows(), 1)
	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("expected %d windows in cycle, got %d", len(want), len(order))
	}
	for i, id := range want {
		if order[i].ID != id {
			t.Fatalf("position %d: expected window %d, got %d", i, id, order[i].ID)
		}
	}
}

func TestFocusNext_WrapsAround(t *testing.T) {
	windows := focusWindows()
	windows[0].HasFocus = true // master (window 3) is last in the cycle
	mgr := &fakeManager{windows: windows}

	if err := FocusNext(mgr, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mgr.focused != 1 {
		t.Fatalf("expected wraparound to window 1, focused %d", mgr.focused)
	}
}

func TestFocusPrev_WrapsAround(t *testing.T) {
	windows := focusWindows()
	windows[1].HasFocus = true // stack top (window 1) is first in the cycle
	mgr := &fakeManager{windows: windows}

	if err := FocusPrev(mgr, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mgr.focused != 3 {
		t.Fatalf("expected wraparound to window 3, focused %d", mgr.focused)
	}
}

func TestFocusNext_SingleWindowIsNoOp(t *testing.T) {
	mgr := &fakeManager{windows: []yabai.Window{splitWin(1, 0, 0, 1280, yabai.SplitHorizontal)}}
	if err := FocusNext(mgr, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mgr.commands) != 0 {
		t.Fatalf("expected no focus commands, got %v", mgr.commands)
	}
}

func TestFocusNext_NoFocusedWindowLandsOnCycleStart(t *testing.T) {
	mgr := &fakeManager{windows: focusWindows()}
	if err := FocusNext(mgr, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mgr.focused != 1 {
		t.Fatalf("expected focus on cycle start (window 1), focused %d", mgr.focused)
	}
}
