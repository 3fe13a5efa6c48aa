package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

const fakeScreenWidth = 1280

// fakeManager simulates just enough of yabai's geometry behavior for the
// convergence loop to observe its own effects: a warp adopts the anchor's
// column, and toggling a full-width left-edge window's split carves it off
// into the right half of the screen.
type fakeManager struct {
	windows  []yabai.Window
	commands []string
	frozen   bool // when set, warps have no geometric effect
	focused  int
}

func (m *fakeManager) Windows() ([]yabai.Window, error) {
	return append([]yabai.Window(nil), m.windows...), nil
}

func (m *fakeManager) Window(id int) (yabai.Window, error) {
	for _, w := range m.windows {
		if w.ID == id {
			return w, nil
		}
	}
	return yabai.Window{}, fmt.Errorf("%w: id %d", yabai.ErrWindowNotFound, id)
}

func (m *fakeManager) find(id int) *yabai.Window {
	for i := range m.windows {
		if m.windows[i].ID == id {
			return &m.windows[i]
		}
	}
	return nil
}

func (m *fakeManager) ToggleSplit(id int) error {
	m.commands = append(m.commands, fmt.Sprintf("toggle %d", id))
	w := m.find(id)
	if w == nil {
		return fmt.Errorf("%w: id %d", yabai.ErrWindowNotFound, id)
	}
	if w.SplitType == yabai.SplitHorizontal && w.Frame.X == 0 && w.Frame.Width == fakeScreenWidth {
		// Splitting a full-width window vertically moves it into the right
		// half of the screen.
		w.Frame.X = fakeScreenWidth / 2
		w.Frame.Width = fakeScreenWidth / 2
		w.SplitType = yabai.SplitVertical
		return nil
	}
	if w.SplitType == yabai.SplitHorizontal {
		w.SplitType = yabai.SplitVertical
	} else {
		w.SplitType = yabai.SplitHorizontal
	}
	return nil
}

func (m *fakeManager) Warp(id, ontoID int) error {
	m.commands = append(m.commands, fmt.Sprintf("warp %d onto %d", id, ontoID))
	if m.frozen {
		return nil
	}
	w := m.find(id)
	anchor := m.find(ontoID)
	if w == nil || anchor == nil {
		return fmt.Errorf("%w: warp %d onto %d", yabai.ErrWindowNotFound, id, ontoID)
	}
	w.Frame.X = anchor.Frame.X
	w.Frame.Width = anchor.Frame.Width
	w.Frame.Y = anchor.Frame.Y + anchor.Frame.Height
	return nil
}

func (m *fakeManager) FocusWindow(id int) error {
	m.commands = append(m.commands, fmt.Sprintf("focus %d", id))
	for i := range m.windows {
		m.windows[i].HasFocus = m.windows[i].ID == id
	}
	m.focused = id
	return nil
}

type fakeStore struct {
	saved map[int]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[int]int)}
}

func (s *fakeStore) SetNumMasterWindows(spaceID, count int) error {
	s.saved[spaceID] = count
	return nil
}

func splitWin(id int, x, y, w float64, split string) yabai.Window {
	win := win(id, x, y, w)
	win.SplitType = split
	return win
}

func TestUpdate_ValidLayoutIssuesNoCommands(t *testing.T) {
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, 640, yabai.SplitHorizontal),
		splitWin(2, 0, 400, 640, yabai.SplitHorizontal),
		splitWin(3, 640, 0, 640, yabai.SplitHorizontal),
		splitWin(4, 640, 400, 640, yabai.SplitHorizontal),
	}}
	store := newFakeStore()
	r := NewRebalancer(mgr, store, nil)

	if err := r.Update(7, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mgr.commands) != 0 {
		t.Fatalf("expected no commands on valid layout, got %v", mgr.commands)
	}
	if store.saved[7] != 2 {
		t.Fatalf("expected persisted master count 2, got %d", store.saved[7])
	}
}

func TestUpdate_Idempotence(t *testing.T) {
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, 640, yabai.SplitHorizontal),
		splitWin(2, 0, 400, 640, yabai.SplitHorizontal),
		splitWin(3, 640, 0, 640, yabai.SplitHorizontal),
	}}
	r := NewRebalancer(mgr, newFakeStore(), nil)

	if err := r.Update(1, 1); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	issued := len(mgr.commands)
	if err := r.Update(1, 1); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if len(mgr.commands) != issued {
		t.Fatalf("second update issued commands: %v", mgr.commands[issued:])
	}
}

func TestUpdate_EvictsExcessMasters(t *testing.T) {
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, 640, yabai.SplitHorizontal),
		splitWin(2, 0, 400, 640, yabai.SplitHorizontal),
		splitWin(3, 640, 0, 640, yabai.SplitHorizontal),
		splitWin(4, 640, 400, 640, yabai.SplitHorizontal),
	}}
	r := NewRebalancer(mgr, newFakeStore(), nil)

	if err := r.Update(1, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	windows, _ := mgr.Windows()
	if ok, reason := Validate(windows, 1); !ok {
		t.Fatalf("layout invalid after rebalance: %s", reason)
	}
	// The bottom-most master (window 4) is the one evicted.
	w4, _ := mgr.Window(4)
	if w4.Frame.X != 0 {
		t.Fatalf("expected window 4 moved to the stack, frame %+v", w4.Frame)
	}
	if len(mgr.commands) > len(mgr.windows) {
		t.Fatalf("expected at most %d commands, got %v", len(mgr.windows), mgr.commands)
	}
}

func TestUpdate_PullsFromStackToMaster(t *testing.T) {
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, 640, yabai.SplitHorizontal),
		splitWin(2, 0, 400, 640, yabai.SplitHorizontal),
		splitWin(3, 640, 0, 640, yabai.SplitHorizontal),
	}}
	r := NewRebalancer(mgr, newFakeStore(), nil)

	if err := r.Update(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	windows, _ := mgr.Windows()
	if ok, reason := Validate(windows, 2); !ok {
		t.Fatalf("layout invalid after rebalance: %s", reason)
	}
}

func TestUpdate_EliminatesMiddleWindow(t *testing.T) {
	// Scenario: a drifted window at x=320 between the stack edge and the
	// master boundary at 640 must end up in master or stack.
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, 640, yabai.SplitHorizontal),
		splitWin(2, 320, 200, 320, yabai.SplitHorizontal),
		splitWin(3, 640, 0, 640, yabai.SplitHorizontal),
	}}
	r := NewRebalancer(mgr, newFakeStore(), nil)

	if err := r.Update(1, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	windows, _ := mgr.Windows()
	line := DividingLine(windows, 1)
	if middles := MiddleWindows(windows, line); len(middles) != 0 {
		t.Fatalf("middle windows remain after rebalance: %+v", middles)
	}
	w2, _ := mgr.Window(2)
	if w2.Frame.X != 0 {
		t.Fatalf("expected drifted window in the stack, frame %+v", w2.Frame)
	}
}

func TestUpdate_CreatesStackWhenNoneExists(t *testing.T) {
	// Three full-width rows: no vertical divide exists anywhere.
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, fakeScreenWidth, yabai.SplitHorizontal),
		splitWin(2, 0, 266, fakeScreenWidth, yabai.SplitHorizontal),
		splitWin(3, 0, 532, fakeScreenWidth, yabai.SplitHorizontal),
	}}
	store := newFakeStore()
	r := NewRebalancer(mgr, store, nil)

	if err := r.Update(3, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	windows, _ := mgr.Windows()
	if ok, reason := Validate(windows, 1); !ok {
		t.Fatalf("layout invalid after stack creation: %s", reason)
	}
	w1, _ := mgr.Window(1)
	if w1.Frame.X == 0 {
		t.Fatalf("expected top-right window carved off the left edge, frame %+v", w1.Frame)
	}
	if store.saved[3] != 1 {
		t.Fatalf("expected persisted master count 1, got %d", store.saved[3])
	}
}

func TestUpdate_InvariantViolationSurfaced(t *testing.T) {
	mgr := &fakeManager{
		frozen: true,
		windows: []yabai.Window{
			splitWin(1, 0, 0, 640, yabai.SplitHorizontal),
			splitWin(2, 320, 200, 320, yabai.SplitHorizontal),
			splitWin(3, 640, 0, 640, yabai.SplitHorizontal),
		},
	}
	store := newFakeStore()
	r := NewRebalancer(mgr, store, nil)

	err := r.Update(1, 1)
	if !errors.Is(err, ErrInvariantViolated) {
		t.Fatalf("expected ErrInvariantViolated, got %v", err)
	}
	if _, ok := store.saved[1]; ok {
		t.Fatal("master count must not be persisted after a failed pass")
	}
}

func TestUpdate_PersistsRequestedCountNotClamp(t *testing.T) {
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, 640, yabai.SplitHorizontal),
		splitWin(2, 0, 400, 640, yabai.SplitHorizontal),
		splitWin(3, 640, 0, 640, yabai.SplitHorizontal),
	}}
	store := newFakeStore()
	r := NewRebalancer(mgr, store, nil)

	// Three windows can hold at most two masters; the surplus request must
	// survive in the store for when the space fills up.
	if err := r.Update(4, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := DividingLine(mgr.windows, EffectiveTarget(9, len(mgr.windows)))
	if got := len(MasterWindows(mgr.windows, line)); got != 2 {
		t.Fatalf("expected convergence to 2 masters, got %d", got)
	}
	if store.saved[4] != 9 {
		t.Fatalf("expected requested count 9 persisted, got %d", store.saved[4])
	}
}

func TestUpdate_SingleWindowRecordsCountOnly(t *testing.T) {
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, fakeScreenWidth, yabai.SplitHorizontal),
	}}
	store := newFakeStore()
	r := NewRebalancer(mgr, store, nil)

	if err := r.Update(2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mgr.commands) != 0 {
		t.Fatalf("expected no commands below two windows, got %v", mgr.commands)
	}
	if store.saved[2] != 3 {
		t.Fatalf("expected requested count 3 persisted, got %d", store.saved[2])
	}
}

func TestEffectiveTarget(t *testing.T) {
	tests := []struct {
		name        string
		requested   int
		windowCount int
		want        int
	}{
		{"within bounds", 2, 4, 2},
		{"clamped to leave a stack window", 5, 3, 2},
		{"floor of one master", 0, 3, 1},
		{"too few windows passes through", 3, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveTarget(tt.requested, tt.windowCount); got != tt.want {
				t.Fatalf("EffectiveTarget(%d, %d) = %d, want %d", tt.requested, tt.windowCount, got, tt.want)
			}
		})
	}
}

func BenchmarkUpdate_AlreadyValid(b *testing.B) {
	mgr := &fakeManager{windows: []yabai.Window{
		splitWin(1, 0, 0, 640, yabai.SplitHorizontal),
		splitWin(2, 0, 400, 640, yabai.SplitHorizontal),
		splitWin(3, 640, 0, 640, yabai.SplitHorizontal),
	}}
	r := NewRebalancer(mgr, newFakeStore(), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := r.Update(1, 1); err != nil {
			b.Fatal(err)
		}
	}
}
