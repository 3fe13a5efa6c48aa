package yabai

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubYabai writes a shell script standing in for the yabai binary. Every
// invocation's arguments are appended to a calls file so tests can assert
// the wire protocol.
func stubYabai(t *testing.T, script string) (bin, callsFile string) {
	t.Helper()
	dir := t.TempDir()
	callsFile = filepath.Join(dir, "calls")
	bin = filepath.Join(dir, "yabai")
	full := "#!/bin/sh\necho \"$@\" >> " + callsFile + "\n" + script + "\n"
	if err := os.WriteFile(bin, []byte(full), 0755); err != nil {
		t.Fatal(err)
	}
	return bin, callsFile
}

func recordedCalls(t *testing.T, callsFile string) string {
	t.Helper()
	data, err := os.ReadFile(callsFile)
	if err != nil {
		t.Fatalf("no calls recorded: %v", err)
	}
	return string(data)
}

func TestFocusedDisplay_QueriesFocusedDisplay(t *testing.T) {
	bin, calls := stubYabai(t, `echo '{"id":3,"index":1,"has-focus":true}'`)
	c := NewClient(bin, nil)

	display, err := c.FocusedDisplay()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if display.ID != 3 || !display.HasFocus {
		t.Fatalf("unexpected display: %+v", display)
	}
	if got := recordedCalls(t, calls); !strings.Contains(got, "-m query --displays --display") {
		t.Fatalf("unexpected yabai invocation: %q", got)
	}
}

func TestFocusDirection_SendsFocusCommand(t *testing.T) {
	bin, calls := stubYabai(t, "")
	c := NewClient(bin, nil)

	if err := c.FocusDirection("west"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := recordedCalls(t, calls); !strings.Contains(got, "-m window --focus west") {
		t.Fatalf("unexpected yabai invocation: %q", got)
	}
}

func TestRun_FoldsStderrIntoError(t *testing.T) {
	bin, _ := stubYabai(t, "echo 'could not locate window' >&2; exit 1")
	c := NewClient(bin, nil)

	err := c.FocusWindow(42)
	if err == nil || !strings.Contains(err.Error(), "could not locate window") {
		t.Fatalf("expected stderr folded into error, got %v", err)
	}
}

func TestTileable_FiltersUnmanagedWindows(t *testing.T) {
	all := []Window{
		{ID: 1, SplitType: SplitHorizontal},
		{ID: 2, SplitType: SplitNone},
		{ID: 3, SplitType: SplitVertical, IsFloating: true},
		{ID: 4, SplitType: SplitVertical},
	}
	got := tileable(all)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 4 {
		t.Fatalf("unexpected tileable windows: %+v", got)
	}
}

func TestFocusedWindow(t *testing.T) {
	windows := []Window{
		{ID: 1},
		{ID: 2, HasFocus: true},
	}
	w, err := FocusedWindow(windows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != 2 {
		t.Fatalf("expected window 2, got %d", w.ID)
	}

	_, err = FocusedWindow([]Window{{ID: 1}})
	if !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestWindowName(t *testing.T) {
	w := Window{App: "kitty", Title: "vim"}
	if w.Name() != "kitty - vim" {
		t.Fatalf("unexpected name %q", w.Name())
	}
	w.Title = ""
	if w.Name() != "kitty" {
		t.Fatalf("unexpected name %q", w.Name())
	}
}
