// Package yabai wraps the yabai window manager's command-line protocol:
// typed JSON queries for windows/spaces/displays and fire-and-forget
// mutation commands (warp, split toggle, focus). Every mutation leaves any
// previously fetched snapshot stale; callers re-query before deciding more.
package yabai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// ErrWindowNotFound is returned when a window id is no longer present in the
// current snapshot (closed between query and use).
var ErrWindowNotFound = errors.New("window not found")

// Client invokes the yabai binary. The zero value is not usable; construct
// with NewClient.
type Client struct {
	binPath string
	logger  *slog.Logger
}

// NewClient creates a client that shells out to the given yabai binary.
// An empty binPath falls back to "yabai" on PATH.
func NewClient(binPath string, logger *slog.Logger) *Client {
	if binPath == "" {
		binPath = "yabai"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{binPath: binPath, logger: logger}
}

// run executes a yabai message command. Stderr is folded into the returned
// error because yabai reports protocol failures there with a non-zero exit.
func (c *Client) run(args ...string) ([]byte, error) {
	cmd := exec.Command(c.binPath, append([]string{"-m"}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("yabai command", "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("yabai -m %s: %s: %w", strings.Join(args, " "), msg, err)
		}
		return nil, fmt.Errorf("yabai -m %s: %w", strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

func (c *Client) query(out any, args ...string) error {
	data, err := c.run(append([]string{"query"}, args...)...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse yabai query output: %w", err)
	}
	return nil
}

// Windows returns the current space's tiled windows in yabai's reporting
// order. Windows with split-type "none" (floating, unmanaged) are filtered
// out; they never participate in classification.
func (c *Client) Windows() ([]Window, error) {
	var all []Window
	if err := c.query(&all, "--windows", "--space"); err != nil {
		return nil, err
	}
	return tileable(all), nil
}

// tileable drops windows the layout never manages: floating windows and
// windows whose container reports no split at all.
func tileable(all []Window) []Window {
	windows := make([]Window, 0, len(all))
	for _, w := range all {
		if w.SplitType == SplitNone || w.IsFloating {
			continue
		}
		windows = append(windows, w)
	}
	return windows
}

// Window re-reads a single window by id from the current space.
func (c *Client) Window(id int) (Window, error) {
	windows, err := c.Windows()
	if err != nil {
		return Window{}, err
	}
	for _, w := range windows {
		if w.ID == id {
			return w, nil
		}
	}
	return Window{}, fmt.Errorf("%w: id %d", ErrWindowNotFound, id)
}

// FocusedWindow returns the focused window from a snapshot, or
// ErrWindowNotFound when no tiled window has focus.
func FocusedWindow(windows []Window) (Window, error) {
	for _, w := range windows {
		if w.HasFocus {
			return w, nil
		}
	}
	return Window{}, fmt.Errorf("%w: no focused window", ErrWindowNotFound)
}

// FocusedSpace returns the space that currently has focus.
func (c *Client) FocusedSpace() (Space, error) {
	var space Space
	if err := c.query(&space, "--spaces", "--space"); err != nil {
		return Space{}, err
	}
	return space, nil
}

// FocusedDisplay returns the display that currently has focus.
func (c *Client) FocusedDisplay() (Display, error) {
	var display Display
	if err := c.query(&display, "--displays", "--display"); err != nil {
		return Display{}, err
	}
	return display, nil
}

// ToggleSplit flips a window's split orientation between horizontal and
// vertical.
func (c *Client) ToggleSplit(id int) error {
	_, err := c.run("window", strconv.Itoa(id), "--toggle", "split")
	return err
}

// Warp moves window id into the container of window ontoID.
func (c *Client) Warp(id, ontoID int) error {
	_, err := c.run("window", strconv.Itoa(id), "--warp", strconv.Itoa(ontoID))
	return err
}

// FocusWindow moves focus to a specific window id.
func (c *Client) FocusWindow(id int) error {
	_, err := c.run("window", "--focus", strconv.Itoa(id))
	return err
}

// FocusDirection moves focus in a cardinal direction (north, south, east,
// west).
func (c *Client) FocusDirection(dir string) error {
	_, err := c.run("window", "--focus", dir)
	return err
}

// CloseWindow closes a window.
func (c *Client) CloseWindow(id int) error {
	_, err := c.run("window", strconv.Itoa(id), "--close")
	return err
}
