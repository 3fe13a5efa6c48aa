package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

// ErrInvariantViolated is returned when re-validation fails after the
// convergence loop claims completion. This indicates an algorithmic bug or
// an unmodeled external state change mid-run and is never silently ignored.
var ErrInvariantViolated = errors.New("layout invariant violated")

// Manager is the narrow view of the external window manager the engine
// needs. *yabai.Client satisfies it.
type Manager interface {
	Windows() ([]yabai.Window, error)
	Window(id int) (yabai.Window, error)
	ToggleSplit(id int) error
	Warp(id, ontoID int) error
	FocusWindow(id int) error
}

// Store persists the expected master-window count per space.
type Store interface {
	SetNumMasterWindows(spaceID, count int) error
}

// Rebalancer converges the live window arrangement toward a target master
// count by issuing warp and split-toggle commands. Every mutating command
// invalidates the previous snapshot, so each step re-queries before
// deciding the next.
type Rebalancer struct {
	mgr    Manager
	store  Store
	logger *slog.Logger
}

// NewRebalancer creates a rebalancer over the given manager and state store.
func NewRebalancer(mgr Manager, store Store, logger *slog.Logger) *Rebalancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebalancer{mgr: mgr, store: store, logger: logger}
}

// EffectiveTarget bounds a requested master count to what an arrangement of
// windowCount windows can satisfy: at least one master and at least one
// stack window. Below two windows there is nothing to arrange and the
// request passes through untouched.
func EffectiveTarget(requested, windowCount int) int {
	if windowCount < 2 {
		return requested
	}
	target := requested
	if limit := windowCount - 1; target > limit {
		target = limit
	}
	if target < 1 {
		target = 1
	}
	return target
}

// Update runs one convergence pass toward the requested master count on the
// given space. Convergence runs against EffectiveTarget, but the requested
// count is what gets persisted: a space that is momentarily too small never
// rewrites the stored preference with a clamped value. It is idempotent: an
// already-valid arrangement issues no commands. Below two windows the count
// is recorded and nothing moves; a failed re-validation surfaces
// ErrInvariantViolated without persisting.
func (r *Rebalancer) Update(spaceID, requested int) error {
	windows, err := r.mgr.Windows()
	if err != nil {
		return err
	}
	if len(windows) < 2 {
		r.logger.Debug("fewer than two windows, recording count only", "requested", requested)
		return r.persist(spaceID, requested)
	}

	targetMasters := EffectiveTarget(requested, len(windows))

	if ok, _ := Validate(windows, targetMasters); ok {
		r.logger.Debug("layout already valid", "target", targetMasters)
		return r.persist(spaceID, requested)
	}

	if err := r.ensureStackExists(windows, targetMasters); err != nil {
		return err
	}
	if err := r.evictExcessMasters(targetMasters); err != nil {
		return err
	}
	if err := r.resolveMiddleWindows(targetMasters); err != nil {
		return err
	}
	if err := r.fillMastersFromStack(targetMasters); err != nil {
		return err
	}

	windows, err = r.mgr.Windows()
	if err != nil {
		return err
	}
	if ok, reason := Validate(windows, targetMasters); !ok {
		return fmt.Errorf("%w after rebalancing: %s", ErrInvariantViolated, reason)
	}

	r.logger.Info("layout rebalanced", "target", targetMasters)
	return r.persist(spaceID, requested)
}

func (r *Rebalancer) persist(spaceID, count int) error {
	if err := r.store.SetNumMasterWindows(spaceID, count); err != nil {
		return fmt.Errorf("failed to persist master count: %w", err)
	}
	return nil
}

// ensureStackExists forces a stack region into existence when no vertical
// divide exists at all: the top-right window is split off vertically, every
// other window is warped into the top-left window's container, and the
// resulting stack is columnized.
func (r *Rebalancer) ensureStackExists(windows []yabai.Window, targetMasters int) error {
	topRight, ok := TopRightWindow(windows)
	if !ok || topRight.Frame.X != 0 || targetMasters >= len(windows) {
		return nil
	}

	r.logger.Info("no stack region found, creating one", "window", topRight.Name())
	if topRight.SplitType == yabai.SplitHorizontal {
		if err := r.mgr.ToggleSplit(topRight.ID); err != nil {
			return err
		}
	}

	windows, err := r.mgr.Windows()
	if err != nil {
		return err
	}
	topLeft, ok := TopLeftWindow(windows)
	if !ok {
		return fmt.Errorf("%w: no top-left window while creating stack", yabai.ErrWindowNotFound)
	}
	for _, w := range windows {
		if w.ID == topLeft.ID || w.ID == topRight.ID {
			continue
		}
		if err := r.mgr.Warp(w.ID, topLeft.ID); err != nil {
			return err
		}
	}

	return r.columnizeStack(targetMasters)
}

// columnizeStack normalizes every stack window's split orientation to
// horizontal, re-querying after each toggle.
func (r *Rebalancer) columnizeStack(targetMasters int) error {
	for {
		windows, err := r.mgr.Windows()
		if err != nil {
			return err
		}
		line := DividingLine(windows, targetMasters)

		toggled := false
		for _, w := range windows {
			if !IsStackWindow(w) || IsMasterWindow(w, line) {
				continue
			}
			if w.SplitType == yabai.SplitVertical {
				if err := r.mgr.ToggleSplit(w.ID); err != nil {
					return err
				}
				toggled = true
				break
			}
		}
		if !toggled {
			return nil
		}
	}
}

// evictExcessMasters moves bottom-most (then right-most) master windows to
// the stack until the master count matches the target. Only relevant above
// two windows; smaller arrangements are corrected by the stack-creation
// step alone.
func (r *Rebalancer) evictExcessMasters(targetMasters int) error {
	windows, err := r.mgr.Windows()
	if err != nil {
		return err
	}
	if len(windows) <= 2 {
		return nil
	}

	line := DividingLine(windows, targetMasters)
	masters := MasterWindows(windows, line)
	count := len(masters)
	if count <= targetMasters {
		return nil
	}

	sort.SliceStable(masters, func(i, j int) bool {
		if masters[i].Frame.Y != masters[j].Frame.Y {
			return masters[i].Frame.Y < masters[j].Frame.Y
		}
		return masters[i].Frame.X < masters[j].Frame.X
	})

	for count > targetMasters {
		w := masters[len(masters)-1]
		masters = masters[:len(masters)-1]
		r.logger.Debug("moving excess master window to stack", "window", w.Name())
		if err := r.moveToStack(w, targetMasters); err != nil {
			return err
		}
		count--
	}
	return nil
}

// resolveMiddleWindows eliminates classification drift: each middle window
// is moved into the master region while the master count is below target,
// and into the stack otherwise.
func (r *Rebalancer) resolveMiddleWindows(targetMasters int) error {
	// The convergence property bounds the loop at one move per window; more
	// iterations than that means external state changed mid-run.
	windows, err := r.mgr.Windows()
	if err != nil {
		return err
	}
	maxSteps := len(windows) + 1

	for step := 0; ; step++ {
		if step >= maxSteps {
			return fmt.Errorf("%w: middle windows persist after %d moves", ErrInvariantViolated, step)
		}

		windows, err := r.mgr.Windows()
		if err != nil {
			return err
		}
		line := DividingLine(windows, targetMasters)
		middles := MiddleWindows(windows, line)
		if len(middles) == 0 {
			return nil
		}

		mw := middles[0]
		if len(MasterWindows(windows, line)) < targetMasters {
			r.logger.Debug("moving middle window to master", "window", mw.Name())
			if err := r.moveToMaster(mw, targetMasters); err != nil {
				return err
			}
		} else {
			r.logger.Debug("moving middle window to stack", "window", mw.Name())
			if err := r.moveToStack(mw, targetMasters); err != nil {
				return err
			}
		}
	}
}

// fillMastersFromStack pulls stack windows into the master region until the
// target count is met.
func (r *Rebalancer) fillMastersFromStack(targetMasters int) error {
	windows, err := r.mgr.Windows()
	if err != nil {
		return err
	}
	line := DividingLine(windows, targetMasters)
	count := len(MasterWindows(windows, line))
	if count >= targetMasters {
		return nil
	}

	stack := StackWindows(windows)
	sort.SliceStable(stack, func(i, j int) bool {
		if stack[i].Frame.X != stack[j].Frame.X {
			return stack[i].Frame.X > stack[j].Frame.X
		}
		return stack[i].Frame.Y > stack[j].Frame.Y
	})

	for count < targetMasters && len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		r.logger.Debug("moving stack window to master", "window", w.Name())
		if err := r.moveToMaster(w, targetMasters); err != nil {
			return err
		}
		count++
	}
	return nil
}

// moveToStack warps w onto the widest stack window, then normalizes the
// moved window's split: horizontal on a two-window screen, vertical
// otherwise.
func (r *Rebalancer) moveToStack(w yabai.Window, targetMasters int) error {
	windows, err := r.mgr.Windows()
	if err != nil {
		return err
	}

	desired := yabai.SplitVertical
	if len(windows) == 2 {
		desired = yabai.SplitHorizontal
	}

	var candidates []yabai.Window
	for _, s := range StackWindows(windows) {
		if s.ID != w.ID {
			candidates = append(candidates, s)
		}
	}
	if anchor, ok := WidestWindow(candidates); ok {
		if err := r.mgr.Warp(w.ID, anchor.ID); err != nil {
			return err
		}
	}
	return r.normalizeSplit(w.ID, desired)
}

// moveToMaster warps w onto the widest master window and fixes the moved
// window's split to horizontal.
func (r *Rebalancer) moveToMaster(w yabai.Window, targetMasters int) error {
	windows, err := r.mgr.Windows()
	if err != nil {
		return err
	}
	line := DividingLine(windows, targetMasters)

	var candidates []yabai.Window
	for _, m := range MasterWindows(windows, line) {
		if m.ID != w.ID {
			candidates = append(candidates, m)
		}
	}
	anchor, ok := WidestWindow(candidates)
	if !ok {
		// No master exists yet; the top-right window anchors the region.
		anchor, ok = TopRightWindow(windows)
		if !ok || anchor.ID == w.ID {
			return nil
		}
	}
	if err := r.mgr.Warp(w.ID, anchor.ID); err != nil {
		return err
	}
	return r.normalizeSplit(w.ID, yabai.SplitHorizontal)
}

// normalizeSplit re-reads a window post-move and toggles its split when it
// does not match the destination region's required orientation.
func (r *Rebalancer) normalizeSplit(id int, desired string) error {
	moved, err := r.mgr.Window(id)
	if err != nil {
		return err
	}
	if moved.SplitType != desired {
		return r.mgr.ToggleSplit(id)
	}
	return nil
}
