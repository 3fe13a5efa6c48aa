package main

import (
	"github.com/spf13/cobra"
)

func newOnYabaiStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "on-yabai-start",
		Short: "Handle yabai (re)start: clear stale locks and rebalance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			// A crash mid-pass leaves the marker behind; manager startup is
			// the one place it is safe to clear unconditionally.
			if err := a.lock.ForceRelease(); err != nil {
				return err
			}
			a.logger.Info("yabai started, rebalancing")
			return rebalanceStored(a)
		},
	}
}

func newOnWindowCreatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "on-window-created",
		Short: "Handle a window-created event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			a.logger.Debug("window created")
			return rebalanceStored(a)
		},
	}
}

func newOnWindowMovedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "on-window-moved",
		Short: "Handle a window-moved event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			a.logger.Debug("window moved")
			return rebalanceStored(a)
		},
	}
}

// rebalanceStored converges the focused space toward its stored target.
func rebalanceStored(a *app) error {
	space, err := a.client.FocusedSpace()
	if err != nil {
		return err
	}
	target, err := a.store.NumMasterWindows(space.ID)
	if err != nil {
		return err
	}
	return a.rebalanceFocusedSpace(target)
}
