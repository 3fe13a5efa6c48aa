package main

import (
	"github.com/spf13/cobra"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/layout"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

func newFocusDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus-down-window",
		Short: "Focus the next window in the stack-then-master cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFocusTarget(layout.FocusNext)
		},
	}
}

func newFocusUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus-up-window",
		Short: "Focus the previous window in the stack-then-master cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFocusTarget(layout.FocusPrev)
		},
	}
}

func withFocusTarget(step func(layout.Manager, int) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	space, err := a.client.FocusedSpace()
	if err != nil {
		return err
	}
	target, err := a.store.NumMasterWindows(space.ID)
	if err != nil {
		return err
	}
	return step(a.client, target)
}

func newCloseFocusedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close-focused-window",
		Short: "Close the focused window and rebalance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			windows, err := a.client.Windows()
			if err != nil {
				return err
			}
			focused, err := yabai.FocusedWindow(windows)
			if err != nil {
				a.logger.Info("no focused window to close")
				return nil
			}
			if err := a.client.CloseWindow(focused.ID); err != nil {
				return err
			}
			return rebalanceStored(a)
		},
	}
}
