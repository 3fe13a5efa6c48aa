package main

import (
	"github.com/spf13/cobra"
)

func newIncreaseMasterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "increase-master-window-count",
		Short: "Grow the master region by one window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return adjustMasterCount(+1)
		},
	}
}

func newDecreaseMasterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decrease-master-window-count",
		Short: "Shrink the master region by one window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return adjustMasterCount(-1)
		},
	}
}

func adjustMasterCount(delta int) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	space, err := a.client.FocusedSpace()
	if err != nil {
		return err
	}
	current, err := a.store.NumMasterWindows(space.ID)
	if err != nil {
		return err
	}

	requested := current + delta
	if requested < 1 {
		requested = 1
	}
	if requested == current {
		a.logger.Debug("master count unchanged", "count", current)
		return nil
	}
	a.logger.Info("adjusting master count", "from", current, "to", requested)
	return a.rebalanceFocusedSpace(requested)
}
