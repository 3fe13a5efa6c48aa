// ymsp emulates a dwm-style master-stack layout on top of yabai's binary
// space partitioning. It runs as a short-lived process: yabai signals invoke
// the on-* handlers, and skhd keybindings invoke the focus and master-count
// commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ymsp",
		Short: "Master-stack layout plugin for yabai",
		Long: `ymsp emulates a dwm-style master-stack tiling layout on top of the yabai
window manager. yabai has no native concept of master or stack regions, so
ymsp reclassifies windows from raw geometry on every invocation and repairs
layout drift caused by BSP rebalancing.

Wire the on-* handlers to yabai signals and the remaining commands to skhd:

  yabai -m signal --add event=window_created action='ymsp on-window-created'
  yabai -m signal --add event=window_moved  action='ymsp on-window-moved'`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/ymsp/config.yaml)")

	rootCmd.AddCommand(
		newOnYabaiStartCmd(),
		newOnWindowCreatedCmd(),
		newOnWindowMovedCmd(),
		newFocusDownCmd(),
		newFocusUpCmd(),
		newCloseFocusedCmd(),
		newIncreaseMasterCmd(),
		newDecreaseMasterCmd(),
		newStatusCmd(),
		newMCPCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
