package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/layout"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

type statusWindow struct {
	ID      int         `json:"id"`
	App     string      `json:"app"`
	Title   string      `json:"title"`
	Frame   yabai.Frame `json:"frame"`
	Region  string      `json:"region"`
	Focused bool        `json:"focused"`
}

type statusReport struct {
	Space        int            `json:"space"`
	TargetCount  int            `json:"target_count"`
	DividingLine float64        `json:"dividing_line"`
	Valid        bool           `json:"valid"`
	Reason       string         `json:"reason,omitempty"`
	Windows      []statusWindow `json:"windows"`
}

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the layout of the focused space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			report, err := buildStatus(a)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printStatus(os.Stdout, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}

func buildStatus(a *app) (*statusReport, error) {
	space, err := a.client.FocusedSpace()
	if err != nil {
		return nil, err
	}
	target, err := a.store.NumMasterWindows(space.ID)
	if err != nil {
		return nil, err
	}
	windows, err := a.client.Windows()
	if err != nil {
		return nil, err
	}

	line := layout.DividingLine(windows, target)
	valid, reason := layout.Validate(windows, target)

	report := &statusReport{
		Space:        space.ID,
		TargetCount:  target,
		DividingLine: line,
		Valid:        valid,
		Reason:       reason,
	}
	for _, w := range windows {
		report.Windows = append(report.Windows, statusWindow{
			ID:      w.ID,
			App:     w.App,
			Title:   w.Title,
			Frame:   w.Frame,
			Region:  string(layout.Classify(w, line)),
			Focused: w.HasFocus,
		})
	}
	return report, nil
}

func printStatus(out io.Writer, r *statusReport) {
	header := color.New(color.Bold)
	header.Fprintf(out, "space %d", r.Space)
	fmt.Fprintf(out, "  masters=%d  dividing-line=%.0f  ", r.TargetCount, r.DividingLine)
	if r.Valid {
		color.New(color.FgGreen).Fprintln(out, "valid")
	} else {
		color.New(color.FgRed).Fprintf(out, "invalid: %s\n", r.Reason)
	}

	for _, w := range r.Windows {
		marker := " "
		if w.Focused {
			marker = "*"
		}
		regionColor := color.New(color.FgCyan)
		if w.Region == string(layout.RegionMaster) {
			regionColor = color.New(color.FgYellow)
		} else if w.Region == string(layout.RegionMiddle) {
			regionColor = color.New(color.FgRed)
		}
		fmt.Fprintf(out, "%s %-7d ", marker, w.ID)
		regionColor.Fprintf(out, "%-6s ", w.Region)
		fmt.Fprintf(out, "%4.0f,%-4.0f %4.0fx%-4.0f  %s - %s\n",
			w.Frame.X, w.Frame.Y, w.Frame.Width, w.Frame.Height, w.App, w.Title)
	}
}
