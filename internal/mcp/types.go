package mcp

import "github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"

// QueryLayoutInput is the input for the query_layout tool.
type QueryLayoutInput struct{}

// WindowInfo describes one window and its region classification.
type WindowInfo struct {
	ID      int         `json:"id"`
	App     string      `json:"app"`
	Title   string      `json:"title,omitempty"`
	Frame   yabai.Frame `json:"frame"`
	Region  string      `json:"region"`
	Focused bool        `json:"focused,omitempty"`
}

// QueryLayoutOutput is the output for the query_layout tool.
type QueryLayoutOutput struct {
	Space        int          `json:"space"`
	TargetCount  int          `json:"target_count"`
	DividingLine float64      `json:"dividing_line"`
	Valid        bool         `json:"valid"`
	Reason       string       `json:"reason,omitempty"`
	Windows      []WindowInfo `json:"windows"`
}

// SetMasterCountInput is the input for the set_master_count tool.
type SetMasterCountInput struct {
	Count int `json:"count" jsonschema:"required,Target number of master windows (at least 1)"`
}

// SetMasterCountOutput is the output for the set_master_count tool.
type SetMasterCountOutput struct {
	Space int `json:"space"`
	Count int `json:"count"`
}

// RebalanceInput is the input for the rebalance tool.
type RebalanceInput struct{}

// RebalanceOutput is the output for the rebalance tool.
type RebalanceOutput struct {
	Space       int `json:"space"`
	TargetCount int `json:"target_count"`
}

// FocusWindowInput is the input for the focus_window tool.
type FocusWindowInput struct {
	ID int `json:"id" jsonschema:"required,Window id to focus"`
}

// FocusWindowOutput is the output for the focus_window tool.
type FocusWindowOutput struct {
	ID int `json:"id"`
}
