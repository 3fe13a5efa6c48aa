// Package mcp exposes the layout engine to MCP clients over stdio: querying
// the current classification, adjusting the target master count, and
// triggering a rebalancing pass. Mutating tools take the same cross-process
// lock as the event-driven entry points.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/layout"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/lockfile"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/state"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

const (
	ServerName    = "ymsp"
	ServerVersion = "0.1.0"
)

// Server is the MCP server over the layout engine.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *yabai.Client
	store     *state.Store
	lock      *lockfile.Lock
	logger    *slog.Logger
}

// NewServer creates an MCP server over an assembled client, store, and lock.
func NewServer(client *yabai.Client, store *state.Store, lock *lockfile.Lock, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		client: client,
		store:  store,
		lock:   lock,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio transport, blocking until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "query_layout",
		Description: "Query the focused space's windows with their master/stack/middle classification, the computed dividing line, and whether the layout currently satisfies the target master count.",
	}, s.handleQueryLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_master_count",
		Description: "Set the target number of master windows for the focused space and rebalance toward it. The count is persisted as given; the arrangement itself keeps at least one stack window.",
	}, s.handleSetMasterCount)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "rebalance",
		Description: "Run one rebalancing pass on the focused space toward its stored target master count. Fails when another pass is already running.",
	}, s.handleRebalance)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Move focus to a specific window id.",
	}, s.handleFocusWindow)
}

func (s *Server) handleQueryLayout(_ context.Context, _ *mcpsdk.CallToolRequest, _ QueryLayoutInput) (*mcpsdk.CallToolResult, QueryLayoutOutput, error) {
	space, err := s.client.FocusedSpace()
	if err != nil {
		return nil, QueryLayoutOutput{}, err
	}
	target, err := s.store.NumMasterWindows(space.ID)
	if err != nil {
		return nil, QueryLayoutOutput{}, err
	}
	windows, err := s.client.Windows()
	if err != nil {
		return nil, QueryLayoutOutput{}, err
	}

	line := layout.DividingLine(windows, target)
	valid, reason := layout.Validate(windows, target)

	out := QueryLayoutOutput{
		Space:        space.ID,
		TargetCount:  target,
		DividingLine: line,
		Valid:        valid,
		Reason:       reason,
	}
	for _, w := range windows {
		out.Windows = append(out.Windows, WindowInfo{
			ID:      w.ID,
			App:     w.App,
			Title:   w.Title,
			Frame:   w.Frame,
			Region:  string(layout.Classify(w, line)),
			Focused: w.HasFocus,
		})
	}
	return nil, out, nil
}

func (s *Server) handleSetMasterCount(_ context.Context, _ *mcpsdk.CallToolRequest, args SetMasterCountInput) (*mcpsdk.CallToolResult, SetMasterCountOutput, error) {
	if args.Count < 1 {
		return nil, SetMasterCountOutput{}, fmt.Errorf("count must be at least 1, got %d", args.Count)
	}
	space, target, err := s.rebalanceFocusedSpace(args.Count)
	if err != nil {
		return nil, SetMasterCountOutput{}, err
	}
	return nil, SetMasterCountOutput{Space: space, Count: target}, nil
}

func (s *Server) handleRebalance(_ context.Context, _ *mcpsdk.CallToolRequest, _ RebalanceInput) (*mcpsdk.CallToolResult, RebalanceOutput, error) {
	space, err := s.client.FocusedSpace()
	if err != nil {
		return nil, RebalanceOutput{}, err
	}
	stored, err := s.store.NumMasterWindows(space.ID)
	if err != nil {
		return nil, RebalanceOutput{}, err
	}
	spaceID, target, err := s.rebalanceWith(space, stored)
	if err != nil {
		return nil, RebalanceOutput{}, err
	}
	return nil, RebalanceOutput{Space: spaceID, TargetCount: target}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusWindowInput) (*mcpsdk.CallToolResult, FocusWindowOutput, error) {
	if err := s.client.FocusWindow(args.ID); err != nil {
		return nil, FocusWindowOutput{}, err
	}
	return nil, FocusWindowOutput{ID: args.ID}, nil
}

func (s *Server) rebalanceFocusedSpace(requested int) (spaceID, target int, err error) {
	space, err := s.client.FocusedSpace()
	if err != nil {
		return 0, 0, err
	}
	return s.rebalanceWith(space, requested)
}

func (s *Server) rebalanceWith(space yabai.Space, requested int) (spaceID, target int, err error) {
	windows, err := s.client.Windows()
	if err != nil {
		return 0, 0, err
	}
	target = layout.EffectiveTarget(requested, len(windows))

	rebalancer := layout.NewRebalancer(s.client, s.store, s.logger)
	err = s.lock.WithLock(func() error {
		return rebalancer.Update(space.ID, requested)
	})
	if errors.Is(err, lockfile.ErrAlreadyLocked) {
		return 0, 0, fmt.Errorf("another rebalancing pass is already running")
	}
	if err != nil {
		return 0, 0, err
	}
	return space.ID, target, nil
}
