package yabai

// Split orientations reported by yabai's query protocol. A window whose
// container has never been divided reports SplitNone and is not tileable.
const (
	SplitVertical   = "vertical"
	SplitHorizontal = "horizontal"
	SplitNone       = "none"
)

// Frame is a window's screen-relative geometry. yabai reports coordinates
// as fractional pixels.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Window is one tiled window as reported by `yabai -m query --windows`.
type Window struct {
	ID         int    `json:"id"`
	PID        int    `json:"pid"`
	App        string `json:"app"`
	Title      string `json:"title"`
	Frame      Frame  `json:"frame"`
	SplitType  string `json:"split-type"`
	HasFocus   bool   `json:"has-focus"`
	SpaceIndex int    `json:"space"`
	IsFloating bool   `json:"is-floating"`
}

// Name returns a human-readable identifier for log and error messages.
func (w Window) Name() string {
	if w.Title != "" {
		return w.App + " - " + w.Title
	}
	return w.App
}

// Space is a yabai space; only its identity matters here, as the key for
// the per-space master-count store.
type Space struct {
	ID       int  `json:"id"`
	Index    int  `json:"index"`
	HasFocus bool `json:"has-focus"`
}

// Display is a yabai display.
type Display struct {
	ID       int  `json:"id"`
	Index    int  `json:"index"`
	HasFocus bool `json:"has-focus"`
}
