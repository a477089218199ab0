package agent

import (
	"context"
	"errors"
)

// ErrTargetNotFound is returned by Automation when the text to act on is not
// visible on screen.
var ErrTargetNotFound = errors.New("target not found on screen")

//go:generate mockgen -destination=automationmocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent Automation
type Automation interface {
	ClickText(ctx context.Context, text string) error
	DoubleClickText(ctx context.Context, text string) error
	RightClickText(ctx context.Context, text string) error
	TypeText(ctx context.Context, text string) error
	PressKey(ctx context.Context, key string) error
	Navigate(ctx context.Context, url string) error
	OpenApplication(ctx context.Context, name string) error
	CloseApplication(ctx context.Context, name string) error
	Scroll(ctx context.Context, direction string) error
	SearchInPage(ctx context.Context, text string) error
	FocusWindow(ctx context.Context, name string) error
	DragAndDrop(ctx context.Context, from, to string) error
	Copy(ctx context.Context) error
	Paste(ctx context.Context) error
}

//go:generate mockgen -destination=observermocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent ScreenObserver
type ScreenObserver interface {
	VisibleText(ctx context.Context) (string, error)
	ActiveWindowTitle(ctx context.Context) (string, error)
}

// WindowManager hides the agent's own window while it works so it does not
// show up in screen captures.
//
//go:generate mockgen -destination=windowmocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent WindowManager
type WindowManager interface {
	MinimizeSelf(ctx context.Context) error
	RestoreSelf(ctx context.Context) error
}
