// Package desktop talks to the local automation helper that reads the screen
// and drives mouse and keyboard on the agent's behalf.
package desktop

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/kardolus/deskpilot/agent"
	"github.com/kardolus/deskpilot/http"
	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/types"
)

const (
	DefaultURL = "http://127.0.0.1:8765"

	opScreenText      = "screen_text"
	opActiveWindow    = "active_window"
	opMinimizeSelf    = "minimize_self"
	opRestoreSelf     = "restore_self"
	opClickText       = "click_text"
	opDoubleClickText = "double_click_text"
	opRightClickText  = "right_click_text"
	opTypeText        = "type_text"
	opPressKey        = "press_key"
	opNavigate        = "navigate"
	opOpenApp         = "open_app"
	opCloseApp        = "close_app"
	opScroll          = "scroll"
	opSearchInPage    = "search_in_page"
	opFocusWindow     = "focus_window"
	opDragAndDrop     = "drag_and_drop"
	opCopy            = "copy"
	opPaste           = "paste"

	errNotFound   = "not_found"
	maxReplyBytes = 4 << 20
)

// BridgeError is an operation the helper received but refused or failed.
type BridgeError struct {
	Op      string
	Message string
}

func (e *BridgeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bridge %s failed", e.Op)
	}
	return fmt.Sprintf("bridge %s: %s", e.Op, e.Message)
}

type reply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Text  string `json:"text"`
}

type Bridge struct {
	caller http.Caller
	base   string
	logger *zap.SugaredLogger
}

var (
	_ agent.Automation     = (*Bridge)(nil)
	_ agent.ScreenObserver = (*Bridge)(nil)
	_ agent.WindowManager  = (*Bridge)(nil)
)

type Option func(*Bridge)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

func New(caller http.Caller, cfg types.BridgeConfig, opts ...Option) *Bridge {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		base = DefaultURL
	}

	b := &Bridge{
		caller: caller,
		base:   base,
		logger: zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Bridge) VisibleText(ctx context.Context) (string, error) {
	return b.call(ctx, opScreenText, nil)
}

func (b *Bridge) ActiveWindowTitle(ctx context.Context) (string, error) {
	return b.call(ctx, opActiveWindow, nil)
}

func (b *Bridge) MinimizeSelf(ctx context.Context) error {
	return b.do(ctx, opMinimizeSelf, nil)
}

func (b *Bridge) RestoreSelf(ctx context.Context) error {
	return b.do(ctx, opRestoreSelf, nil)
}

func (b *Bridge) ClickText(ctx context.Context, text string) error {
	return b.do(ctx, opClickText, map[string]string{"text": text})
}

func (b *Bridge) DoubleClickText(ctx context.Context, text string) error {
	return b.do(ctx, opDoubleClickText, map[string]string{"text": text})
}

func (b *Bridge) RightClickText(ctx context.Context, text string) error {
	return b.do(ctx, opRightClickText, map[string]string{"text": text})
}

func (b *Bridge) TypeText(ctx context.Context, text string) error {
	return b.do(ctx, opTypeText, map[string]string{"text": text})
}

func (b *Bridge) PressKey(ctx context.Context, key string) error {
	return b.do(ctx, opPressKey, map[string]string{"key": key})
}

func (b *Bridge) Navigate(ctx context.Context, url string) error {
	return b.do(ctx, opNavigate, map[string]string{"url": url})
}

func (b *Bridge) OpenApplication(ctx context.Context, name string) error {
	return b.do(ctx, opOpenApp, map[string]string{"name": name})
}

func (b *Bridge) CloseApplication(ctx context.Context, name string) error {
	return b.do(ctx, opCloseApp, map[string]string{"name": name})
}

func (b *Bridge) Scroll(ctx context.Context, direction string) error {
	return b.do(ctx, opScroll, map[string]string{"direction": direction})
}

func (b *Bridge) SearchInPage(ctx context.Context, text string) error {
	return b.do(ctx, opSearchInPage, map[string]string{"text": text})
}

func (b *Bridge) FocusWindow(ctx context.Context, name string) error {
	return b.do(ctx, opFocusWindow, map[string]string{"name": name})
}

func (b *Bridge) DragAndDrop(ctx context.Context, from, to string) error {
	return b.do(ctx, opDragAndDrop, map[string]string{"from": from, "to": to})
}

func (b *Bridge) Copy(ctx context.Context) error {
	return b.do(ctx, opCopy, nil)
}

func (b *Bridge) Paste(ctx context.Context) error {
	return b.do(ctx, opPaste, nil)
}

func (b *Bridge) do(ctx context.Context, op string, payload map[string]string) error {
	_, err := b.call(ctx, op, payload)
	return err
}

// call posts payload to the op endpoint. A not_found reply wraps
// agent.ErrTargetNotFound; any other refusal is a *BridgeError.
func (b *Bridge) call(ctx context.Context, op string, payload map[string]string) (string, error) {
	if payload == nil {
		payload = map[string]string{}
	}
	body, err := llmjson.Marshal(payload)
	if err != nil {
		return "", err
	}

	b.logger.Debugf("bridge: %s %v", op, payload)

	rc, err := b.caller.Post(ctx, b.base+"/v1/"+op, body)
	if err != nil {
		return "", fmt.Errorf("bridge %s: %w", op, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("bridge %s: %w", op, err)
	}

	var r reply
	if err := llmjson.Unmarshal(raw, &r); err != nil {
		return "", fmt.Errorf("bridge %s: decode reply: %w", op, err)
	}

	if !r.OK {
		if r.Error == errNotFound {
			return "", fmt.Errorf("bridge %s %s: %w", op, describe(payload), agent.ErrTargetNotFound)
		}
		return "", &BridgeError{Op: op, Message: r.Error}
	}
	return r.Text, nil
}

func describe(payload map[string]string) string {
	if t, ok := payload["text"]; ok {
		return fmt.Sprintf("%q", t)
	}
	if f, ok := payload["from"]; ok {
		return fmt.Sprintf("%q", f)
	}
	return ""
}
