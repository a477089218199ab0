package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kardolus/deskpilot/internal/llmjson"
)

const (
	appOpenWait      = 2 * time.Second
	searchSubmitWait = time.Second
	searchCloseWait  = 500 * time.Millisecond
	maxCommandOutput = 2000
)

// ErrNotExecutable is reported for actions the control loop handles itself.
var ErrNotExecutable = errors.New("action is not executable")

// Outcome reports whether an action ran. Err carries the cause of a failure.
type Outcome struct {
	Success bool
	Output  string
	Err     error
}

type Executor interface {
	Execute(ctx context.Context, action Action) Outcome
}

type DefaultExecutor struct {
	auto           Automation
	observer       ScreenObserver
	shell          Shell
	clock          Clock
	commandTimeout time.Duration
	workDir        string
	log            *zap.SugaredLogger
}

type ExecutorOption func(*DefaultExecutor)

func WithCommandTimeout(d time.Duration) ExecutorOption {
	return func(e *DefaultExecutor) {
		if d > 0 {
			e.commandTimeout = d
		}
	}
}

func WithExecutorWorkDir(dir string) ExecutorOption {
	return func(e *DefaultExecutor) { e.workDir = strings.TrimSpace(dir) }
}

func WithExecutorLogger(l *zap.SugaredLogger) ExecutorOption {
	return func(e *DefaultExecutor) {
		if l != nil {
			e.log = l
		}
	}
}

func NewDefaultExecutor(auto Automation, observer ScreenObserver, shell Shell, clock Clock, opts ...ExecutorOption) *DefaultExecutor {
	e := &DefaultExecutor{
		auto:           auto,
		observer:       observer,
		shell:          shell,
		clock:          clock,
		commandTimeout: 30 * time.Second,
		log:            zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Execute performs a single action. It never panics and never returns an
// error directly; failures are reported through the Outcome.
func (e *DefaultExecutor) Execute(ctx context.Context, action Action) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("executor panic: %v", r)}
		}
	}()

	if action == nil {
		return Outcome{Err: ErrNotExecutable}
	}

	e.log.Debugf("executor: %s %v", action.Kind(), action.Params())

	err := e.execute(ctx, action, &out)
	if err != nil {
		e.log.Debugf("executor: %s failed: %v", action.Kind(), err)
		return Outcome{Output: out.Output, Err: err}
	}
	out.Success = true
	return out
}

func (e *DefaultExecutor) execute(ctx context.Context, action Action, out *Outcome) error {
	switch a := action.(type) {
	case ClickOnText:
		return e.click(ctx, a.Text)
	case DoubleClick:
		return e.auto.DoubleClickText(ctx, a.Text)
	case RightClick:
		return e.auto.RightClickText(ctx, a.Text)
	case TypeInApp:
		return e.auto.TypeText(ctx, a.Text)
	case PressKey:
		return e.auto.PressKey(ctx, a.Key)
	case NavigateToURL:
		return e.auto.Navigate(ctx, a.URL)
	case OpenApplication:
		return e.openApplication(ctx, a.App, out)
	case CloseApplication:
		return e.auto.CloseApplication(ctx, a.App)
	case ScrollPage:
		return e.auto.Scroll(ctx, a.Direction)
	case SearchInPage:
		return e.auto.SearchInPage(ctx, a.Text)
	case FocusWindow:
		return e.auto.FocusWindow(ctx, a.App)
	case SwitchTab:
		if a.Text != "" {
			return e.auto.ClickText(ctx, a.Text)
		}
		return e.auto.PressKey(ctx, "ctrl+tab")
	case Wait:
		return e.clock.Sleep(ctx, a.Duration)
	case RunCommand:
		return e.runCommand(ctx, a, out)
	case DragAndDrop:
		return e.auto.DragAndDrop(ctx, a.From, a.To)
	case Copy:
		return e.auto.Copy(ctx)
	case Paste:
		return e.auto.Paste(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrNotExecutable, action.Kind())
	}
}

// click falls back to the in-page search when the text is not visible:
// search, confirm, then close the search bar.
func (e *DefaultExecutor) click(ctx context.Context, text string) error {
	err := e.auto.ClickText(ctx, text)
	if err == nil || !errors.Is(err, ErrTargetNotFound) {
		return err
	}

	e.log.Debugf("executor: %q not visible, searching in page", text)

	if err := e.auto.SearchInPage(ctx, text); err != nil {
		return err
	}
	if err := e.clock.Sleep(ctx, searchSubmitWait); err != nil {
		return err
	}
	if err := e.auto.PressKey(ctx, "enter"); err != nil {
		return err
	}
	if err := e.clock.Sleep(ctx, searchCloseWait); err != nil {
		return err
	}
	return e.auto.PressKey(ctx, "escape")
}

func (e *DefaultExecutor) openApplication(ctx context.Context, app string, out *Outcome) error {
	if err := e.auto.OpenApplication(ctx, app); err != nil {
		return err
	}
	if err := e.clock.Sleep(ctx, appOpenWait); err != nil {
		return err
	}

	title, err := e.observer.ActiveWindowTitle(ctx)
	if err != nil {
		e.log.Debugf("executor: active window unknown after opening %s: %v", app, err)
		return nil
	}
	out.Output = title
	return nil
}

func (e *DefaultExecutor) runCommand(ctx context.Context, a RunCommand, out *Outcome) error {
	if e.shell == nil {
		return fmt.Errorf("%w: no shell configured", ErrNotExecutable)
	}

	ctx, cancel := context.WithTimeout(ctx, e.commandTimeout)
	defer cancel()

	res, err := e.shell.Run(ctx, e.workDir, a.Command, a.Args...)
	if err != nil {
		return err
	}

	out.Output = llmjson.Truncate(res.Combined(), maxCommandOutput)
	if res.ExitCode != 0 {
		return fmt.Errorf("command exited with code %d", res.ExitCode)
	}
	return nil
}
