package agent

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kardolus/deskpilot/procedure"
)

type ActionKind string

const (
	KindClickOnText      ActionKind = "click_on_text"
	KindDoubleClick      ActionKind = "double_click"
	KindRightClick       ActionKind = "right_click"
	KindTypeInApp        ActionKind = "type_in_app"
	KindPressKey         ActionKind = "press_key"
	KindNavigateToURL    ActionKind = "navigate_to_url"
	KindOpenApplication  ActionKind = "open_application"
	KindCloseApplication ActionKind = "close_application"
	KindScrollPage       ActionKind = "scroll_page"
	KindSearchInPage     ActionKind = "search_in_page"
	KindFocusWindow      ActionKind = "focus_window"
	KindSwitchTab        ActionKind = "switch_tab"
	KindWait             ActionKind = "wait"
	KindAskUser          ActionKind = "ask_user"
	KindReadScreen       ActionKind = "read_screen"
	KindRunCommand       ActionKind = "run_command"
	KindDragAndDrop      ActionKind = "drag_and_drop"
	KindCopy             ActionKind = "copy"
	KindPaste            ActionKind = "paste"
	KindManual           ActionKind = procedure.ActionManual
)

const (
	defaultKey        = "enter"
	defaultDirection  = "down"
	defaultWait       = 2 * time.Second
	maxWait           = 30 * time.Second
	defaultAskMessage = "How should I continue?"
)

// Action is one primitive the executor can perform. The set of
// implementations is closed; use ParseAction to build one from planner output.
type Action interface {
	Kind() ActionKind
	Params() map[string]any
	isAction()
}

type ClickOnText struct{ Text string }
type DoubleClick struct{ Text string }
type RightClick struct{ Text string }
type TypeInApp struct{ Text string }
type PressKey struct{ Key string }
type NavigateToURL struct{ URL string }
type OpenApplication struct{ App string }
type CloseApplication struct{ App string }
type ScrollPage struct{ Direction string }
type SearchInPage struct{ Text string }
type FocusWindow struct{ App string }

// SwitchTab clicks the tab titled Text, or cycles to the next tab when Text
// is empty.
type SwitchTab struct{ Text string }
type Wait struct{ Duration time.Duration }
type AskUser struct{ Question string }
type ReadScreen struct{}
type RunCommand struct {
	Command string
	Args    []string
}
type DragAndDrop struct{ From, To string }
type Copy struct{}
type Paste struct{}

// Manual is a step only a person can do. It exists in stored procedures
// taught by the user and is never executed.
type Manual struct{ Instruction string }

func (ClickOnText) Kind() ActionKind      { return KindClickOnText }
func (DoubleClick) Kind() ActionKind      { return KindDoubleClick }
func (RightClick) Kind() ActionKind       { return KindRightClick }
func (TypeInApp) Kind() ActionKind        { return KindTypeInApp }
func (PressKey) Kind() ActionKind         { return KindPressKey }
func (NavigateToURL) Kind() ActionKind    { return KindNavigateToURL }
func (OpenApplication) Kind() ActionKind  { return KindOpenApplication }
func (CloseApplication) Kind() ActionKind { return KindCloseApplication }
func (ScrollPage) Kind() ActionKind       { return KindScrollPage }
func (SearchInPage) Kind() ActionKind     { return KindSearchInPage }
func (FocusWindow) Kind() ActionKind      { return KindFocusWindow }
func (SwitchTab) Kind() ActionKind        { return KindSwitchTab }
func (Wait) Kind() ActionKind             { return KindWait }
func (AskUser) Kind() ActionKind          { return KindAskUser }
func (ReadScreen) Kind() ActionKind       { return KindReadScreen }
func (RunCommand) Kind() ActionKind       { return KindRunCommand }
func (DragAndDrop) Kind() ActionKind      { return KindDragAndDrop }
func (Copy) Kind() ActionKind             { return KindCopy }
func (Paste) Kind() ActionKind            { return KindPaste }
func (Manual) Kind() ActionKind           { return KindManual }

func (a ClickOnText) Params() map[string]any      { return map[string]any{"text": a.Text} }
func (a DoubleClick) Params() map[string]any      { return map[string]any{"text": a.Text} }
func (a RightClick) Params() map[string]any       { return map[string]any{"text": a.Text} }
func (a TypeInApp) Params() map[string]any        { return map[string]any{"text": a.Text} }
func (a PressKey) Params() map[string]any         { return map[string]any{"key": a.Key} }
func (a NavigateToURL) Params() map[string]any    { return map[string]any{"url": a.URL} }
func (a OpenApplication) Params() map[string]any  { return map[string]any{"app_name": a.App} }
func (a CloseApplication) Params() map[string]any { return map[string]any{"app_name": a.App} }
func (a ScrollPage) Params() map[string]any       { return map[string]any{"direction": a.Direction} }
func (a SearchInPage) Params() map[string]any     { return map[string]any{"text": a.Text} }
func (a FocusWindow) Params() map[string]any      { return map[string]any{"app_name": a.App} }
func (a Wait) Params() map[string]any             { return map[string]any{"seconds": a.Duration.Seconds()} }
func (a AskUser) Params() map[string]any          { return map[string]any{"question": a.Question} }
func (ReadScreen) Params() map[string]any         { return map[string]any{} }
func (Copy) Params() map[string]any               { return map[string]any{} }
func (Paste) Params() map[string]any              { return map[string]any{} }
func (a DragAndDrop) Params() map[string]any      { return map[string]any{"from": a.From, "to": a.To} }
func (a Manual) Params() map[string]any           { return map[string]any{"instruction": a.Instruction} }

func (a SwitchTab) Params() map[string]any {
	if a.Text == "" {
		return map[string]any{}
	}
	return map[string]any{"text": a.Text}
}

func (a RunCommand) Params() map[string]any {
	p := map[string]any{"command": a.Command}
	if len(a.Args) > 0 {
		args := make([]any, len(a.Args))
		for i, s := range a.Args {
			args[i] = s
		}
		p["args"] = args
	}
	return p
}

func (ClickOnText) isAction()      {}
func (DoubleClick) isAction()      {}
func (RightClick) isAction()       {}
func (TypeInApp) isAction()        {}
func (PressKey) isAction()         {}
func (NavigateToURL) isAction()    {}
func (OpenApplication) isAction()  {}
func (CloseApplication) isAction() {}
func (ScrollPage) isAction()       {}
func (SearchInPage) isAction()     {}
func (FocusWindow) isAction()      {}
func (SwitchTab) isAction()        {}
func (Wait) isAction()             {}
func (AskUser) isAction()          {}
func (ReadScreen) isAction()       {}
func (RunCommand) isAction()       {}
func (DragAndDrop) isAction()      {}
func (Copy) isAction()             {}
func (Paste) isAction()            {}
func (Manual) isAction()           {}

type UnknownActionError struct {
	Name string
}

func (e UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %q", e.Name)
}

type InvalidParamsError struct {
	Action ActionKind
	Param  string
	Reason string
}

func (e InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid params for %s: %s %s", e.Action, e.Param, e.Reason)
}

// ParseAction validates a planner or stored step and returns its typed form.
func ParseAction(name string, params map[string]any) (Action, error) {
	kind := ActionKind(strings.ToLower(strings.TrimSpace(name)))
	p := paramReader{kind: kind, params: params}

	switch kind {
	case KindClickOnText:
		t, err := p.required("text")
		return ClickOnText{Text: t}, err
	case KindDoubleClick:
		t, err := p.required("text")
		return DoubleClick{Text: t}, err
	case KindRightClick:
		t, err := p.required("text")
		return RightClick{Text: t}, err
	case KindTypeInApp:
		t, err := p.required("text")
		return TypeInApp{Text: t}, err
	case KindPressKey:
		return PressKey{Key: p.optional(defaultKey, "key")}, nil
	case KindNavigateToURL:
		u, err := p.required("url")
		return NavigateToURL{URL: u}, err
	case KindOpenApplication:
		a, err := p.required("app_name", "app")
		return OpenApplication{App: a}, err
	case KindCloseApplication:
		a, err := p.required("app_name", "app")
		return CloseApplication{App: a}, err
	case KindScrollPage:
		d := strings.ToLower(p.optional(defaultDirection, "direction"))
		switch d {
		case "up", "down", "left", "right":
			return ScrollPage{Direction: d}, nil
		}
		return nil, InvalidParamsError{Action: kind, Param: "direction", Reason: "must be up, down, left or right"}
	case KindSearchInPage:
		t, err := p.required("text")
		return SearchInPage{Text: t}, err
	case KindFocusWindow:
		a, err := p.required("app_name", "app", "title")
		return FocusWindow{App: a}, err
	case KindSwitchTab:
		return SwitchTab{Text: p.optional("", "text")}, nil
	case KindWait:
		d, err := p.seconds("seconds", defaultWait)
		return Wait{Duration: d}, err
	case KindAskUser:
		return AskUser{Question: p.optional(defaultAskMessage, "question")}, nil
	case KindReadScreen:
		return ReadScreen{}, nil
	case KindRunCommand:
		c, err := p.required("command")
		if err != nil {
			return nil, err
		}
		args := p.strings("args")
		if len(args) == 0 {
			fields := strings.Fields(c)
			c, args = fields[0], fields[1:]
		}
		return RunCommand{Command: c, Args: args}, nil
	case KindDragAndDrop:
		from, err := p.required("from")
		if err != nil {
			return nil, err
		}
		to, err := p.required("to")
		return DragAndDrop{From: from, To: to}, err
	case KindCopy:
		return Copy{}, nil
	case KindPaste:
		return Paste{}, nil
	case KindManual:
		i, err := p.required("instruction")
		return Manual{Instruction: i}, err
	default:
		return nil, UnknownActionError{Name: name}
	}
}

// ActionFromStep parses a stored procedure step.
func ActionFromStep(s procedure.Step) (Action, error) {
	return ParseAction(s.Action, s.Params)
}

// StepFromAction is the inverse of ActionFromStep.
func StepFromAction(a Action) procedure.Step {
	return procedure.Step{Action: string(a.Kind()), Params: a.Params()}
}

// Describe renders an action for progress messages.
func Describe(a Action) string {
	switch v := a.(type) {
	case ClickOnText:
		return fmt.Sprintf("clicked %q", v.Text)
	case DoubleClick:
		return fmt.Sprintf("double-clicked %q", v.Text)
	case RightClick:
		return fmt.Sprintf("right-clicked %q", v.Text)
	case TypeInApp:
		return fmt.Sprintf("typed %q", v.Text)
	case PressKey:
		return "pressed " + v.Key
	case NavigateToURL:
		return "opened " + v.URL
	case OpenApplication:
		return "opened " + v.App
	case CloseApplication:
		return "closed " + v.App
	case ScrollPage:
		return "scrolled " + v.Direction
	case SearchInPage:
		return fmt.Sprintf("searched for %q", v.Text)
	case FocusWindow:
		return "switched to " + v.App
	case SwitchTab:
		if v.Text == "" {
			return "switched to the next tab"
		}
		return fmt.Sprintf("switched to tab %q", v.Text)
	case Wait:
		return fmt.Sprintf("waited %s", v.Duration)
	case AskUser:
		return "asked: " + v.Question
	case ReadScreen:
		return "read the screen"
	case RunCommand:
		return "ran " + strings.TrimSpace(v.Command+" "+strings.Join(v.Args, " "))
	case DragAndDrop:
		return fmt.Sprintf("dragged %q onto %q", v.From, v.To)
	case Copy:
		return "copied the selection"
	case Paste:
		return "pasted"
	case Manual:
		return "asked you to: " + v.Instruction
	default:
		return string(a.Kind())
	}
}

type paramReader struct {
	kind   ActionKind
	params map[string]any
}

func (p paramReader) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := p.params[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (p paramReader) optional(def string, keys ...string) string {
	v, ok := p.lookup(keys...)
	if !ok {
		return def
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return def
	}
	return s
}

func (p paramReader) required(keys ...string) (string, error) {
	s := p.optional("", keys...)
	if s == "" {
		return "", InvalidParamsError{Action: p.kind, Param: keys[0], Reason: "is required"}
	}
	return s, nil
}

func (p paramReader) seconds(key string, def time.Duration) (time.Duration, error) {
	v, ok := p.lookup(key)
	if !ok {
		return def, nil
	}

	var secs float64
	switch n := v.(type) {
	case float64:
		secs = n
	case int:
		secs = float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, InvalidParamsError{Action: p.kind, Param: key, Reason: "must be a number"}
		}
		secs = f
	default:
		return 0, InvalidParamsError{Action: p.kind, Param: key, Reason: "must be a number"}
	}

	if secs < 0 {
		return 0, InvalidParamsError{Action: p.kind, Param: key, Reason: "must not be negative"}
	}
	d := time.Duration(secs * float64(time.Second))
	if d > maxWait {
		d = maxWait
	}
	return d, nil
}

func (p paramReader) strings(key string) []string {
	v, ok := p.lookup(key)
	if !ok {
		return nil
	}
	switch xs := v.(type) {
	case []string:
		return xs
	case []any:
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			out = append(out, fmt.Sprint(x))
		}
		return out
	default:
		return nil
	}
}
