package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/types"
)

// CatalogueVersion changes whenever the action names or parameters the
// planner is told about change.
const CatalogueVersion = "2"

type catalogueEntry struct {
	kind   ActionKind
	params string
	use    string
}

var catalogue = []catalogueEntry{
	{KindClickOnText, `{"text": "exact text visible on screen"}`, "click a button, link, tab or menu item"},
	{KindDoubleClick, `{"text": "exact text visible on screen"}`, "open a file or item"},
	{KindRightClick, `{"text": "exact text visible on screen"}`, "open a context menu"},
	{KindTypeInApp, `{"text": "text to type"}`, "type into the focused field"},
	{KindPressKey, `{"key": "enter | tab | escape | ctrl+s | ..."}`, "press a key or shortcut"},
	{KindNavigateToURL, `{"url": "https://..."}`, "open a web address in the browser"},
	{KindOpenApplication, `{"app_name": "chrome | notepad | ..."}`, "start an application"},
	{KindCloseApplication, `{"app_name": "..."}`, "close an application"},
	{KindScrollPage, `{"direction": "up | down | left | right"}`, "scroll the current view"},
	{KindSearchInPage, `{"text": "..."}`, "find text on the current page"},
	{KindFocusWindow, `{"app_name": "window title or application"}`, "bring a window to the front"},
	{KindSwitchTab, `{"text": "optional tab title"}`, "switch browser tab"},
	{KindWait, `{"seconds": 2}`, "wait for something to load"},
	{KindReadScreen, `{}`, "read and report what is on screen"},
	{KindAskUser, `{"question": "..."}`, "ask the user when you truly cannot continue"},
	{KindRunCommand, `{"command": "program", "args": ["..."]}`, "run a local command"},
	{KindDragAndDrop, `{"from": "text", "to": "text"}`, "drag one item onto another"},
	{KindCopy, `{}`, "copy the selection"},
	{KindPaste, `{}`, "paste the clipboard"},
}

// Catalogue renders the action list shown to the reasoning service.
func Catalogue() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Available actions (catalogue v%s):\n", CatalogueVersion)
	for _, e := range catalogue {
		fmt.Fprintf(&b, "- %s %s: %s\n", e.kind, e.params, e.use)
	}
	return b.String()
}

// Plan is the reasoning service's answer for one observation. AlreadyFound,
// Questions and Steps are checked in that order.
type Plan struct {
	Understanding string        `json:"understanding"`
	AlreadyFound  bool          `json:"already_found"`
	FoundResponse string        `json:"found_response"`
	Questions     []string      `json:"questions"`
	Steps         []PlannedStep `json:"plan"`
}

type PlannedStep struct {
	Step        int            `json:"step"`
	Description string         `json:"description"`
	Action      string         `json:"action"`
	Params      map[string]any `json:"params"`
}

type PlanRequest struct {
	Goal   string
	Screen string

	// Context is the caller's conversation and any answer the user gave. It
	// is bounded separately from Progress so the run's own history never
	// pushes it out.
	Context string

	// Progress is what the current run already did and saw.
	Progress string

	// Instructions and Attempted are set when planning from web research.
	Instructions string
	Attempted    []ExecutedStep
}

//go:generate mockgen -destination=reasonermocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent Reasoner
type Reasoner interface {
	Chat(ctx context.Context, messages []types.Message) (string, error)
}

//go:generate mockgen -destination=plannermocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent Planner
type Planner interface {
	Plan(ctx context.Context, req PlanRequest) (Plan, error)
}

type LoggingPlanner struct {
	inner Planner
	log   *zap.SugaredLogger

	// artifacts (overwritten every plan)
	dir            string
	rawPath        string
	normalizedPath string
}

func NewLoggingPlanner(inner Planner, logs *Logs) *LoggingPlanner {
	lp := &LoggingPlanner{
		inner: inner,
		log:   zap.NewNop().Sugar(),
	}

	if logs == nil {
		return lp
	}
	if logs.DebugLogger != nil {
		lp.log = logs.DebugLogger
	}
	if logs.Dir != "" {
		lp.dir = logs.Dir
		lp.rawPath = filepath.Join(logs.Dir, "plan.json")
		lp.normalizedPath = filepath.Join(logs.Dir, "plan.normalized.json")
	}
	return lp
}

func (p *LoggingPlanner) Plan(ctx context.Context, req PlanRequest) (Plan, error) {
	p.log.Debugf("planner: start goal_len=%d screen_len=%d", len(req.Goal), len(req.Screen))

	plan, err := p.inner.Plan(ctx, req)
	if err != nil {
		p.log.Debugf("planner: error=%v", err)
		return Plan{}, err
	}

	p.writeNormalized(plan)

	p.log.Debugf("planner: ok steps=%d questions=%d already_found=%t", len(plan.Steps), len(plan.Questions), plan.AlreadyFound)
	return plan, nil
}

// WriteRaw is meant to be passed to WithPlannerRawSink.
func (p *LoggingPlanner) WriteRaw(raw string) {
	if p.rawPath == "" {
		return
	}
	_ = os.WriteFile(p.rawPath, []byte(raw), 0o644) // best-effort
}

func (p *LoggingPlanner) writeNormalized(plan Plan) {
	if p.normalizedPath == "" {
		return
	}
	b, err := llmjson.MarshalIndent(plan)
	if err != nil {
		p.log.Debugf("planner: failed to marshal normalized plan: %v", err)
		return
	}
	_ = os.WriteFile(p.normalizedPath, b, 0o644) // best-effort
}

type DefaultPlanner struct {
	reasoner      Reasoner
	screenChars   int
	contextChars  int
	progressChars int

	onRaw func(raw string) // optional
}

type PlannerOption func(*DefaultPlanner)

func WithPlannerRawSink(fn func(string)) PlannerOption {
	return func(p *DefaultPlanner) {
		p.onRaw = fn
	}
}

// WithPlannerLimits bounds how much screen text and conversation context is
// sent with each planning request.
func WithPlannerLimits(screenChars, contextChars int) PlannerOption {
	return func(p *DefaultPlanner) {
		if screenChars > 0 {
			p.screenChars = screenChars
		}
		if contextChars > 0 {
			p.contextChars = contextChars
		}
	}
}

// WithPlannerProgressLimit bounds the run history sent with each request.
func WithPlannerProgressLimit(chars int) PlannerOption {
	return func(p *DefaultPlanner) {
		if chars > 0 {
			p.progressChars = chars
		}
	}
}

func NewDefaultPlanner(reasoner Reasoner, opts ...PlannerOption) *DefaultPlanner {
	p := &DefaultPlanner{reasoner: reasoner, screenChars: 3000, contextChars: 1500, progressChars: 4000}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Plan asks the reasoning service for the next steps. Only a failed call is
// an error; an unreadable answer degrades to an empty plan.
func (p *DefaultPlanner) Plan(ctx context.Context, req PlanRequest) (Plan, error) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return Plan{}, fmt.Errorf("missing goal")
	}

	raw, err := p.reasoner.Chat(ctx, p.buildMessages(req))
	if err != nil {
		return Plan{}, err
	}

	if p.onRaw != nil {
		p.onRaw(raw)
	}

	plan, err := llmjson.Decode[Plan](raw)
	if err != nil {
		return Plan{}, nil
	}
	return normalizePlan(plan), nil
}

func (p *DefaultPlanner) buildMessages(req PlanRequest) []types.Message {
	return []types.Message{
		{Role: types.SystemRole, Content: buildPlanningPrompt(req.Instructions != "")},
		{Role: types.UserRole, Content: p.buildRequest(req)},
	}
}

func (p *DefaultPlanner) buildRequest(req PlanRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Goal: %s\n\n", strings.TrimSpace(req.Goal))

	if c := strings.TrimSpace(req.Context); c != "" {
		fmt.Fprintf(&b, "Context:\n%s\n\n", tail(c, p.contextChars))
	}

	if pr := strings.TrimSpace(req.Progress); pr != "" {
		fmt.Fprintf(&b, "This run so far:\n%s\n\n", tail(pr, p.progressChars))
	}

	if req.Instructions != "" {
		fmt.Fprintf(&b, "Instructions found on the web:\n%s\n\n", req.Instructions)
	}

	if len(req.Attempted) > 0 {
		b.WriteString("Already attempted:\n")
		for _, s := range req.Attempted {
			mark := "ok"
			if !s.Success {
				mark = "failed"
			}
			fmt.Fprintf(&b, "- %s (%s)\n", s.Description, mark)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Visible screen text:\n%s\n", llmjson.Truncate(req.Screen, p.screenChars))
	return b.String()
}

func normalizePlan(p Plan) Plan {
	p.FoundResponse = strings.TrimSpace(p.FoundResponse)

	qs := p.Questions[:0]
	for _, q := range p.Questions {
		if q = strings.TrimSpace(q); q != "" {
			qs = append(qs, q)
		}
	}
	p.Questions = qs

	steps := p.Steps[:0]
	for _, s := range p.Steps {
		s.Action = strings.ToLower(strings.TrimSpace(s.Action))
		if s.Action == "" {
			continue
		}
		s.Description = strings.TrimSpace(s.Description)
		steps = append(steps, s)
	}
	p.Steps = steps
	return p
}

func buildPlanningPrompt(fromInstructions bool) string {
	intro := "You operate a desktop computer for the user by reading the visible screen text and choosing actions."
	if fromInstructions {
		intro = "You operate a desktop computer for the user. Earlier attempts failed; turn the web instructions below into concrete actions for what is on screen now."
	}

	return fmt.Sprintf(`%s

CRITICAL OUTPUT RULES:
- Return ONLY raw JSON.
- Do NOT use markdown or code fences.
- The FIRST non-whitespace character MUST be '{'.
- The LAST non-whitespace character MUST be '}'.

Return JSON matching this schema:

{
  "understanding": "what the user wants, in one sentence",
  "already_found": false,
  "found_response": "the answer, when it is already visible on screen",
  "questions": ["only when the goal is ambiguous"],
  "plan": [
    {"step": 1, "description": "string", "action": "click_on_text", "params": {"text": "..."}}
  ]
}

%s
Rules:
- If the answer to the goal is already visible, set already_found and put the full answer in found_response.
- Only click text that appears in the visible screen text, spelled exactly as shown.
- Prefer keyboard shortcuts and direct URLs over long click sequences.
- End with read_screen when the user asked for information.
- Ask questions only when you cannot reasonably guess.
`, intro, Catalogue())
}

func tail(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
