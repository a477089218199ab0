// Package agent drives a desktop toward a goal by repeatedly reading the
// screen, planning, acting and checking that the screen changed.
package agent

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kardolus/deskpilot/internal"
	"github.com/kardolus/deskpilot/procedure"
)

const (
	msgCouldNotRead = "I could not read the screen. Make sure the window you want me to work with is visible and try again."
	msgStuck        = "I'm looking at the screen but don't know how to continue. What should I do next?"
	msgClarify      = "I need to clarify a few things before I continue:"
	msgAskUser      = "I need your help: %s\n\n(Tell me how to continue and I will remember it next time.)"
	msgExhausted    = "I could not complete the task after %d steps. Could you guide me on how to continue?"
	msgNoSolution   = "I could not complete the task after %d steps and found no solution online. Could you guide me on how to continue?"
	msgPanic        = "Something went wrong while working on that: %v"
	msgDropped      = "Okay, I dropped that task."
	msgNoGoal       = "What would you like me to do?"
	msgNoProcs      = "I have not learned any procedures yet."
)

type Deps struct {
	Clock      Clock
	Planner    Planner
	Executor   Executor
	Observer   ScreenObserver
	Procedures ProcedureStore

	// Reasoner summarizes screens for information goals.
	Reasoner Reasoner

	// Optional.
	Windows    WindowManager
	Teacher    Teacher
	Researcher Researcher
}

// SessionState is either Idle or AwaitingUser.
type SessionState interface {
	isSessionState()
}

type Idle struct{}

// AwaitingUser is the session state while a question to the user is open.
type AwaitingUser struct {
	Question      string
	Goal          string
	RemainingPlan []PlannedStep
	Executed      []ExecutedStep
}

func (Idle) isSessionState()          {}
func (*AwaitingUser) isSessionState() {}

// Agent serializes goals: one goal at a time per instance.
type Agent struct {
	mu sync.Mutex

	clock      Clock
	planner    Planner
	executor   Executor
	observer   ScreenObserver
	procedures ProcedureStore
	reasoner   Reasoner
	windows    WindowManager
	teacher    Teacher
	researcher Researcher

	settings Settings
	state    SessionState

	out   *zap.SugaredLogger
	debug *zap.SugaredLogger

	syncOut   func()
	syncDebug func()
}

type Option func(*Agent)

func WithSettings(s Settings) Option {
	return func(a *Agent) { a.settings = s }
}

func WithHumanLogger(l *zap.SugaredLogger, sync func()) Option {
	return func(a *Agent) {
		if l != nil {
			a.out = l
		}
		if sync != nil {
			a.syncOut = sync
		}
	}
}

func WithDebugLogger(l *zap.SugaredLogger, sync func()) Option {
	return func(a *Agent) {
		if l != nil {
			a.debug = l
		}
		if sync != nil {
			a.syncDebug = sync
		}
	}
}

func validateDeps(deps Deps) error {
	switch {
	case deps.Clock == nil:
		return fmt.Errorf("agent deps: Clock is required")
	case deps.Planner == nil:
		return fmt.Errorf("agent deps: Planner is required")
	case deps.Executor == nil:
		return fmt.Errorf("agent deps: Executor is required")
	case deps.Observer == nil:
		return fmt.Errorf("agent deps: Observer is required")
	case deps.Procedures == nil:
		return fmt.Errorf("agent deps: Procedures is required")
	case deps.Reasoner == nil:
		return fmt.Errorf("agent deps: Reasoner is required")
	}
	return nil
}

func New(deps Deps, opts ...Option) (*Agent, error) {
	if err := validateDeps(deps); err != nil {
		return nil, err
	}

	a := &Agent{
		clock:      deps.Clock,
		planner:    deps.Planner,
		executor:   deps.Executor,
		observer:   deps.Observer,
		procedures: deps.Procedures,
		reasoner:   deps.Reasoner,
		windows:    deps.Windows,
		teacher:    deps.Teacher,
		researcher: deps.Researcher,
		settings:   DefaultSettings(),
		state:      Idle{},
		out:        zap.NewNop().Sugar(),
		debug:      zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// ExecuteGoal works on a goal until it is done, the budget runs out or the
// user has to answer a question. It always returns a message for the user.
func (a *Agent) ExecuteGoal(ctx context.Context, req GoalRequest) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.executeGoal(ctx, req)
}

// State returns a copy of the current session state.
func (a *Agent) State() SessionState {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.pending()
	if p == nil {
		return Idle{}
	}
	c := *p
	c.RemainingPlan = make([]PlannedStep, len(p.RemainingPlan))
	for i, s := range p.RemainingPlan {
		s.Params = maps.Clone(s.Params)
		c.RemainingPlan[i] = s
	}
	c.Executed = make([]ExecutedStep, len(p.Executed))
	for i, s := range p.Executed {
		s.Params = maps.Clone(s.Params)
		c.Executed[i] = s
	}
	return &c
}

func (a *Agent) HasPendingQuestion() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending() != nil
}

func (a *Agent) PendingQuestion() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p := a.pending(); p != nil {
		return p.Question
	}
	return ""
}

func (a *Agent) pending() *AwaitingUser {
	p, _ := a.state.(*AwaitingUser)
	return p
}

// AnswerPending teaches the answer as a procedure and resumes the suspended
// goal with the answer as context. originalGoal is used when no question is
// pending.
func (a *Agent) AnswerPending(ctx context.Context, answer, originalGoal string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.answerPending(ctx, answer, originalGoal)
}

// HandleMessage routes a chat message: an answer to the open question, a
// topic change that drops it, or a new goal.
func (a *Agent) HandleMessage(ctx context.Context, msg, convo string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	msg = strings.TrimSpace(msg)
	if msg == "" {
		return msgNoGoal
	}

	if p := a.pending(); p != nil {
		if !a.settings.Language.IsTopicChange(msg) {
			return a.answerPending(ctx, msg, p.Goal)
		}
		a.debug.Debugf("session: topic change, dropping question for %q", p.Goal)
		a.state = Idle{}
		if onlyTopicChange(msg, a.settings.Language) {
			return msgDropped
		}
	}

	return a.executeGoal(ctx, GoalRequest{Goal: msg, Context: convo})
}

func (a *Agent) ListProcedures() string {
	procs := a.procedures.List()
	if len(procs) == 0 {
		return msgNoProcs
	}

	var b strings.Builder
	b.WriteString("Procedures I know:")
	for _, p := range procs {
		fmt.Fprintf(&b, "\n• %s (used %dx)", p.Description, p.TimesUsed)
	}
	return b.String()
}

func (a *Agent) ForgetProcedure(description string) string {
	p, ok, err := a.procedures.Forget(strings.TrimSpace(description))
	if !ok {
		return fmt.Sprintf("I don't know a procedure matching %q.", description)
	}
	if err != nil {
		a.debug.Warnf("procedures: forgot %q but could not persist: %v", p.Description, err)
	}
	return fmt.Sprintf("Forgot %q.", p.Description)
}

// Teach stores the user's explanation of how to do something.
func (a *Agent) Teach(ctx context.Context, explanation string) string {
	if a.teacher == nil {
		return "Learning is not available right now."
	}
	return a.teacher.Learn(ctx, explanation)
}

func (a *Agent) answerPending(ctx context.Context, answer, originalGoal string) string {
	answer = strings.TrimSpace(answer)

	goal := strings.TrimSpace(originalGoal)
	var resume []string
	if p := a.pending(); p != nil {
		goal = p.Goal
		resume = resumeContext(p)
	}
	a.state = Idle{}

	if goal == "" {
		return a.executeGoal(ctx, GoalRequest{Goal: answer})
	}
	if answer == "" {
		return msgNoGoal
	}

	if a.teacher != nil {
		reply := a.teacher.Learn(ctx, goal+": "+answer)
		a.debug.Debugf("session: learned from answer: %s", reply)
	}

	// the answer goes last so a bounded context keeps it
	parts := append(resume, "User instructed: "+answer)
	return a.executeGoal(ctx, GoalRequest{Goal: goal, Context: strings.Join(parts, "\n")})
}

func resumeContext(p *AwaitingUser) []string {
	var out []string
	if len(p.Executed) > 0 {
		descs := make([]string, 0, len(p.Executed))
		for _, s := range p.Executed {
			if s.Success {
				descs = append(descs, s.Description)
			}
		}
		if len(descs) > 0 {
			out = append(out, "Already done: "+strings.Join(descs, "; "))
		}
	}
	if len(p.RemainingPlan) > 0 {
		descs := make([]string, 0, len(p.RemainingPlan))
		for _, s := range p.RemainingPlan {
			descs = append(descs, s.Description)
		}
		out = append(out, "Previously planned next: "+strings.Join(descs, "; "))
	}
	return out
}

// onlyTopicChange reports whether msg says nothing beyond dropping the
// current question.
func onlyTopicChange(msg string, lang procedure.Language) bool {
	m := strings.ToLower(msg)
	for _, phrase := range lang.Topic {
		m = strings.ReplaceAll(m, phrase, " ")
	}
	return len(lang.SignificantWords(m)) == 0
}

func (a *Agent) suspend(state AwaitingUser) string {
	a.state = &state
	return state.Question
}

func (a *Agent) executeGoal(ctx context.Context, req GoalRequest) (resp string) {
	req.Goal = strings.TrimSpace(req.Goal)
	if req.Goal == "" {
		return msgNoGoal
	}

	// a new goal supersedes any open question; suspending sets it again
	a.state = Idle{}

	run := a.newRun(req)
	start := a.clock.Now()
	a.out.Infof("Goal: %s", req.Goal)

	defer func() {
		if r := recover(); r != nil {
			run.log.Errorf("panic: %v", r)
			resp = fmt.Sprintf(msgPanic, r)
		}
		a.finishTimer(run, start)
	}()

	a.minimize(ctx, run)
	defer a.restore(ctx, run)

	return a.run(ctx, run)
}

func (a *Agent) newRun(req GoalRequest) *goalRun {
	id := internal.NewRunID()
	run := &goalRun{
		id:      id,
		goal:    req.Goal,
		context: strings.TrimSpace(req.Context),
		initial: req.InitialActions,
		log:     a.debug.With("run", id),
		budget: NewDefaultBudget(BudgetLimits{
			MaxSteps:    a.settings.MaxSteps,
			MaxReplans:  a.settings.MaxReplans,
			MaxWallTime: a.settings.MaxWallTime,
		}),
		memory: screenMemory{size: a.settings.ScreenMemory},
	}
	run.budget.Start(a.clock.Now())
	return run
}

func (a *Agent) minimize(ctx context.Context, run *goalRun) {
	if a.windows == nil {
		return
	}
	if err := a.windows.MinimizeSelf(ctx); err != nil {
		run.log.Debugf("window: minimize failed: %v", err)
	}
}

func (a *Agent) restore(ctx context.Context, run *goalRun) {
	if a.windows == nil {
		return
	}
	if err := a.windows.RestoreSelf(context.WithoutCancel(ctx)); err != nil {
		run.log.Debugf("window: restore failed: %v", err)
	}
}

func (a *Agent) finishTimer(run *goalRun, start time.Time) {
	snap := run.budget.Snapshot(a.clock.Now())
	a.out.Infof("Steps: %d, replans: %d", snap.StepsUsed, snap.ReplansUsed)
	a.out.Infof("Total duration: %s", snap.Elapsed)
	run.log.Infof("Total duration: %s", a.clock.Now().Sub(start))

	if a.syncOut != nil {
		a.syncOut()
	}
	if a.syncDebug != nil {
		a.syncDebug()
	}
}
