package agent

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const minAnswerChars = 20

type goalRun struct {
	id      string
	goal    string
	context string
	initial []string
	log     *zap.SugaredLogger
	budget  Budget
	memory  screenMemory

	executed    []ExecutedStep
	firstScreen string
}

func (r *goalRun) record(action Action, out Outcome) {
	r.executed = append(r.executed, ExecutedStep{
		Action:      action.Kind(),
		Params:      action.Params(),
		Description: Describe(action),
		Success:     out.Success,
		Output:      out.Output,
	})
}

func (r *goalRun) successful() []ExecutedStep {
	var out []ExecutedStep
	for _, s := range r.executed {
		if s.Success {
			out = append(out, s)
		}
	}
	return out
}

// progress describes what this run already saw and did, most recent last,
// for the next planning request.
func (r *goalRun) progress() string {
	var parts []string
	if screens := r.memory.all(); len(screens) > 1 {
		parts = append(parts, "Earlier screens:\n"+strings.Join(screens[:len(screens)-1], "\n---\n"))
	}
	if len(r.initial) > 0 {
		parts = append(parts, "Already done before this request: "+strings.Join(r.initial, "; "))
	}
	if len(r.executed) > 0 {
		var lines []string
		for _, s := range r.executed {
			mark := "ok"
			if !s.Success {
				mark = "failed"
			}
			lines = append(lines, fmt.Sprintf("- %s (%s)", s.Description, mark))
		}
		parts = append(parts, "Steps so far:\n"+strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

type planResult int

const (
	planCompleted planResult = iota
	planAbandoned
	planExhausted
	planAnswered
)

func (a *Agent) run(ctx context.Context, run *goalRun) string {
	if resp, ok := a.replayKnown(ctx, run); ok {
		return resp
	}

	if len(run.initial) > 0 {
		_ = a.clock.Sleep(ctx, a.settings.SlowSettle)
	}

	for {
		if err := ctx.Err(); err != nil {
			run.log.Debugf("loop: cancelled: %v", err)
			break
		}

		screen := a.observe(ctx, run)
		if screen == "" {
			if run.firstScreen == "" {
				return msgCouldNotRead
			}
			if err := run.budget.AllowReplan(a.clock.Now()); err != nil {
				run.log.Debugf("loop: %v", err)
				break
			}
			continue
		}
		if run.firstScreen == "" {
			run.firstScreen = screen
		}
		run.memory.add(screen)

		plan, err := a.planner.Plan(ctx, PlanRequest{
			Goal:     run.goal,
			Screen:   screen,
			Context:  run.context,
			Progress: run.progress(),
		})
		if err != nil {
			run.log.Warnf("planner failed: %v", err)
			plan = Plan{}
		}

		if plan.AlreadyFound && utf8.RuneCountInString(plan.FoundResponse) > minAnswerChars {
			a.out.Infof("Answer already on screen")
			return plan.FoundResponse
		}

		if len(plan.Questions) > 0 {
			q := msgClarify + "\n- " + strings.Join(plan.Questions, "\n- ")
			return a.suspend(AwaitingUser{Question: q, Goal: run.goal, RemainingPlan: plan.Steps, Executed: run.executed})
		}

		if len(plan.Steps) == 0 {
			return a.suspend(AwaitingUser{Question: msgStuck, Goal: run.goal, Executed: run.executed})
		}

		res, resp := a.executePlan(ctx, run, plan, screen)
		switch res {
		case planAnswered:
			return resp
		case planCompleted:
			if len(run.successful()) > 0 {
				return a.finish(ctx, run)
			}
		case planExhausted:
			return a.exhausted(ctx, run)
		}

		if err := run.budget.AllowReplan(a.clock.Now()); err != nil {
			run.log.Debugf("loop: %v", err)
			break
		}
		a.out.Infof("Replanning")
	}

	return a.exhausted(ctx, run)
}

// executePlan runs the steps of one plan, checking after clicks and searches
// that the screen actually changed.
func (a *Agent) executePlan(ctx context.Context, run *goalRun, plan Plan, screen string) (planResult, string) {
	prev := screen

	for i, ps := range plan.Steps {
		action, err := ParseAction(ps.Action, ps.Params)
		if err != nil {
			run.log.Warnf("step %d: %v", i+1, err)
			run.executed = append(run.executed, ExecutedStep{
				Action:      ActionKind(ps.Action),
				Params:      ps.Params,
				Description: firstNonEmpty(ps.Description, ps.Action),
				Output:      err.Error(),
			})
			return planAbandoned, ""
		}

		switch v := action.(type) {
		case AskUser:
			q := fmt.Sprintf(msgAskUser, v.Question)
			return planAnswered, a.suspend(AwaitingUser{Question: q, Goal: run.goal, RemainingPlan: plan.Steps[i+1:], Executed: run.executed})
		case ReadScreen:
			if summary := a.readScreen(ctx, run); summary != "" {
				a.autosave(run)
				return planAnswered, summary
			}
			continue
		case Manual:
			return planAnswered, a.suspend(AwaitingUser{Question: fmt.Sprintf(msgAskUser, v.Instruction), Goal: run.goal, RemainingPlan: plan.Steps[i+1:], Executed: run.executed})
		}

		if err := run.budget.AllowStep(a.clock.Now()); err != nil {
			run.log.Debugf("loop: %v", err)
			return planExhausted, ""
		}

		a.out.Infof("Step %d: %s", len(run.executed)+1, Describe(action))
		out := a.executor.Execute(ctx, action)
		run.record(action, out)
		a.settle(ctx, action.Kind())

		if !out.Success {
			run.log.Debugf("step failed: %s: %v", action.Kind(), out.Err)
			return planAbandoned, ""
		}

		last := i == len(plan.Steps)-1
		verify := needsVerification(action.Kind())
		if !last && !verify {
			continue
		}

		next := a.capture(ctx, run)
		if next == "" {
			continue
		}
		run.memory.add(next)

		if verify && a.unchanged(prev, next) {
			click, ok := action.(ClickOnText)
			if !ok {
				run.log.Debugf("step had no visible effect: %s", action.Kind())
				run.executed[len(run.executed)-1].Success = false
				return planAbandoned, ""
			}
			escalated, res := a.escalate(ctx, run, click, prev)
			if res != planCompleted {
				return res, ""
			}
			next = escalated
		}
		prev = next
	}

	return planCompleted, ""
}

// escalate retries an ineffective click once as a double-click. The click is
// only marked failed when the retry doesn't change the screen either.
func (a *Agent) escalate(ctx context.Context, run *goalRun, click ClickOnText, prev string) (string, planResult) {
	clickIdx := len(run.executed) - 1
	run.executed[clickIdx].Success = false

	if err := run.budget.AllowStep(a.clock.Now()); err != nil {
		run.log.Debugf("loop: %v", err)
		return "", planExhausted
	}

	retry := DoubleClick(click)
	a.out.Infof("Step %d: %s", len(run.executed)+1, Describe(retry))
	out := a.executor.Execute(ctx, retry)
	run.record(retry, out)
	a.settle(ctx, retry.Kind())

	if !out.Success {
		return "", planAbandoned
	}

	after := a.capture(ctx, run)
	if after == "" || a.unchanged(prev, after) {
		run.executed[len(run.executed)-1].Success = false
		return "", planAbandoned
	}

	run.memory.add(after)
	return after, planCompleted
}

func (a *Agent) unchanged(prev, next string) bool {
	return prev != "" && Overlap(prev, next) > a.settings.UnchangedOverlap
}

func needsVerification(k ActionKind) bool {
	switch k {
	case KindClickOnText, KindDoubleClick, KindSearchInPage:
		return true
	}
	return false
}

func (a *Agent) settle(ctx context.Context, k ActionKind) {
	d := a.settings.SlowSettle
	switch k {
	case KindPressKey, KindTypeInApp, KindScrollPage, KindWait, KindFocusWindow, KindSwitchTab:
		d = a.settings.FastSettle
	}
	_ = a.clock.Sleep(ctx, d)
}

func (a *Agent) finish(ctx context.Context, run *goalRun) string {
	if a.settings.Language.IsInfoGoal(run.goal) {
		_ = a.clock.Sleep(ctx, a.settings.FastSettle*2)
		if summary := a.readScreen(ctx, run); summary != "" {
			a.autosave(run)
			return summary
		}
	}

	a.autosave(run)

	var descs []string
	for _, s := range run.successful() {
		descs = append(descs, s.Description)
	}
	return "Done. " + strings.Join(descs, "; ") + "."
}

// readScreen captures the screen and summarizes it against the goal. It
// returns an empty string when there is nothing worth reporting.
func (a *Agent) readScreen(ctx context.Context, run *goalRun) string {
	screen := a.capture(ctx, run)
	if screen == "" {
		return ""
	}
	run.memory.add(screen)

	summary := a.summarize(ctx, run.goal, screen)
	if utf8.RuneCountInString(summary) <= minAnswerChars {
		return ""
	}
	return summary
}

func (a *Agent) exhausted(ctx context.Context, run *goalRun) string {
	steps := run.budget.Snapshot(a.clock.Now()).StepsUsed

	if len(run.successful()) == 0 || a.researcher == nil || ctx.Err() != nil {
		return fmt.Sprintf(msgExhausted, steps)
	}

	if resp, ok := a.research(ctx, run); ok {
		return resp
	}
	return fmt.Sprintf(msgNoSolution, steps)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
