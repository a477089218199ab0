package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/procedure"
	"github.com/kardolus/deskpilot/types"
)

const (
	browserStartWait = 2500 * time.Millisecond
	pageLoadWait     = 3 * time.Second
	replayStepWait   = 2 * time.Second
	summaryScreen    = 3000

	msgManual     = "This procedure requires manual intervention: %s"
	msgReplayDone = "Done. I followed the procedure %q."
)

// replayKnown runs a stored procedure matching the goal without consulting
// the planner. ok is false when there is no match or the replay failed, in
// which case the normal loop takes over.
func (a *Agent) replayKnown(ctx context.Context, run *goalRun) (string, bool) {
	proc, ok := a.procedures.Find(run.goal)
	if !ok {
		return "", false
	}

	a.out.Infof("Using learned procedure: %s", proc.Description)
	if err := a.procedures.MarkUsed(proc.Description); err != nil {
		run.log.Warnf("procedures: could not record use of %q: %v", proc.Description, err)
	}

	resp, ok := a.replay(ctx, run, proc)
	if !ok {
		a.out.Infof("Procedure did not work, planning instead")
	}
	return resp, ok
}

func (a *Agent) replay(ctx context.Context, run *goalRun, proc procedure.Procedure) (string, bool) {
	if proc.Site != "" && len(run.initial) == 0 {
		if !a.openSite(ctx, run, proc.Site) {
			return "", false
		}
	}

	for i, step := range proc.Steps {
		action, err := ActionFromStep(step)
		if err != nil {
			run.log.Warnf("replay: step %d of %q: %v", i+1, proc.Description, err)
			return "", false
		}

		switch v := action.(type) {
		case Manual:
			return fmt.Sprintf(msgManual, v.Instruction), true
		case Wait:
			_ = a.clock.Sleep(ctx, v.Duration)
			continue
		case AskUser:
			q := fmt.Sprintf(msgAskUser, v.Question)
			return a.suspend(AwaitingUser{Question: q, Goal: run.goal, Executed: run.executed}), true
		case ReadScreen:
			continue
		}

		if !a.replayStep(ctx, run, action) {
			return "", false
		}
		_ = a.clock.Sleep(ctx, replayStepWait)
	}

	if screen := a.capture(ctx, run); screen != "" {
		if summary := a.summarize(ctx, run.goal, screen); len([]rune(summary)) > minAnswerChars {
			return summary, true
		}
	}
	return fmt.Sprintf(msgReplayDone, proc.Description), true
}

func (a *Agent) openSite(ctx context.Context, run *goalRun, site string) bool {
	url, ok := a.settings.KnownSites[site]
	if !ok {
		run.log.Debugf("replay: unknown site %q, skipping navigation", site)
		return true
	}

	if !a.replayStep(ctx, run, OpenApplication{App: a.settings.Browser}) {
		return false
	}
	_ = a.clock.Sleep(ctx, browserStartWait)

	if !a.replayStep(ctx, run, NavigateToURL{URL: url}) {
		return false
	}
	_ = a.clock.Sleep(ctx, pageLoadWait)
	return true
}

func (a *Agent) replayStep(ctx context.Context, run *goalRun, action Action) bool {
	if err := run.budget.AllowStep(a.clock.Now()); err != nil {
		run.log.Debugf("replay: %v", err)
		return false
	}

	a.out.Infof("Step %d: %s", len(run.executed)+1, Describe(action))
	out := a.executor.Execute(ctx, action)
	run.record(action, out)
	if !out.Success {
		run.log.Debugf("replay: %s failed: %v", action.Kind(), out.Err)
	}
	return out.Success
}

// summarize answers the goal from the screen text. Failures yield an empty
// string.
func (a *Agent) summarize(ctx context.Context, goal, screen string) string {
	msgs := []types.Message{
		{Role: types.SystemRole, Content: "You read screen text for the user. Answer their request using only the screen text, briefly and in the language of the request. If the screen does not contain the answer, reply with an empty string."},
		{Role: types.UserRole, Content: fmt.Sprintf("Request: %s\n\nScreen text:\n%s", goal, llmjson.Truncate(screen, summaryScreen))},
	}

	resp, err := a.reasoner.Chat(ctx, msgs)
	if err != nil {
		a.debug.Debugf("summarize: %v", err)
		return ""
	}
	return strings.TrimSpace(resp)
}
