package agent

import (
	"context"
	"strings"

	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/procedure"
)

const (
	markOK     = "✓"
	markFailed = "✗"

	msgResearched = "I could not finish on my own, so I looked it up online and tried:"
)

// research looks the goal up on the web, plans from the instructions it finds
// and executes at most ResearchMaxSteps of them. It only runs once the loop
// budget is spent, so its cap is separate from MaxSteps: a run executes at
// most MaxSteps+ResearchMaxSteps actions.
func (a *Agent) research(ctx context.Context, run *goalRun) (string, bool) {
	a.out.Infof("Searching the web for how to: %s", run.goal)

	instructions, err := a.researcher.Research(ctx, run.goal)
	if err != nil {
		run.log.Warnf("research: %v", err)
		return "", false
	}
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return "", false
	}

	plan, err := a.planner.Plan(ctx, PlanRequest{
		Goal:         run.goal,
		Screen:       a.capture(ctx, run),
		Context:      run.context,
		Instructions: llmjson.Truncate(instructions, a.settings.ResearchChars),
		Attempted:    run.executed,
	})
	if err != nil {
		run.log.Warnf("research: planner failed: %v", err)
		return "", false
	}

	steps := plan.Steps
	if len(steps) > a.settings.ResearchMaxSteps {
		steps = steps[:a.settings.ResearchMaxSteps]
	}

	var (
		lines []string
		done  []procedure.Step
	)
	for _, ps := range steps {
		desc := firstNonEmpty(ps.Description, ps.Action)

		action, err := ParseAction(ps.Action, ps.Params)
		if err != nil {
			run.log.Debugf("research: %v", err)
			lines = append(lines, markFailed+" "+desc)
			continue
		}

		switch action.(type) {
		case AskUser, ReadScreen, Manual:
			continue
		}

		out := a.executor.Execute(ctx, action)
		a.settle(ctx, action.Kind())
		if !out.Success {
			lines = append(lines, markFailed+" "+desc)
			continue
		}
		lines = append(lines, markOK+" "+desc)
		done = append(done, StepFromAction(action))
	}

	if len(lines) == 0 {
		return "", false
	}

	if len(done) > 0 {
		keywords := a.settings.Language.SignificantWords(run.goal)
		if len(keywords) > maxAutosaveWords {
			keywords = keywords[:maxAutosaveWords]
		}
		a.save(run, procedure.Procedure{
			Description: llmjson.Truncate(run.goal, maxAutosaveDesc),
			Keywords:    keywords,
			Steps:       done,
			Site:        a.detectSite(run),
		})
	}

	return msgResearched + "\n" + strings.Join(lines, "\n"), true
}
