package agent

import (
	"errors"
	"sort"
	"strings"

	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/procedure"
)

const (
	minAutosaveSteps   = 2
	minAutosaveWords   = 2
	maxAutosaveWords   = 8
	maxAutosaveDesc    = 100
	siteDetectionChars = 500
)

// autosave stores a successful run as a procedure when it is long enough,
// new, and its steps actually mention what the goal talks about.
func (a *Agent) autosave(run *goalRun) {
	steps := run.successful()
	if len(steps) < minAutosaveSteps {
		return
	}

	keywords := a.settings.Language.SignificantWords(run.goal)
	if len(keywords) < minAutosaveWords {
		run.log.Debugf("autosave: skipped, too few keywords in %q", run.goal)
		return
	}
	if len(keywords) > maxAutosaveWords {
		keywords = keywords[:maxAutosaveWords]
	}

	if _, exists := a.procedures.Find(run.goal); exists {
		return
	}

	if !a.stepsMentionGoal(steps, keywords) {
		run.log.Debugf("autosave: skipped, steps unrelated to %q", run.goal)
		return
	}

	a.save(run, procedure.Procedure{
		Description: llmjson.Truncate(run.goal, maxAutosaveDesc),
		Keywords:    keywords,
		Steps:       toProcedureSteps(steps),
		Site:        a.detectSite(run),
	})
}

func (a *Agent) save(run *goalRun, p procedure.Procedure) {
	saved, err := a.procedures.Save(p)

	var rejected procedure.RejectedError
	switch {
	case errors.As(err, &rejected):
		run.log.Debugf("autosave: %v", err)
	case err != nil:
		run.log.Warnf("autosave: %q kept in memory only: %v", saved.Description, err)
		a.out.Infof("Learned: %s", saved.Description)
	default:
		a.out.Infof("Learned: %s", saved.Description)
	}
}

// stepsMentionGoal requires at least one goal keyword, compared by stem, to
// appear in the parameters of the performed steps.
func (a *Agent) stepsMentionGoal(steps []ExecutedStep, keywords []string) bool {
	stem := a.settings.Language.Stem
	want := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		want[stem(k)] = true
	}

	for _, s := range steps {
		for _, w := range procedure.Tokenize(storedStep(s).Text()) {
			if want[stem(w)] {
				return true
			}
		}
	}
	return false
}

// detectSite looks for a known site name in the goal first, then in the
// beginning of the first screen of the run.
func (a *Agent) detectSite(run *goalRun) string {
	names := make([]string, 0, len(a.settings.KnownSites))
	for name := range a.settings.KnownSites {
		names = append(names, name)
	}
	sort.Strings(names)

	goal := strings.ToLower(run.goal)
	for _, n := range names {
		if strings.Contains(goal, n) {
			return n
		}
	}

	screen := strings.ToLower(llmjson.Truncate(run.firstScreen, siteDetectionChars))
	for _, n := range names {
		if strings.Contains(screen, n) {
			return n
		}
	}
	return ""
}

func storedStep(s ExecutedStep) procedure.Step {
	return procedure.Step{Action: string(s.Action), Params: s.Params}
}

func toProcedureSteps(steps []ExecutedStep) []procedure.Step {
	out := make([]procedure.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, storedStep(s))
	}
	return out
}
