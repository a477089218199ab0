package agent

import (
	"context"
	"strings"
	"time"

	"github.com/kardolus/deskpilot/procedure"
	"github.com/kardolus/deskpilot/types"
)

type GoalRequest struct {
	Goal string

	// InitialActions describes what was already done before the goal was
	// handed over, e.g. "opened chrome".
	InitialActions []string

	// Context is prior conversation or a user instruction from a resumed question.
	Context string
}

// ExecutedStep is the record of one performed action within a run.
type ExecutedStep struct {
	Action      ActionKind
	Params      map[string]any
	Description string
	Success     bool
	Output      string
}

//go:generate mockgen -destination=researchermocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent Researcher
type Researcher interface {
	// Research returns how-to instructions for the query, or an empty
	// string when nothing useful was found.
	Research(ctx context.Context, query string) (string, error)
}

//go:generate mockgen -destination=teachermocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent Teacher
type Teacher interface {
	Learn(ctx context.Context, explanation string) string
}

type ProcedureStore interface {
	Find(goal string) (procedure.Procedure, bool)
	Save(p procedure.Procedure) (procedure.Procedure, error)
	MarkUsed(description string) error
	Forget(description string) (procedure.Procedure, bool, error)
	List() []procedure.Procedure
}

// Settings are the tunables of the control loop.
type Settings struct {
	MaxSteps         int
	MaxReplans       int
	MaxWallTime      time.Duration
	UnchangedOverlap float64
	ScreenMemory     int
	FastSettle       time.Duration
	SlowSettle       time.Duration
	ObserveRetry     time.Duration
	ResearchMaxSteps int
	ResearchChars    int
	Browser          string
	KnownSites       map[string]string
	Language         procedure.Language
}

func DefaultSettings() Settings {
	return Settings{
		MaxSteps:         15,
		MaxReplans:       2,
		MaxWallTime:      10 * time.Minute,
		UnchangedOverlap: 0.8,
		ScreenMemory:     5,
		FastSettle:       500 * time.Millisecond,
		SlowSettle:       1500 * time.Millisecond,
		ObserveRetry:     2 * time.Second,
		ResearchMaxSteps: 5,
		ResearchChars:    2000,
		Browser:          "chrome",
		KnownSites:       map[string]string{},
		Language:         procedure.English,
	}
}

// SettingsFromConfig maps the agent section of the configuration. Zero
// values keep the defaults, except max_replans where zero disables replanning.
func SettingsFromConfig(cfg types.Config) Settings {
	s := DefaultSettings()
	a := cfg.Agent

	setInt(&s.MaxSteps, a.MaxSteps)
	if a.MaxReplans >= 0 {
		s.MaxReplans = a.MaxReplans
	}
	setDuration(&s.MaxWallTime, a.MaxWallTimeSeconds, time.Second)
	if a.UnchangedOverlap > 0 && a.UnchangedOverlap <= 1 {
		s.UnchangedOverlap = a.UnchangedOverlap
	}
	setInt(&s.ScreenMemory, a.ScreenMemory)
	setDuration(&s.FastSettle, a.FastSettleMs, time.Millisecond)
	setDuration(&s.SlowSettle, a.SlowSettleMs, time.Millisecond)
	setDuration(&s.ObserveRetry, a.ObserveRetryMs, time.Millisecond)
	setInt(&s.ResearchMaxSteps, cfg.Research.MaxSteps)
	if b := strings.TrimSpace(a.Browser); b != "" {
		s.Browser = b
	}
	if len(a.KnownSites) > 0 {
		s.KnownSites = a.KnownSites
	}
	s.Language = procedure.LanguageFor(cfg.Procedures.Language)
	return s
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v int, unit time.Duration) {
	if v > 0 {
		*dst = time.Duration(v) * unit
	}
}
