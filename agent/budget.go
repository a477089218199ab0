package agent

import (
	"fmt"
	"time"
)

const (
	BudgetKindSteps    = "steps"
	BudgetKindReplans  = "replans"
	BudgetKindWallTime = "wall_time"
)

// Budget bounds a single goal run. Every executed action must be admitted by
// AllowStep and every abandoned plan by AllowReplan.
type Budget interface {
	Start(now time.Time)
	AllowStep(now time.Time) error
	AllowReplan(now time.Time) error
	Snapshot(now time.Time) BudgetSnapshot
}

// BudgetLimits with a zero value disable that limit.
type BudgetLimits struct {
	MaxSteps    int
	MaxReplans  int
	MaxWallTime time.Duration
}

type BudgetSnapshot struct {
	StartedAt   time.Time
	Elapsed     time.Duration
	Limits      BudgetLimits
	StepsUsed   int
	ReplansUsed int
}

type DefaultBudget struct {
	limits BudgetLimits

	started   bool
	startedAt time.Time

	stepsUsed   int
	replansUsed int
}

func NewDefaultBudget(limits BudgetLimits) *DefaultBudget {
	return &DefaultBudget{limits: limits}
}

func (b *DefaultBudget) Start(now time.Time) {
	b.started = true
	b.startedAt = now
	b.stepsUsed = 0
	b.replansUsed = 0
}

func (b *DefaultBudget) Snapshot(now time.Time) BudgetSnapshot {
	b.ensureStarted(now)

	elapsed := now.Sub(b.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	return BudgetSnapshot{
		StartedAt:   b.startedAt,
		Elapsed:     elapsed,
		Limits:      b.limits,
		StepsUsed:   b.stepsUsed,
		ReplansUsed: b.replansUsed,
	}
}

func (b *DefaultBudget) AllowStep(now time.Time) error {
	b.ensureStarted(now)

	if err := b.checkWall(now); err != nil {
		return err
	}

	if b.limits.MaxSteps > 0 && b.stepsUsed+1 > b.limits.MaxSteps {
		return BudgetExceededError{
			Kind:    BudgetKindSteps,
			Limit:   b.limits.MaxSteps,
			Used:    b.stepsUsed,
			Message: "step budget exceeded",
		}
	}

	b.stepsUsed++
	return nil
}

// AllowReplan admits another planning round after the current plan was
// abandoned. A MaxReplans of zero allows no replanning at all.
func (b *DefaultBudget) AllowReplan(now time.Time) error {
	b.ensureStarted(now)

	if err := b.checkWall(now); err != nil {
		return err
	}

	if b.replansUsed+1 > b.limits.MaxReplans {
		return BudgetExceededError{
			Kind:    BudgetKindReplans,
			Limit:   b.limits.MaxReplans,
			Used:    b.replansUsed,
			Message: "replan budget exceeded",
		}
	}

	b.replansUsed++
	return nil
}

func (b *DefaultBudget) ensureStarted(now time.Time) {
	if b.started {
		return
	}
	b.Start(now)
}

func (b *DefaultBudget) checkWall(now time.Time) error {
	if b.limits.MaxWallTime <= 0 {
		return nil
	}
	elapsed := now.Sub(b.startedAt)
	if elapsed > b.limits.MaxWallTime {
		return BudgetExceededError{
			Kind:    BudgetKindWallTime,
			LimitD:  b.limits.MaxWallTime,
			UsedD:   elapsed,
			Message: "wall time budget exceeded",
		}
	}
	return nil
}

// BudgetExceededError is a typed error so the loop can branch on it.
type BudgetExceededError struct {
	// "steps" | "replans" | "wall_time"
	Kind    string
	Limit   int
	Used    int
	LimitD  time.Duration
	UsedD   time.Duration
	Message string
}

func (e BudgetExceededError) Error() string {
	switch e.Kind {
	case BudgetKindWallTime:
		return fmt.Sprintf("%s: limit=%s used=%s", e.Message, e.LimitD, e.UsedD)
	default:
		return fmt.Sprintf("%s: kind=%s limit=%d used=%d", e.Message, e.Kind, e.Limit, e.Used)
	}
}
