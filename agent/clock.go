package agent

import (
	"context"
	"time"
)

// Clock is the agent's only source of time. Settle waits between actions and
// budget checks go through it so tests can run a whole goal instantly.
//
//go:generate mockgen -destination=clockmocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent Clock
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type RealClock struct{}

func NewRealClock() *RealClock { return &RealClock{} }

func (c *RealClock) Now() time.Time { return time.Now() }

// Sleep waits for d or until ctx is done. A non-positive d only reports
// whether ctx is already done.
func (c *RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
