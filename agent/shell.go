package agent

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

const (
	shellWaitDelay = time.Second

	// maxShellCapture bounds what is kept of each output stream; the rest is
	// discarded while the command keeps running.
	maxShellCapture = 64 << 10
)

//go:generate mockgen -destination=shellmocks_test.go -package=agent_test github.com/kardolus/deskpilot/agent Shell
type Shell interface {
	Run(
		ctx context.Context,
		workDir string,
		name string,
		args ...string,
	) (Result, error)
}

// Result is the outcome of a finished command. A non-zero exit code is not
// an error.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Combined joins stdout and stderr for display to the planner.
func (r Result) Combined() string {
	return strings.TrimSpace(strings.TrimSpace(r.Stdout) + "\n" + strings.TrimSpace(r.Stderr))
}

type cappedBuffer struct {
	buf bytes.Buffer
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if room := maxShellCapture - c.buf.Len(); room > 0 {
		if len(p) > room {
			c.buf.Write(p[:room])
		} else {
			c.buf.Write(p)
		}
	}
	return len(p), nil
}

type ExecShellRunner struct{}

func NewExecShellRunner() *ExecShellRunner {
	return &ExecShellRunner{}
}

func (r *ExecShellRunner) Run(
	ctx context.Context,
	workDir string,
	name string,
	args ...string,
) (Result, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir
	cmd.WaitDelay = shellWaitDelay

	var outb, errb cappedBuffer
	cmd.Stdout = &outb
	cmd.Stderr = &errb

	err := cmd.Run()

	exit := 0
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return Result{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		exit = ee.ExitCode()
	}

	return Result{
		Stdout:   outb.buf.String(),
		Stderr:   errb.buf.String(),
		ExitCode: exit,
		Duration: time.Since(start),
	}, nil
}
