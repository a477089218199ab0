package agent

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kardolus/deskpilot/internal"
)

// Logs holds the two per-session log streams: a readable transcript of what
// the agent did and a JSONL debug stream with plans, captures and failures.
type Logs struct {
	Dir       string
	HumanPath string
	DebugPath string

	HumanLogger *zap.SugaredLogger
	DebugLogger *zap.SugaredLogger

	HumanZap *zap.Logger
	DebugZap *zap.Logger

	humanFile io.WriteCloser
	debugFile io.WriteCloser
}

// Close flushes and closes both files, ignoring errors.
func (l *Logs) Close() {
	if l.HumanZap != nil {
		_ = l.HumanZap.Sync()
	}
	if l.DebugZap != nil {
		_ = l.DebugZap.Sync()
	}
	if l.humanFile != nil {
		_ = l.humanFile.Close()
	}
	if l.debugFile != nil {
		_ = l.debugFile.Close()
	}
}

// NewLogs opens the rotating log files under the cache home.
func NewLogs(policy internal.RotationPolicy) (*Logs, error) {
	cacheHome, err := internal.GetCacheHome()
	if err != nil {
		return nil, err
	}
	return NewLogsIn(filepath.Join(cacheHome, "agent"), policy)
}

func NewLogsIn(dir string, policy internal.RotationPolicy) (*Logs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	humanPath := filepath.Join(dir, "agent.transcript.log")
	debugPath := filepath.Join(dir, "agent.debug.jsonl")

	humanFile := internal.NewRotatingWriter(humanPath, policy)
	debugFile := internal.NewRotatingWriter(debugPath, policy)

	humanZap := internal.NewFileLogger(humanFile, zapcore.InfoLevel, false)
	debugZap := internal.NewFileLogger(debugFile, zapcore.DebugLevel, true)

	return &Logs{
		Dir:         dir,
		HumanPath:   humanPath,
		DebugPath:   debugPath,
		HumanLogger: humanZap.Sugar(),
		DebugLogger: debugZap.Sugar(),
		HumanZap:    humanZap,
		DebugZap:    debugZap,
		humanFile:   humanFile,
		debugFile:   debugFile,
	}, nil
}

// Mirror returns a transcript logger that also writes to console.
func (l *Logs) Mirror(console *zap.Logger) *zap.Logger {
	if console == nil {
		return l.HumanZap
	}
	return zap.New(zapcore.NewTee(l.HumanZap.Core(), console.Core()))
}
