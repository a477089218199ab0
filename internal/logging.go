package internal

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LevelSet map[zapcore.Level]bool

func (ls LevelSet) Enabled(l zapcore.Level) bool {
	return ls[l]
}

// SetAllowedLogLevels installs the terminal logger as the zap global.
func SetAllowedLogLevels(levels ...zapcore.Level) {
	allowed := make(LevelSet, len(levels))
	for _, lvl := range levels {
		allowed[lvl] = true
	}
	zap.ReplaceGlobals(NewConsoleLogger(os.Stdout, os.Stderr, allowed))
}

// NewConsoleLogger prints bare messages. Allowed levels go to out; warnings
// and errors always go to errOut.
func NewConsoleLogger(out, errOut io.Writer, allowed LevelSet) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:  "msg",
		EncodeLevel: zapcore.CapitalLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	})

	outCore := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(out)), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l < zapcore.WarnLevel && allowed.Enabled(l)
	}))
	errCore := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(errOut)), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel
	}))

	return zap.New(zapcore.NewTee(outCore, errCore))
}

// NewFileLogger writes timestamped entries at or above level, one JSON object
// per line when json is set.
func NewFileLogger(w io.Writer, level zapcore.Level, json bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// RotationPolicy bounds the size of log files written by long chat sessions.
type RotationPolicy struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func NewRotatingWriter(path string, policy RotationPolicy) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    policy.MaxSizeMB,
		MaxBackups: policy.MaxBackups,
		MaxAge:     policy.MaxAgeDays,
	}
}
