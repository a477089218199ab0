package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kardolus/deskpilot/agent"
	"github.com/kardolus/deskpilot/cache"
	"github.com/kardolus/deskpilot/client"
	"github.com/kardolus/deskpilot/cmd/deskpilot/utils"
	"github.com/kardolus/deskpilot/desktop"
	"github.com/kardolus/deskpilot/history"
	"github.com/kardolus/deskpilot/http"
	"github.com/kardolus/deskpilot/internal"
	"github.com/kardolus/deskpilot/procedure"
	"github.com/kardolus/deskpilot/types"
	"github.com/kardolus/deskpilot/websearch"
)

const researchCacheDir = "research"

// app is everything one CLI invocation needs, wired from the configuration.
type app struct {
	cfg        types.Config
	agent      *agent.Agent
	procedures *procedure.Store
	history    *history.Manager
	logs       *agent.Logs
	console    *zap.SugaredLogger

	out          io.Writer
	color, reset string
}

func newApp(cfg types.Config, out io.Writer) (*app, error) {
	logs, err := agent.NewLogs(internal.RotationPolicy{
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("open logs: %w", err)
	}

	console := zap.S()
	human := logs.HumanZap
	if cfg.Debug {
		// mirror the step transcript on the terminal
		human = logs.Mirror(zap.L())
	}

	reasoner, err := client.New(cfg, http.RealCallerFactory, client.WithLogger(logs.DebugLogger))
	if err != nil {
		logs.Close()
		return nil, err
	}

	procedures, err := newProcedureStore(cfg, logs.DebugLogger)
	if err != nil {
		logs.Close()
		return nil, err
	}
	learner := procedure.NewLearner(procedures, reasoner, agent.Catalogue(), logs.DebugLogger)

	bridgeCaller := http.New(types.Config{}).WithTimeout(seconds(cfg.Bridge.TimeoutSeconds))
	bridge := desktop.New(bridgeCaller, cfg.Bridge, desktop.WithLogger(logs.DebugLogger))

	clock := agent.NewRealClock()
	executor := agent.NewDefaultExecutor(bridge, bridge, agent.NewExecShellRunner(), clock,
		agent.WithCommandTimeout(seconds(cfg.Agent.CommandTimeoutSeconds)),
		agent.WithExecutorLogger(logs.DebugLogger),
	)

	var planner *agent.LoggingPlanner
	inner := agent.NewDefaultPlanner(reasoner,
		agent.WithPlannerRawSink(func(raw string) { planner.WriteRaw(raw) }),
		agent.WithPlannerLimits(cfg.Agent.ScreenChars, cfg.Agent.ContextChars),
	)
	planner = agent.NewLoggingPlanner(inner, logs)

	deps := agent.Deps{
		Clock:      clock,
		Planner:    planner,
		Executor:   executor,
		Observer:   bridge,
		Procedures: procedures,
		Reasoner:   reasoner,
		Windows:    bridge,
		Teacher:    learner,
	}
	if !cfg.Research.Disabled {
		searcher, err := newSearcher(cfg, logs.DebugLogger)
		if err != nil {
			logs.Close()
			return nil, err
		}
		deps.Researcher = searcher
	}

	a, err := agent.New(deps,
		agent.WithSettings(agent.SettingsFromConfig(cfg)),
		agent.WithHumanLogger(human.Sugar(), func() { _ = human.Sync() }),
		agent.WithDebugLogger(logs.DebugLogger, func() { _ = logs.DebugZap.Sync() }),
	)
	if err != nil {
		logs.Close()
		return nil, err
	}

	color, reset := utils.ColorToAnsi(cfg.OutputColor)
	return &app{
		cfg:        cfg,
		agent:      a,
		procedures: procedures,
		history:    history.NewManager(history.New()),
		logs:       logs,
		console:    console,
		out:        out,
		color:      color,
		reset:      reset,
	}, nil
}

func newProcedureStore(cfg types.Config, log *zap.SugaredLogger) (*procedure.Store, error) {
	path, err := internal.ExpandPath(cfg.Procedures.Path)
	if err != nil {
		return nil, fmt.Errorf("procedures path: %w", err)
	}

	p := cfg.Procedures
	matcher := procedure.NewMatcher(procedure.LanguageFor(p.Language), p.MatchMinScore, p.MatchMinRatio, p.DescriptionBonusCap)
	return procedure.NewStore(procedure.NewFileStore(path),
		procedure.WithMatcher(matcher),
		procedure.WithLogger(log),
	), nil
}

func newSearcher(cfg types.Config, log *zap.SugaredLogger) (*websearch.Searcher, error) {
	cacheHome, err := internal.GetCacheHome()
	if err != nil {
		return nil, err
	}

	caller := http.New(types.Config{}).
		WithTimeout(seconds(cfg.Research.TimeoutSeconds)).
		WithUserAgent(cfg.Research.UserAgent)
	opts := []websearch.Option{websearch.WithLogger(log)}
	if cfg.Research.CacheTTLHours > 0 {
		research := cache.New(cache.NewFileStore(filepath.Join(cacheHome, researchCacheDir)),
			cache.WithTTL(time.Duration(cfg.Research.CacheTTLHours)*time.Hour),
		)
		opts = append(opts, websearch.WithCache(research))
	}

	return websearch.New(caller, cfg.Research, opts...), nil
}

func (a *app) Close() {
	a.logs.Close()
}

func (a *app) print(msg string) {
	fmt.Fprintf(a.out, "%s%s%s\n", a.color, msg, a.reset)
}

// conversation is the recent transcript handed to the planner.
func (a *app) conversation() string {
	convo, err := a.history.Context(a.cfg.Agent.ContextChars)
	if err != nil {
		a.console.Debugf("history: %v", err)
		return ""
	}
	return convo
}

func (a *app) record(user, reply string) {
	if err := a.history.Record(user, reply); err != nil {
		a.console.Warnf("could not save the conversation: %v", err)
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
