package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kardolus/deskpilot/cmd/deskpilot/utils"
	"github.com/kardolus/deskpilot/internal"
)

const (
	chatHistoryFile = "chat_history"

	metaProcedures = "procedures"
	metaForget     = "forget"
	metaTeach      = "teach"
	metaQuit       = "quit"

	chatHelp = "Commands: :procedures, :forget <description>, :teach <explanation>, :quit"
)

func newChatCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the agent interactively",
		Long: "Start an interactive session. Each line is a goal, or the answer to the agent's open question.\n" +
			chatHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, v, func(a *app) error {
				return a.chat(cmd.Context())
			})
		},
	}
}

func (a *app) chat(ctx context.Context) error {
	rlConfig := &readline.Config{
		Prompt:          a.prompt(0),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if cacheHome, err := internal.GetCacheHome(); err == nil {
		rlConfig.HistoryFile = filepath.Join(cacheHome, chatHistoryFile)
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return err
	}
	defer rl.Close()

	a.print(chatHelp)

	counter := 0
	for {
		if a.agent.HasPendingQuestion() {
			rl.SetPrompt(utils.PendingPrompt)
		} else {
			rl.SetPrompt(a.prompt(counter))
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if cmd, rest, ok := utils.SplitMeta(line); ok {
			if a.meta(ctx, cmd, rest) {
				return nil
			}
			continue
		}

		counter++
		resp := a.agent.HandleMessage(ctx, line, a.conversation())
		a.print(resp)
		a.record(line, resp)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// meta runs a ':' command and reports whether the session should end.
func (a *app) meta(ctx context.Context, cmd, arg string) bool {
	switch cmd {
	case metaQuit, "exit", "q":
		return true
	case metaProcedures:
		a.print(a.agent.ListProcedures())
	case metaForget:
		if arg == "" {
			a.print("Usage: :forget <description>")
			return false
		}
		a.print(a.agent.ForgetProcedure(arg))
	case metaTeach:
		if arg == "" {
			a.print("Usage: :teach <explanation>")
			return false
		}
		a.print(a.agent.Teach(ctx, arg))
	default:
		a.print(chatHelp)
	}
	return false
}

func (a *app) prompt(counter int) string {
	return utils.FormatPrompt(a.cfg.CommandPrompt, counter, len(a.procedures.List()), time.Now())
}
