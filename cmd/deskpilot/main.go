package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/kardolus/deskpilot/agent"
	"github.com/kardolus/deskpilot/cmd/deskpilot/utils"
	"github.com/kardolus/deskpilot/config"
	"github.com/kardolus/deskpilot/history"
	"github.com/kardolus/deskpilot/internal"
	"github.com/kardolus/deskpilot/types"
)

const (
	flagConfig    = "config"
	flagProvider  = "provider"
	flagModel     = "model"
	flagBridgeURL = "bridge-url"
	flagVerbose   = "verbose"
	flagFile      = "file"
)

var GitVersion = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "deskpilot [goal...]",
		Short: "Desktop automation agent",
		Long: "deskpilot works toward a goal on your desktop: it reads the screen, plans, acts and checks the result,\n" +
			"and remembers what worked so it can repeat it next time.",
		Version:       GitVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			goal := strings.TrimSpace(strings.Join(args, " "))
			if goal == "" {
				return cmd.Help()
			}
			return withApp(cmd, v, func(a *app) error {
				resp := a.agent.ExecuteGoal(cmd.Context(), agent.GoalRequest{Goal: goal, Context: a.conversation()})
				a.print(resp)
				a.record(goal, resp)
				return nil
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagConfig, "", "Path to the config file")
	flags.String(flagProvider, "", "Reasoning provider: openai, cohere, gemini or ollama")
	flags.String(flagModel, "", "Model used by the reasoning provider")
	flags.String(flagBridgeURL, "", "Address of the desktop automation helper")
	flags.BoolP(flagVerbose, "v", false, "Show every step and debug output")

	for _, name := range []string{flagConfig, flagProvider, flagModel, flagBridgeURL, flagVerbose} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(
		newChatCmd(v),
		newTeachCmd(v),
		newProceduresCmd(v),
		newHistoryCmd(),
		newConfigCmd(v),
	)
	return rootCmd
}

func newTeachCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teach [explanation...]",
		Short: "Teach a procedure in your own words",
		Example: `  deskpilot teach to check my grades open chrome, go to classroom and click Grades
  deskpilot teach --file steps.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			explanation := strings.Join(args, " ")
			if file, _ := cmd.Flags().GetString(flagFile); file != "" {
				text, err := utils.FileToString(file)
				if err != nil {
					return err
				}
				explanation = strings.TrimSpace(explanation + "\n" + text)
			}
			if strings.TrimSpace(explanation) == "" {
				return errors.New("nothing to teach: pass an explanation or --file")
			}
			return withApp(cmd, v, func(a *app) error {
				a.print(a.agent.Teach(cmd.Context(), explanation))
				return nil
			})
		},
	}
	cmd.Flags().String(flagFile, "", "Read the explanation from a file")
	return cmd
}

func newProceduresCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "procedures",
		Short: "List or forget learned procedures",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List learned procedures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, v, func(a *app) error {
				a.print(a.agent.ListProcedures())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "forget <description...>",
		Short: "Forget a learned procedure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, v, func(a *app) error {
				a.print(a.agent.ForgetProcedure(strings.Join(args, " ")))
				return nil
			})
		},
	})
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the conversation transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := history.NewManager(history.New()).Print()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the conversation transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return history.NewManager(history.New()).Clear()
		},
	})
	return cmd
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := loadConfig(v)
			out, err := mgr.ShowConfig()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// loadConfig layers defaults, the config file and DESKPILOT_* variables, then
// applies the command line flags on top.
func loadConfig(v *viper.Viper) *config.Manager {
	store := config.New()
	if path := v.GetString(flagConfig); path != "" {
		store = store.WithConfigPath(path)
	}

	mgr := config.NewManager(store).WithEnvironment()
	applyFlags(v, &mgr.Config)
	return mgr
}

func applyFlags(v *viper.Viper, cfg *types.Config) {
	if s := v.GetString(flagProvider); s != "" {
		cfg.Provider = s
	}
	if s := v.GetString(flagModel); s != "" {
		cfg.Model = s
	}
	if s := v.GetString(flagBridgeURL); s != "" {
		cfg.Bridge.URL = s
	}
	if v.GetBool(flagVerbose) {
		cfg.Debug = true
	}
}

func withApp(cmd *cobra.Command, v *viper.Viper, fn func(*app) error) error {
	cfg := loadConfig(v).Config

	if cfg.APIKey == "" && cfg.APIKeyFile != "" {
		key, err := config.ReadAPIKeyFile(cfg.APIKeyFile)
		if err != nil {
			return err
		}
		cfg.APIKey = key
	}

	initConsoleLogger(cfg.Debug)

	a, err := newApp(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

func initConsoleLogger(debug bool) {
	if debug {
		internal.SetAllowedLogLevels(zapcore.InfoLevel, zapcore.DebugLevel)
		return
	}
	internal.SetAllowedLogLevels(zapcore.InfoLevel)
}
