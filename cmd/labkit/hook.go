// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/hook"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/notify"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Event hooks run by the assistant host",
	Long: `Each hook reads one JSON event from stdin. Matching events produce a
notification log under History/<Category>/<YYYY-MM>/Notifications, an index
entry, and a voice notification. Hooks always exit 0 so they never block
the host; failures are logged to stderr.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			logger.Error("hook setup failed", zap.Error(err))
		}
		return nil
	},
}

var hookExperimentCmd = &cobra.Command{
	Use:   "experiment-complete",
	Short: "Handle an experiment-completion event",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHook(hook.ExperimentComplete),

	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
}

var hookPaperCmd = &cobra.Command{
	Use:   "paper-analyzed",
	Short: "Handle a paper-analysis event",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHook(hook.PaperAnalyzed),

	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
}

func init() {
	hookCmd.AddCommand(hookExperimentCmd, hookPaperCmd)
	rootCmd.AddCommand(hookCmd)
}

func runHook(h hook.Handler) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		cfg, err := labConfig()
		if err != nil {
			logger.Error("hook not run", zap.String("hook", h.Name), zap.Error(err))
			return nil
		}
		env := hook.Env{
			Store:    newStore(cfg),
			Notifier: notify.New(cfg.VoicePort, logger),
			Out:      cmd.OutOrStdout(),
			Logger:   logger,
		}
		outcome := hook.Run(cmd.Context(), os.Stdin, env, h)
		logger.Debug("hook finished", zap.String("hook", h.Name), zap.String("outcome", string(outcome)))
		return nil
	}
}
