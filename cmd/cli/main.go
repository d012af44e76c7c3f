package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jakechorley/placement-allocator/cmd/cli/commands"
	"github.com/jakechorley/placement-allocator/pkg/utils/logging"
)

var (
	env        string
	configPath string
	verbose    bool
	app        = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "placement",
		Short: "Placement Allocator CLI - Screen resumes and allocate candidates to positions",
		Long: `A CLI tool for screening resumes, scoring candidates against positions,
and allocating candidates to internship positions round-robin.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects placement_config.<env>.yaml and the log file prefix)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (overrides the search)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to the console")

	rootCmd.AddCommand(commands.ImportCmd(app))
	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.DeallocateCmd(app))
	rootCmd.AddCommand(commands.StatsCmd(app))
	rootCmd.AddCommand(commands.ExportCmd(app))
	rootCmd.AddCommand(commands.NotifyCmd(app))
	rootCmd.AddCommand(commands.ValidateResumeCmd(app))
	rootCmd.AddCommand(commands.ExtractSkillsCmd(app))
	rootCmd.AddCommand(commands.ScoreResumeCmd(app))
	rootCmd.AddCommand(commands.AnalyzeResumeCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger. Everything else is created on first use.
func initApp() error {
	if app.Logger != nil {
		return nil
	}

	consoleLevel := zapcore.InfoLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}

	logger, err := logging.InitLogger(env, logging.WithConsoleLevel(consoleLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Debug("Starting application", zap.String("environment", env))

	app.Env = env
	app.ConfigPath = configPath
	app.Ctx = context.Background()
	app.Logger = logger
	return nil
}
