package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/cyberpills/avisos/internal/config"
	"github.com/cyberpills/avisos/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitNewEntries = 2
)

// errNewEntries is returned by generate --exit-code when the snapshot diff
// found new entries. Execute turns it into ExitNewEntries.
var errNewEntries = errors.New("new entries found")

var (
	flagConfig  string
	flagVerbose bool

	// cfg is loaded once per invocation by the root PersistentPreRunE.
	cfg *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avisos",
		Short: "CyberPill visit schedule tools",
		Long: `Tools around the CyberPill visit schedule (index.html) and the teacher
contacts export: fix known typos in the schedule, generate the per-teacher
avisos page, and inspect the contacts export.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: .avisos.yaml in $HOME or the working directory)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newFixTyposCmd(),
		newGenerateCmd(),
		newInspectCmd(),
		newConfigCmd(),
		newHistoryCmd(),
	)

	return cmd
}

// loadConfig reads the configuration and sets up logging before any subcommand runs.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	level := logger.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	logger.Debug("Configuration loaded", logger.Fields{
		"source":   cfg.Source,
		"schedule": cfg.Files.Schedule,
		"contacts": cfg.Files.Contacts,
		"engine":   cfg.Extract.Engine,
	})

	return nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	_ = logger.Default().Sync()

	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, errNewEntries):
		os.Exit(ExitNewEntries)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
