package cli

import (
	"errors"
	"fmt"

	"github.com/cyberpills/avisos/internal/logger"
	"github.com/cyberpills/avisos/internal/typos"
	"github.com/spf13/cobra"
)

var flagDryRun bool

func newFixTyposCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-typos [FILE]",
		Short: "Fix known typos in the schedule page",
		Long: `Replace every occurrence of the known typos (plus typos.extra from the
config) in the schedule page and rewrite it when something changed.
FILE defaults to files.schedule.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFixTypos,
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Report replacements without rewriting the file")

	return cmd
}

func runFixTypos(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := cfg.Files.Schedule
	if len(args) == 1 {
		path = args[0]
	}

	fixer := typos.NewDefault(cfg.Typos.Extra...)
	logger.Debug("Fixing typos", logger.Fields{
		"file":         path,
		"replacements": len(fixer.Replacements()),
		"dry_run":      flagDryRun,
	})

	result, err := fixer.FixFile(path, flagDryRun)
	if errors.Is(err, typos.ErrNotFound) {
		fmt.Fprintf(out, "Error: %s not found.\n", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fixing typos: %w", err)
	}

	typos.WriteReport(out, path, result)
	if flagDryRun && result.Total > 0 {
		fmt.Fprintln(out, "Dry run: file not modified.")
	}

	return nil
}
