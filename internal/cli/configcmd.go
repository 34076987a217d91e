package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/cyberpills/avisos/internal/config"
	"github.com/spf13/cobra"
)

var flagForce bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the avisos configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	// init and validate must work while the current file is broken, so they
	// skip the root config loading
	create := &cobra.Command{
		Use:               "init [PATH]",
		Short:             "Write the example configuration file",
		Long:              "Write the commented example configuration to PATH (default: .avisos.yaml).",
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: skipConfig,
		RunE:              runConfigInit,
	}
	create.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")

	validate := &cobra.Command{
		Use:   "validate [PATH]",
		Short: "Check a configuration file",
		Long: `Check a configuration file without running anything.
PATH defaults to --config, then .avisos.yaml.`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: skipConfig,
		RunE:              runConfigValidate,
	}

	cmd.AddCommand(show, create, validate)
	return cmd
}

func skipConfig(*cobra.Command, []string) error {
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	content, err := cfg.YAML()
	if err != nil {
		return err
	}

	source := cfg.Source
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(out, "# source: %s\n", source)
	fmt.Fprint(out, content)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigName + ".yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote example configuration to %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		path = config.ConfigName + ".yaml"
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if _, err := config.ValidateYAMLContent(content); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid.\n", path)
	return nil
}
