package cli

import (
	"errors"
	"fmt"

	"github.com/cyberpills/avisos/internal/contacts"
	"github.com/spf13/cobra"
)

var flagLimit int

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect-csv [FILE]",
		Short: "Print a diagnostic view of the contacts export",
		Long: `Print the header of the contacts export, where the email column is, and
the first rows that look like teachers. Nothing is written.
FILE defaults to files.contacts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().IntVar(&flagLimit, "limit", contacts.DefaultInspectLimit, "Maximum number of teacher candidates to print")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := cfg.Files.Contacts
	if len(args) == 1 {
		path = args[0]
	}

	err := contacts.Inspect(out, path, cfg.Columns(), flagLimit)
	switch {
	case errors.Is(err, contacts.ErrNotFound):
		fmt.Fprintf(out, "Error: %s not found.\n", path)
		return nil
	case err != nil:
		return fmt.Errorf("inspecting contacts: %w", err)
	}

	return nil
}
