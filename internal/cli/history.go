package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cyberpills/avisos/internal/schedule"
	"github.com/cyberpills/avisos/internal/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	flagHistoryDB      string
	flagHistoryTeacher string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the archive runs of a SQLite database",
		Long: `List the runs recorded by generate --db, oldest first.
With --teacher, print the archived entries of that teacher instead.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().StringVar(&flagHistoryDB, "db", "", "SQLite archive written by generate --db")
	cmd.Flags().StringVar(&flagHistoryTeacher, "teacher", "", "Print the archived entries of this teacher")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	// OpenSQLite creates missing files
	if _, err := os.Stat(flagHistoryDB); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Error: %s not found.\n", flagHistoryDB)
		return nil
	}

	archive, err := storage.OpenSQLite(flagHistoryDB)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer archive.Close()

	if flagHistoryTeacher != "" {
		teacher := schedule.NormalizeTeacherName(flagHistoryTeacher)
		entries, err := archive.TeacherEntries(ctx, teacher)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(out, "No archived entries for %s.\n", teacher)
			return nil
		}
		fmt.Fprintf(out, "%s (%d):\n", teacher, len(entries))
		for _, e := range entries {
			fmt.Fprintf(out, "  %s | %s | %s | %s\n", e.Header, e.Group, e.Timing, e.Comment)
		}
		return nil
	}

	runs, err := archive.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No archive runs.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Run", "Fecha", "Nuevos", "Horario"})
	table.SetAutoWrapText(false)
	total := 0
	for _, r := range runs {
		table.Append([]string{r.ID, r.CreatedAt, strconv.Itoa(r.Inserted), r.SourceFile})
		total += r.Inserted
	}
	table.SetFooter([]string{"", "Total", strconv.Itoa(total), ""})
	table.Render()

	return nil
}
