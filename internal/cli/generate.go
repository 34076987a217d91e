package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cyberpills/avisos/internal/calendar"
	"github.com/cyberpills/avisos/internal/contacts"
	"github.com/cyberpills/avisos/internal/filter"
	"github.com/cyberpills/avisos/internal/logger"
	"github.com/cyberpills/avisos/internal/render"
	"github.com/cyberpills/avisos/internal/schedule"
	"github.com/cyberpills/avisos/internal/scraper"
	"github.com/cyberpills/avisos/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagInput       string
	flagContacts    string
	flagOutput      string
	flagEngine      string
	flagXLSX        string
	flagCSV         string
	flagICS         string
	flagDB          string
	flagSnapshotDir string
	flagOnlyNew     bool
	flagTeachers    []string
	flagGroups      []string
	flagSort        string
	flagFormat      string
	flagSummary     bool
	flagExitCode    bool
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the per-teacher avisos page",
		Long: `Scrape the CyberPill visits out of the schedule page, group them per
teacher, look up each teacher's email in the contacts export and write the
avisos page. Optional outputs: spreadsheet, CSV, calendar, SQLite archive and
a snapshot used to report entries added since the previous run.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&flagInput, "input", "i", "", "Schedule page (default: files.schedule)")
	cmd.Flags().StringVar(&flagContacts, "contacts", "", "Contacts export, .csv or .xlsx (default: files.contacts)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Avisos page to write (default: files.output)")
	cmd.Flags().StringVar(&flagEngine, "engine", "", "Extraction engine: dom or regex (default: extract.engine)")
	cmd.Flags().StringVar(&flagXLSX, "xlsx", "", "Also write the entries as a spreadsheet")
	cmd.Flags().StringVar(&flagCSV, "csv", "", "Also write the entries as CSV")
	cmd.Flags().StringVar(&flagICS, "ics", "", "Also write the visits as an iCalendar file")
	cmd.Flags().StringVar(&flagDB, "db", "", "Archive the entries in a SQLite database")
	cmd.Flags().StringVar(&flagSnapshotDir, "snapshot-dir", "", "Directory for the schedule snapshot (default: snapshot.dir)")
	cmd.Flags().BoolVar(&flagOnlyNew, "only-new", false, "Only render entries added since the previous snapshot")
	cmd.Flags().StringArrayVar(&flagTeachers, "teacher", nil, "Only teachers whose name contains all these words (repeatable)")
	cmd.Flags().StringArrayVar(&flagGroups, "group", nil, "Only entries whose group contains this text (repeatable)")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByName), "Row order: name, entries or email")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagSummary, "summary", false, "Print a per-teacher table")
	cmd.Flags().BoolVar(&flagExitCode, "exit-code", false, "Exit with status 2 when the snapshot has new entries")

	return cmd
}

// stringFlag returns the flag value when it was set, fallback otherwise.
func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

// runGenerate is the main command logic
func runGenerate(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	sortOrder, err := parseSortOrder(flagSort)
	if err != nil {
		return err
	}

	schedulePath := stringFlag(cmd, "input", flagInput, cfg.Files.Schedule)
	contactsPath := stringFlag(cmd, "contacts", flagContacts, cfg.Files.Contacts)
	outputPath := stringFlag(cmd, "output", flagOutput, cfg.Files.Output)
	engine := stringFlag(cmd, "engine", flagEngine, cfg.Extract.Engine)
	snapshotDir := stringFlag(cmd, "snapshot-dir", flagSnapshotDir, cfg.Snapshot.Dir)

	if flagOnlyNew && snapshotDir == "" {
		return fmt.Errorf("--only-new requires --snapshot-dir")
	}

	// Messages go to stdout, except in JSON mode where stdout only carries the result
	out := cmd.OutOrStdout()
	msg := out
	if format == FormatJSON {
		msg = cmd.ErrOrStderr()
	}

	sc, err := scraper.New(scraper.Engine(engine))
	if err != nil {
		return err
	}

	if _, err := os.Stat(schedulePath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(msg, "Error: %s not found.\n", schedulePath)
		return nil
	}

	start := time.Now()

	dir := loadContacts(msg, contactsPath, cfg.Columns())
	fmt.Fprintf(msg, "Loaded %d teacher contacts.\n", dir.Len())

	visits, err := sc.ParseFile(schedulePath)
	if errors.Is(err, scraper.ErrNotFound) {
		fmt.Fprintf(msg, "Error: %s not found.\n", schedulePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("parsing schedule: %w", err)
	}

	full := schedule.BuildIndex(visits)
	logger.Info("Schedule parsed", logger.Fields{
		"file":     schedulePath,
		"engine":   string(sc.Engine()),
		"visits":   len(visits),
		"teachers": full.Len(),
		"entries":  full.EntryCount(),
	})

	// Snapshot diff runs on the unfiltered schedule so that filters do not
	// shrink the stored state
	var (
		store       *storage.Storage
		snapSummary *SnapshotSummary
	)
	current := full
	if snapshotDir != "" {
		var diff *schedule.DiffResult
		store, diff, err = diffSnapshot(snapshotDir, full)
		if err != nil {
			return err
		}
		snapSummary = &SnapshotSummary{
			Path:       store.SnapshotPath(),
			NewEntries: diff.NewEntries.EntryCount(),
			Teachers:   diff.Teachers,
		}
		if flagOnlyNew {
			current = diff.NewEntries
		}
	}

	f := filter.NewFilter()
	f.Teachers = append(f.Teachers, flagTeachers...)
	f.Groups = append(f.Groups, flagGroups...)
	current = f.Apply(current)

	report := render.Build(current, dir)
	sortRows(report.Rows, sortOrder)

	if err := (&render.HTMLWriter{}).Write(outputPath, report); err != nil {
		return fmt.Errorf("writing avisos page: %w", err)
	}
	fmt.Fprintf(msg, "Successfully created %s with single-line entry format.\n", outputPath)

	result := newOutputResult(report)
	result.Schedule = schedulePath
	result.Output = outputPath
	result.Engine = string(sc.Engine())
	result.Contacts = dir.Len()
	result.Snapshot = snapSummary
	if !f.IsEmpty() {
		result.Filter = f.String()
	}

	exports, err := writeExports(report)
	if err != nil {
		return err
	}
	result.Exports = exports

	if flagDB != "" {
		archived, err := archiveReport(cmd, flagDB, schedulePath, report)
		if err != nil {
			return err
		}
		result.Archive = archived
	}

	// The snapshot is saved last: a failed run must report the same new
	// entries next time
	if store != nil {
		if err := store.SaveIndex(full); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}

	logger.SetGauge("generate.teachers", float64(result.TeacherCount))
	logger.SetGauge("generate.entries", float64(result.EntryCount))
	logger.SetGauge("generate.contacts", float64(result.Contacts))
	logger.RecordTiming("generate.duration", time.Since(start))
	logger.Debug("Generate finished", logger.Fields{"metrics": logger.GetMetricsSnapshot()})

	if err := WriteOutput(out, result, format, flagSummary); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagExitCode && snapSummary != nil && snapSummary.NewEntries > 0 {
		return errNewEntries
	}
	return nil
}

// loadContacts loads the contacts export. Failures are reported on msg and
// leave an empty directory, so generation goes on without emails.
func loadContacts(msg io.Writer, path string, cols contacts.Columns) *contacts.Directory {
	dir, err := contacts.Load(path, cols)
	switch {
	case errors.Is(err, contacts.ErrNotFound):
		fmt.Fprintf(msg, "Warning: %s not found. Emails will be skipped.\n", path)
		return &contacts.Directory{}
	case errors.Is(err, contacts.ErrMissingColumns):
		fmt.Fprintln(msg, "Error: Required columns not found in CSV.")
		return &contacts.Directory{}
	case err != nil:
		logger.Warn("Could not read contacts", logger.Fields{"file": path, "error": err.Error()})
		return &contacts.Directory{}
	}
	return dir
}

// diffSnapshot compares ix with the stored snapshot. It does not save
// anything; the caller saves once every output has been written.
func diffSnapshot(dataDir string, ix *schedule.Index) (*storage.Storage, *schedule.DiffResult, error) {
	store, err := storage.New(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}

	previous, err := store.LoadSnapshot()
	if err != nil {
		return nil, nil, fmt.Errorf("loading snapshot: %w", err)
	}

	diff := schedule.Diff(previous, ix)

	logger.Debug("Snapshot compared", logger.Fields{
		"path":        store.SnapshotPath(),
		"previous_at": previous.UpdatedAt,
		"new_entries": diff.NewEntries.EntryCount(),
	})

	return store, diff, nil
}

func writeExports(report *render.Report) ([]string, error) {
	var written []string

	exports := []struct {
		path   string
		format string
	}{
		{flagXLSX, "xlsx"},
		{flagCSV, "csv"},
		{flagICS, "ics"},
	}

	for _, exp := range exports {
		if exp.path == "" {
			continue
		}

		var writer render.Writer
		if exp.format == "ics" {
			writer = &calendar.Writer{}
		} else {
			w, err := render.WriterForFormat(exp.format)
			if err != nil {
				return written, err
			}
			writer = w
		}

		if err := writer.Write(exp.path, report); err != nil {
			return written, fmt.Errorf("writing %s: %w", exp.path, err)
		}
		written = append(written, exp.path)
	}

	return written, nil
}

func archiveReport(cmd *cobra.Command, path, source string, report *render.Report) (*ArchiveSummary, error) {
	ctx := cmd.Context()

	archive, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer archive.Close()

	var records []storage.Record
	for _, row := range report.Rows {
		for _, e := range row.Entries {
			records = append(records, storage.Record{Teacher: row.Teacher, Email: row.Email, Entry: e})
		}
	}

	inserted, err := archive.Archive(ctx, records, source)
	if err != nil {
		return nil, fmt.Errorf("archiving entries: %w", err)
	}

	total, err := archive.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &ArchiveSummary{Path: path, Inserted: inserted, Total: total}, nil
}
