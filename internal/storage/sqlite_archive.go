package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cyberpills/avisos/internal/schedule"
	"github.com/segmentio/ksuid"
	_ "modernc.org/sqlite"
)

// Record is one archived (teacher, entry) pair.
type Record struct {
	Teacher string
	Email   string
	Entry   schedule.Entry
}

// Run is one Archive call, identified by a KSUID.
type Run struct {
	ID         string
	SourceFile string
	Inserted   int
	CreatedAt  string
}

// SQLiteArchive stores every generated teacher visit.
type SQLiteArchive struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the archive database at path.
func OpenSQLite(path string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	archive := &SQLiteArchive{db: db}
	if err := archive.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return archive, nil
}

func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

func (a *SQLiteArchive) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS teacher_visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	teacher TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	slot TEXT NOT NULL,
	group_name TEXT NOT NULL,
	timing TEXT NOT NULL,
	comment TEXT NOT NULL,
	entry TEXT NOT NULL,
	source_file TEXT NOT NULL,
	run_id TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(teacher, entry)
);
CREATE INDEX IF NOT EXISTS idx_teacher_visits_teacher ON teacher_visits(teacher);

CREATE TABLE IF NOT EXISTS archive_runs (
	id TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	inserted INTEGER NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := a.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Archive inserts the records in one transaction and returns how many were new.
// Records already archived for the same teacher are ignored. Every call that
// has records is logged in archive_runs.
func (a *SQLiteArchive) Archive(ctx context.Context, records []Record, sourceFile string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO teacher_visits (
	teacher,
	email,
	slot,
	group_name,
	timing,
	comment,
	entry,
	source_file,
	run_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	runID := ksuid.New().String()

	stmt, err := tx.PrepareContext(ctx, insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx,
			r.Teacher,
			r.Email,
			r.Entry.Header,
			r.Entry.Group,
			string(r.Entry.Timing),
			r.Entry.Comment,
			r.Entry.String(),
			sourceFile,
			runID,
		)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert teacher visit: %w", err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO archive_runs (id, source_file, inserted) VALUES (?, ?, ?);`,
		runID, sourceFile, inserted,
	); err != nil {
		_ = tx.Rollback()
		return inserted, fmt.Errorf("insert archive run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

// Count returns the number of archived visits.
func (a *SQLiteArchive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teacher_visits;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count teacher visits: %w", err)
	}
	return n, nil
}

// TeacherEntries returns the archived entries of a teacher in insertion order.
func (a *SQLiteArchive) TeacherEntries(ctx context.Context, teacher string) ([]schedule.Entry, error) {
	rows, err := a.db.QueryContext(ctx, `
SELECT slot, group_name, timing, comment
FROM teacher_visits
WHERE teacher = ?
ORDER BY id;`, teacher)
	if err != nil {
		return nil, fmt.Errorf("query teacher visits: %w", err)
	}
	defer rows.Close()

	var entries []schedule.Entry
	for rows.Next() {
		var (
			e      schedule.Entry
			timing string
		)
		if err := rows.Scan(&e.Header, &e.Group, &timing, &e.Comment); err != nil {
			return nil, fmt.Errorf("scan teacher visit: %w", err)
		}
		e.Timing = schedule.Timing(timing)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teacher visits: %w", err)
	}

	return entries, nil
}

// Runs returns the archive runs, oldest first.
func (a *SQLiteArchive) Runs(ctx context.Context) ([]Run, error) {
	rows, err := a.db.QueryContext(ctx, `
SELECT id, source_file, inserted, created_at
FROM archive_runs
ORDER BY rowid;`)
	if err != nil {
		return nil, fmt.Errorf("query archive runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.Inserted, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan archive run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive runs: %w", err)
	}

	return runs, nil
}
