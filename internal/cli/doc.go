// Package cli implements the command-line interface for avisos.
//
// The cli package provides the Cobra-based CLI: fix-typos patches known typos
// in the schedule page, generate builds the per-teacher avisos page (plus
// optional spreadsheet, CSV, calendar, SQLite and snapshot outputs), and
// inspect-csv prints a diagnostic view of the contacts export. Settings come
// from the config package; flags override them.
package cli
