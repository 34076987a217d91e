// Package render turns a per-teacher schedule into the avisos report and its
// tabular exports.
//
// The HTML report is a single self-contained page (inline styles, no external
// assets) with one table row per teacher. The CSV and xlsx exports carry one
// line per (teacher, visit) pair.
package render
