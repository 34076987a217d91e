// Package typos patches known typos in the schedule HTML.
//
// The fixer applies an ordered list of literal find/replace pairs to the raw
// file content. It never parses the markup and only rewrites the file when at
// least one replacement happened, so running it a second time is a no-op.
package typos
