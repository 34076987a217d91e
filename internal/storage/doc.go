// Package storage persists generated schedules between runs.
//
// Snapshots are JSON files holding the per-teacher schedule of the previous
// run (schedule_snapshot.json in the data directory). They let the generator
// report which teachers got new visits since the last time avisos were sent.
//
// SQLiteArchive keeps every (teacher, visit) pair ever generated in a SQLite
// database so older schedules can still be queried after index.html changes.
package storage
