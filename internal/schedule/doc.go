// Package schedule defines the domain types for CyberPill class visits.
//
// A Visit is one delivery of a CyberPill to a group, found inside a class-period
// cell of the schedule table. Visits are folded into an Index, which keeps an
// ordered, duplicate-free list of Entry values per teacher. Snapshots of an Index
// can be persisted and diffed to find the entries added since the previous run.
package schedule
