package schedule

// Snapshot represents a per-teacher schedule at a point in time
type Snapshot struct {
	Teachers  map[string][]Entry `json:"teachers"`
	UpdatedAt string             `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Teachers: make(map[string][]Entry),
	}
}

// CreateSnapshot creates a snapshot from an Index
func CreateSnapshot(ix *Index, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	for _, name := range ix.Teachers() {
		entries := ix.Entries(name)
		snap.Teachers[name] = append([]Entry(nil), entries...)
	}

	return snap
}

// Index rebuilds an Index from the snapshot.
func (s *Snapshot) Index() *Index {
	ix := NewIndex()
	for name, entries := range s.Teachers {
		for _, e := range entries {
			ix.AddEntry(name, e)
		}
	}
	return ix
}

// DiffResult contains the entries present in the current index but not in the
// previous snapshot.
type DiffResult struct {
	NewEntries *Index
	Teachers   []string // teachers with at least one new entry, sorted
}

// Diff compares the current index against a previous snapshot and returns new entries
func Diff(previous *Snapshot, current *Index) *DiffResult {
	if previous == nil {
		previous = NewSnapshot()
	}
	prev := previous.Index()

	result := &DiffResult{NewEntries: NewIndex()}
	for _, name := range current.Teachers() {
		for _, e := range current.Entries(name) {
			if prev.Has(name, e) {
				continue
			}
			result.NewEntries.AddEntry(name, e)
		}
	}
	result.Teachers = result.NewEntries.Teachers()

	return result
}
