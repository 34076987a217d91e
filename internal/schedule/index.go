package schedule

import "sort"

// Index maps teacher display names to their ordered, duplicate-free entries.
// Entry order per teacher is discovery order.
type Index struct {
	entries map[string][]Entry
	seen    map[string]map[string]struct{}
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string][]Entry),
		seen:    make(map[string]map[string]struct{}),
	}
}

// BuildIndex folds visits into a new Index in the given order.
func BuildIndex(visits []Visit) *Index {
	ix := NewIndex()
	for _, v := range visits {
		ix.Add(v)
	}
	return ix
}

// Add records the visit entry for every teacher on the visit and returns the
// number of entries that were actually added.
func (ix *Index) Add(v Visit) int {
	entry := v.Entry()
	added := 0
	for _, raw := range v.Teachers {
		if ix.AddEntry(raw, entry) {
			added++
		}
	}
	return added
}

// AddEntry appends entry to the teacher's list unless an identical entry is
// already present. Blank teacher names are ignored.
func (ix *Index) AddEntry(teacher string, entry Entry) bool {
	name := NormalizeTeacherName(teacher)
	if name == "" {
		return false
	}

	key := entry.String()
	seen, ok := ix.seen[name]
	if !ok {
		seen = make(map[string]struct{})
		ix.seen[name] = seen
	}
	if _, dup := seen[key]; dup {
		return false
	}
	seen[key] = struct{}{}
	ix.entries[name] = append(ix.entries[name], entry)
	return true
}

// Teachers returns the teacher names in lexicographic order.
func (ix *Index) Teachers() []string {
	names := make([]string, 0, len(ix.entries))
	for name := range ix.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the entries recorded for a teacher.
func (ix *Index) Entries(teacher string) []Entry {
	return ix.entries[teacher]
}

// Has reports whether the teacher already has this entry.
func (ix *Index) Has(teacher string, entry Entry) bool {
	_, ok := ix.seen[teacher][entry.String()]
	return ok
}

// Len returns the number of teachers.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// EntryCount returns the total number of entries across teachers.
func (ix *Index) EntryCount() int {
	n := 0
	for _, list := range ix.entries {
		n += len(list)
	}
	return n
}

// Filter returns a new Index holding only the teachers accepted by keep.
func (ix *Index) Filter(keep func(teacher string) bool) *Index {
	out := NewIndex()
	for _, name := range ix.Teachers() {
		if !keep(name) {
			continue
		}
		for _, e := range ix.entries[name] {
			out.AddEntry(name, e)
		}
	}
	return out
}
