package pmid

import "slices"

// WorkingSet is an insertion-ordered collection of unique PubMed IDs. Operations
// return a new set and leave the receiver untouched, so a WorkingSet value can be
// shared freely between readers.
type WorkingSet struct {
	ids   []int64
	index map[int64]struct{}
}

// NewWorkingSet builds a set from ids, keeping the first occurrence of each value.
func NewWorkingSet(ids ...int64) WorkingSet {
	set, _ := WorkingSet{}.AddBatch(ids)
	return set
}

// IDs returns a copy of the identifiers in row order.
func (s WorkingSet) IDs() []int64 {
	return slices.Clone(s.ids)
}

// Len reports the number of identifiers.
func (s WorkingSet) Len() int {
	return len(s.ids)
}

// Empty reports whether the set has no identifiers.
func (s WorkingSet) Empty() bool {
	return len(s.ids) == 0
}

// Contains reports whether id is in the set.
func (s WorkingSet) Contains(id int64) bool {
	_, ok := s.index[id]
	return ok
}

// IndexOf returns the row position of id, or -1 when absent.
func (s WorkingSet) IndexOf(id int64) int {
	if !s.Contains(id) {
		return -1
	}
	return slices.Index(s.ids, id)
}

// AddBatch appends the candidates not yet in the set, in order, and returns the new
// set together with the identifiers that were actually added. Repeats inside the
// batch collapse to their first occurrence.
func (s WorkingSet) AddBatch(candidates []int64) (WorkingSet, []int64) {
	next := s.clone(len(candidates))
	added := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		if _, exists := next.index[id]; exists {
			continue
		}
		next.index[id] = struct{}{}
		next.ids = append(next.ids, id)
		added = append(added, id)
	}
	return next, added
}

// RemoveOne drops id from the set. Removing an absent id returns an equal set.
func (s WorkingSet) RemoveOne(id int64) WorkingSet {
	pos := s.IndexOf(id)
	if pos < 0 {
		return s
	}
	next := s.clone(0)
	next.ids = slices.Delete(next.ids, pos, pos+1)
	delete(next.index, id)
	return next
}

// Clear returns the empty set.
func (s WorkingSet) Clear() WorkingSet {
	return WorkingSet{}
}

func (s WorkingSet) clone(extra int) WorkingSet {
	next := WorkingSet{
		ids:   make([]int64, len(s.ids), len(s.ids)+extra),
		index: make(map[int64]struct{}, len(s.ids)+extra),
	}
	copy(next.ids, s.ids)
	for _, id := range s.ids {
		next.index[id] = struct{}{}
	}
	return next
}
