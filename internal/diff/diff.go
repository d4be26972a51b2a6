// Package diff computes set differences between two snapshots of
// value-comparable records. It is deliberately generic: the pull
// synchronizer feeds it whole records, so a record edited on either side
// shows up as a removal of the old value plus an addition of the new one.
package diff

// Diff holds the additions and removals that transform an old snapshot
// into a new one, both treated as sets. The two sets are disjoint by
// construction: an element present in both snapshots appears in neither.
type Diff[T comparable] struct {
	Addition map[T]struct{}
	Removal  map[T]struct{}
}

// New diffs two snapshots. Order is irrelevant and duplicates within a
// snapshot collapse.
func New[T comparable](old, new []T) Diff[T] {
	oldSet := toSet(old)
	newSet := toSet(new)

	d := Diff[T]{
		Addition: make(map[T]struct{}),
		Removal:  make(map[T]struct{}),
	}

	for v := range newSet {
		if _, ok := oldSet[v]; !ok {
			d.Addition[v] = struct{}{}
		}
	}

	for v := range oldSet {
		if _, ok := newSet[v]; !ok {
			d.Removal[v] = struct{}{}
		}
	}

	return d
}

// Empty reports whether the diff carries no changes.
func (d Diff[T]) Empty() bool {
	return len(d.Addition) == 0 && len(d.Removal) == 0
}

func toSet[T comparable](values []T) map[T]struct{} {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return set
}
