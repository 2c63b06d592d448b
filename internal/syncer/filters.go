package syncer

// Filters is the canonical-key contract every filter record implements.
// Key must be deterministic and pure: equal filter states produce identical
// keys, any relevant difference produces a different key. Concrete records
// (models.ShiftFilters) fix their field serialization order by declaration.
type Filters interface {
	Key() string
}

// FilterChanged reports whether next's key differs from prev's. A nil prev
// always counts as changed.
func FilterChanged(prev, next Filters) bool {
	if prev == nil {
		return true
	}
	return prev.Key() != next.Key()
}
