package syncer

import "sync"

// SelectionTracker manages the set of selected entity ids for batch
// operations. Selection is keyed by id, never by object identity, so it
// survives list reloads. Selection mode is strictly tied to set emptiness:
// adding the first id enters it, removing the last id leaves it.
type SelectionTracker struct {
	mu       sync.RWMutex
	selected map[string]struct{}
}

// NewSelectionTracker returns an idle tracker.
func NewSelectionTracker() *SelectionTracker {
	return &SelectionTracker{selected: make(map[string]struct{})}
}

// Toggle flips membership of id.
func (s *SelectionTracker) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// SelectAll replaces the selection with ids.
func (s *SelectionTracker) SelectAll(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
}

// Clear empties the selection and leaves selection mode.
func (s *SelectionTracker) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// IsSelected reports membership of id.
func (s *SelectionTracker) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// Count returns the number of selected ids.
func (s *SelectionTracker) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

// InSelectionMode reports whether any id is selected.
func (s *SelectionTracker) InSelectionMode() bool {
	return s.Count() > 0
}

// IsAllSelected reports whether every candidate id is selected. An empty
// candidate list is never "all selected".
func (s *SelectionTracker) IsAllSelected(candidateIDs []string) bool {
	if len(candidateIDs) == 0 {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range candidateIDs {
		if _, ok := s.selected[id]; !ok {
			return false
		}
	}
	return true
}

// SelectedIDs returns the selected ids in unspecified order.
func (s *SelectionTracker) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	return ids
}

// OnLongPress enters selection mode with id selected. When already in
// selection mode it is a no-op; the caller decides whether to fall through
// to Toggle.
func (s *SelectionTracker) OnLongPress(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selected) > 0 {
		return
	}
	s.selected[id] = struct{}{}
}

// OnPress toggles id when in selection mode, otherwise invokes fallback
// (e.g. navigate to the item's detail view).
func (s *SelectionTracker) OnPress(id string, fallback func(id string)) {
	s.mu.Lock()
	if len(s.selected) > 0 {
		if _, ok := s.selected[id]; ok {
			delete(s.selected, id)
		} else {
			s.selected[id] = struct{}{}
		}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if fallback != nil {
		fallback(id)
	}
}
