package domain

// Selection tracks the user's current choice of at most one offer per
// category. It is created empty when search results are displayed and is
// cleared whenever the session's search context changes.
type Selection struct {
	chosen map[Category]string
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{chosen: make(map[Category]string)}
}

// Select records offerID as the chosen offer for its category, replacing any
// previous choice in that category. The caller is responsible for validating
// the id against the active result set before calling.
func (s *Selection) Select(category Category, offerID string) {
	s.chosen[category] = offerID
}

// Clear removes the choice for the given category, if any.
func (s *Selection) Clear(category Category) {
	delete(s.chosen, category)
}

// Reset removes all choices. Used when the search context changes.
func (s *Selection) Reset() {
	s.chosen = make(map[Category]string)
}

// Current returns an immutable snapshot of the category -> offer id mapping.
func (s *Selection) Current() map[Category]string {
	snapshot := make(map[Category]string, len(s.chosen))
	for k, v := range s.chosen {
		snapshot[k] = v
	}
	return snapshot
}

// Get returns the chosen offer id for a category, if any.
func (s *Selection) Get(category Category) (string, bool) {
	id, ok := s.chosen[category]
	return id, ok
}

// IsEmpty reports whether no offer is selected in any category.
func (s *Selection) IsEmpty() bool {
	return len(s.chosen) == 0
}
