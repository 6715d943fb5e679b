// Package options holds the full option set of a select widget and derives the
// filtered and windowed views that get rendered.
package options

import (
	"strings"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

// ScrollThreshold is how many rows from the end of the rendered list a scroll
// position has to reach before the next chunk is appended.
const ScrollThreshold = 3

// Store owns the working copy of the options.
//
// The filtered view is recomputed on every SetOptions and SetSearchTerm call.
// The visible window is a prefix of it that only grows through ExtendWindow and
// snaps back to one page whenever the filtered view changes.
type Store struct {
	all      []model.Option
	lowered  []string // lower-cased labels, index-aligned with all
	index    map[model.Value]int
	filtered []model.Option
	visible  int
	term     string
	pageSize int
	matcher  Matcher
}

// NewStore creates an empty store. pageSize <= 0 uses model.DefaultMaxVisibleItems
// and a nil matcher means substring matching.
func NewStore(pageSize int, matcher Matcher) *Store {
	if pageSize <= 0 {
		pageSize = model.DefaultMaxVisibleItems
	}
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	return &Store{pageSize: pageSize, matcher: matcher}
}

// SetOptions replaces the full option set, clears the search term and resets
// the window to the first page.
func (s *Store) SetOptions(opts []model.Option) {
	s.all = model.CloneOptions(opts)
	if s.all == nil {
		s.all = []model.Option{}
	}
	s.lowered = make([]string, len(s.all))
	s.index = make(map[model.Value]int, len(s.all))
	for i, opt := range s.all {
		s.lowered[i] = strings.ToLower(opt.Label)
		key, ok := model.NormalizeValue(opt.Value)
		if !ok {
			continue
		}
		s.all[i].Value = key
		if _, dup := s.index[key]; !dup {
			s.index[key] = i
		}
	}
	s.term = ""
	s.filtered = s.all
	s.resetWindow()
}

// SetSearchTerm recomputes the filtered view for term and resets the window
func (s *Store) SetSearchTerm(term string) {
	s.term = term
	s.filtered = s.matcher.Match(term, s.all, s.lowered)
	s.resetWindow()
}

// Reset clears the search term and shows the first page of the full set
func (s *Store) Reset() {
	s.SetSearchTerm("")
}

// ExtendWindow appends the next page of the filtered view to the window.
// Returns false when the window already covers the whole filtered view.
func (s *Store) ExtendWindow() bool {
	if s.visible >= len(s.filtered) {
		return false
	}
	s.visible += s.pageSize
	if s.visible > len(s.filtered) {
		s.visible = len(s.filtered)
	}
	return true
}

// CurrentView returns a copy of the visible window
func (s *Store) CurrentView() []model.Option {
	out := make([]model.Option, s.visible)
	copy(out, s.filtered[:s.visible])
	return out
}

// At returns the option at index i of the visible window
func (s *Store) At(i int) (model.Option, bool) {
	if i < 0 || i >= s.visible {
		return model.Option{}, false
	}
	return s.filtered[i], true
}

// VisibleLen returns the size of the visible window
func (s *Store) VisibleLen() int {
	return s.visible
}

// HasMore returns true if the filtered view extends past the window
func (s *Store) HasMore() bool {
	return s.visible < len(s.filtered)
}

// Filtered returns a copy of the whole filtered view
func (s *Store) Filtered() []model.Option {
	out := make([]model.Option, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// FilteredLen returns the number of options matching the search term
func (s *Store) FilteredLen() int {
	return len(s.filtered)
}

// All returns the full option set in source order. Callers must not modify it.
func (s *Store) All() []model.Option {
	return s.all
}

// Len returns the size of the full option set
func (s *Store) Len() int {
	return len(s.all)
}

// SearchTerm returns the active search term
func (s *Store) SearchTerm() string {
	return s.term
}

// PageSize returns the window chunk size
func (s *Store) PageSize() int {
	return s.pageSize
}

// Lookup finds the option carrying v in the full set
func (s *Store) Lookup(v model.Value) (model.Option, bool) {
	key, ok := model.NormalizeValue(v)
	if !ok {
		return model.Option{}, false
	}
	i, ok := s.index[key]
	if !ok {
		return model.Option{}, false
	}
	return s.all[i], true
}

func (s *Store) resetWindow() {
	s.visible = s.pageSize
	if s.visible > len(s.filtered) {
		s.visible = len(s.filtered)
	}
}

// NearEnd reports whether a list scrolled to offset, showing viewport rows out
// of rendered rows, is within threshold rows of its end.
func NearEnd(offset, viewport, rendered, threshold int) bool {
	if rendered == 0 {
		return false
	}
	return offset+viewport >= rendered-threshold
}
