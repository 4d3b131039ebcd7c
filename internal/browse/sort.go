package browse

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownSortField is returned when a field is not sortable in the current view
var ErrUnknownSortField = errors.New("unknown sort field")

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// Toggle returns the opposite direction
func (o SortOrder) Toggle() SortOrder {
	if o == SortOrderAsc {
		return SortOrderDesc
	}
	return SortOrderAsc
}

// Indicator returns the header glyph for the direction
func (o SortOrder) Indicator() string {
	if o == SortOrderDesc {
		return "▼"
	}
	return "▲"
}

// ParseSortOrder accepts "asc" or "desc" in any case; empty means ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortOrderAsc, "":
		return SortOrderAsc, nil
	case SortOrderDesc:
		return SortOrderDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q: must be asc or desc", s)
	}
}

// SortSpec names the active sort field and direction
type SortSpec struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// SortState tracks the active sort for a view with a fixed sortable set.
type SortState struct {
	mu       sync.Mutex
	sortable []string
	current  SortSpec
}

// NewSortState creates a sort state starting at initial.
func NewSortState(sortable []string, initial SortSpec) (*SortState, error) {
	s := &SortState{sortable: slices.Clone(sortable)}
	if err := s.Set(initial); err != nil {
		return nil, err
	}
	return s, nil
}

// RequestSort applies a header click: the active field flips direction, any
// other sortable field becomes active in ascending order. Unknown fields leave
// the state untouched.
func (s *SortState) RequestSort(field string) (SortSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.sortable, field) {
		return s.current, fmt.Errorf("%w: %s", ErrUnknownSortField, field)
	}
	if s.current.Field == field {
		s.current.Order = s.current.Order.Toggle()
	} else {
		s.current = SortSpec{Field: field, Order: SortOrderAsc}
	}
	return s.current, nil
}

// Set replaces the active sort outright.
func (s *SortState) Set(spec SortSpec) error {
	if !slices.Contains(s.sortable, spec.Field) {
		return fmt.Errorf("%w: %s", ErrUnknownSortField, spec.Field)
	}
	if spec.Order != SortOrderAsc && spec.Order != SortOrderDesc {
		spec.Order = SortOrderAsc
	}
	s.mu.Lock()
	s.current = spec
	s.mu.Unlock()
	return nil
}

// Current returns the active sort
func (s *SortState) Current() SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsSortable reports whether field belongs to the sortable set
func (s *SortState) IsSortable(field string) bool {
	return slices.Contains(s.sortable, field)
}
