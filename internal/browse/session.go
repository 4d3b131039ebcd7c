package browse

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// Options configures a browse Session
type Options struct {
	// Fields are the filter fields in display order
	Fields []string
	// Sortable lists the fields the server can sort by
	Sortable    []string
	DefaultSort SortSpec
	PageSizes   []int
	PageSize    int
	QuietPeriod time.Duration
	// Clock drives the debounce timer; nil uses the wall clock
	Clock clock.Clock
	// FallbackMessage replaces DefaultFetchFailure
	FallbackMessage string
	// Criteria and Page seed the first query
	Criteria FilterCriteria
	Page     int
}

// Session ties filter input, sort and paging to one list controller. Each
// trigger issues exactly one fetch.
type Session[T any] struct {
	ctx      context.Context
	composer *Composer
	sort     *SortState
	pager    *Pager
	ctrl     *Controller[T]
	dispatch func(*Pending[T])
}

// NewSession creates a browse session. ctx bounds every fetch the session issues.
func NewSession[T any](ctx context.Context, fetcher Fetcher[T], opts Options) (*Session[T], error) {
	sortState, err := NewSortState(opts.Sortable, opts.DefaultSort)
	if err != nil {
		return nil, fmt.Errorf("invalid default sort: %w", err)
	}
	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSizes[0]
	}
	pager, err := NewPager(opts.PageSizes, pageSize)
	if err != nil {
		return nil, fmt.Errorf("invalid default page size: %w", err)
	}
	s := &Session[T]{
		ctx:   ctx,
		sort:  sortState,
		pager: pager,
		ctrl:  NewController(fetcher, WithFallbackMessage(opts.FallbackMessage)),
	}
	s.composer = NewComposer(opts.Fields, NewDebouncer(opts.Clock, opts.QuietPeriod), s.criteriaSettled)
	s.composer.Seed(opts.Criteria)
	s.pager.SetIndex(opts.Page)
	return s, nil
}

// OnDispatch sets the receiver of fetches issued by settled filter input.
// Without one they are run and settled on the timer goroutine. Call it before
// the first SetField.
func (s *Session[T]) OnDispatch(fn func(*Pending[T])) {
	s.dispatch = fn
}

// SetField updates filter input; the fetch follows once input is quiet.
func (s *Session[T]) SetField(name, value string) error {
	return s.composer.SetField(name, value)
}

// ClearFilters empties all filter input, debounced.
func (s *Session[T]) ClearFilters() {
	s.composer.Clear()
}

// Flush settles pending filter input now. The resulting fetch, if any, goes
// through the dispatcher on the caller's goroutine.
func (s *Session[T]) Flush() bool {
	return s.composer.Flush()
}

// RequestSort toggles or switches the sort and returns to the first page.
func (s *Session[T]) RequestSort(field string) (*Pending[T], error) {
	if _, err := s.sort.RequestSort(field); err != nil {
		return nil, err
	}
	s.pager.Reset()
	return s.changed(), nil
}

// SetPage moves to page index, clamped to the known page range. It returns
// nil when the page does not change.
func (s *Session[T]) SetPage(index int) *Pending[T] {
	snap := s.ctrl.Snapshot()
	if snap.Settled {
		last := PageCount(snap.Result.Total, s.pager.Current().Size) - 1
		index = min(index, last)
	}
	if _, changed := s.pager.SetIndex(index); !changed {
		return nil
	}
	return s.changed()
}

// SetPageSize changes rows per page and returns to the first page.
func (s *Session[T]) SetPageSize(size int) (*Pending[T], error) {
	if _, err := s.pager.SetSize(size); err != nil {
		return nil, err
	}
	return s.changed(), nil
}

// Reload re-issues the current query.
func (s *Session[T]) Reload() *Pending[T] {
	return s.changed()
}

// Settle commits a finished fetch; see Controller.Settle.
func (s *Session[T]) Settle(o Outcome[T]) bool {
	return s.ctrl.Settle(o)
}

// Query returns the query the next fetch would send
func (s *Session[T]) Query() Query {
	return Query{
		Criteria: s.composer.Debounced().Active(),
		Sort:     s.sort.Current(),
		Page:     s.pager.Current(),
	}
}

func (s *Session[T]) Criteria() FilterCriteria {
	return s.composer.Criteria()
}

func (s *Session[T]) Fields() []string {
	return s.composer.Fields()
}

func (s *Session[T]) Sort() SortSpec {
	return s.sort.Current()
}

func (s *Session[T]) IsSortable(field string) bool {
	return s.sort.IsSortable(field)
}

func (s *Session[T]) PageSizes() []int {
	return s.pager.Sizes()
}

// Snapshot returns the controller state
func (s *Session[T]) Snapshot() State[T] {
	return s.ctrl.Snapshot()
}

// DismissError clears the displayed fetch failure
func (s *Session[T]) DismissError() {
	s.ctrl.ClearError()
}

// Stop cancels pending filter input.
func (s *Session[T]) Stop() {
	s.composer.Stop()
}

func (s *Session[T]) criteriaSettled(FilterCriteria) {
	s.pager.Reset()
	p := s.changed()
	if s.dispatch != nil {
		s.dispatch(p)
		return
	}
	s.ctrl.Settle(p.Run())
}

func (s *Session[T]) changed() *Pending[T] {
	return s.ctrl.Refresh(s.ctx, s.Query())
}
