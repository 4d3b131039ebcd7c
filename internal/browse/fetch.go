package browse

import (
	"context"
	"slices"
	"sync"

	"github.com/storerate/storerate/internal/failure"
	"github.com/storerate/storerate/pkg/logger"
)

// DefaultFetchFailure is shown when a failed fetch carries no server message
const DefaultFetchFailure = "Failed to fetch stores."

// Query is everything a list service needs to produce one page
type Query struct {
	Criteria FilterCriteria `json:"criteria"`
	Sort     SortSpec       `json:"sort"`
	Page     PageSpec       `json:"page"`
}

// ListResult is one page of rows together with the total match count.
type ListResult[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

// Fetcher loads one page of rows for a query
type Fetcher[T any] interface {
	Fetch(ctx context.Context, q Query) (ListResult[T], error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc[T any] func(ctx context.Context, q Query) (ListResult[T], error)

func (f FetcherFunc[T]) Fetch(ctx context.Context, q Query) (ListResult[T], error) {
	return f(ctx, q)
}

// State is an immutable view of the controller
type State[T any] struct {
	Result     ListResult[T]
	Loading    bool
	Err        string
	Cause      error
	Generation uint64
	Query      Query
	Settled    bool
	// Loaded is set once a fetch has succeeded; Result holds its rows
	Loaded bool
}

// Empty reports a settled, successful fetch that matched nothing.
func (s State[T]) Empty() bool {
	return s.Loaded && !s.Loading && s.Err == "" && len(s.Result.Rows) == 0
}

// Outcome is the result of running one Pending fetch
type Outcome[T any] struct {
	Generation uint64
	Query      Query
	Result     ListResult[T]
	Err        error
}

// Pending is an issued fetch that has not run yet.
type Pending[T any] struct {
	ctx        context.Context
	generation uint64
	query      Query
	fetcher    Fetcher[T]
}

// Generation returns the request number assigned when the fetch was issued
func (p *Pending[T]) Generation() uint64 {
	return p.generation
}

// Query returns the query the fetch will send
func (p *Pending[T]) Query() Query {
	return p.query
}

// Run performs the blocking fetch. It never panics on transport failure;
// errors are carried in the outcome.
func (p *Pending[T]) Run() Outcome[T] {
	log := logger.FromContext(p.ctx)
	log.Debug("Fetching list", "generation", p.generation, "criteria", p.query.Criteria.String(),
		"sort", p.query.Sort.Field, "order", p.query.Sort.Order, "page", p.query.Page.Index, "size", p.query.Page.Size)
	result, err := p.fetcher.Fetch(p.ctx, p.query)
	return Outcome[T]{Generation: p.generation, Query: p.query, Result: result, Err: err}
}

type controllerConfig struct {
	fallback string
}

// ControllerOption configures a Controller
type ControllerOption func(*controllerConfig)

// WithFallbackMessage sets the message shown when a failure has no server message.
func WithFallbackMessage(msg string) ControllerOption {
	return func(c *controllerConfig) {
		if msg != "" {
			c.fallback = msg
		}
	}
}

// Controller issues list fetches and commits only the most recently issued
// one. Results of superseded fetches are discarded whatever order they arrive in.
type Controller[T any] struct {
	mu       sync.Mutex
	fetcher  Fetcher[T]
	fallback string
	latest   uint64
	state    State[T]
}

// NewController creates a controller around fetcher.
func NewController[T any](fetcher Fetcher[T], opts ...ControllerOption) *Controller[T] {
	cfg := controllerConfig{fallback: DefaultFetchFailure}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Controller[T]{fetcher: fetcher, fallback: cfg.fallback}
}

// Refresh issues a new fetch for q. The controller is loading until the
// returned fetch, or a later one, settles.
func (c *Controller[T]) Refresh(ctx context.Context, q Query) *Pending[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	c.state.Loading = true
	c.state.Err = ""
	c.state.Cause = nil
	c.state.Generation = c.latest
	return &Pending[T]{ctx: ctx, generation: c.latest, query: q, fetcher: c.fetcher}
}

// Settle commits o if it belongs to the latest issued fetch and reports
// whether it was committed. On failure the previous rows are kept.
func (c *Controller[T]) Settle(o Outcome[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o.Generation != c.latest {
		return false
	}
	c.state.Loading = false
	c.state.Settled = true
	c.state.Query = o.Query
	if o.Err != nil {
		c.state.Err = failure.Message(o.Err, c.fallback)
		c.state.Cause = o.Err
		return true
	}
	c.state.Result = ListResult[T]{Rows: slices.Clone(o.Result.Rows), Total: o.Result.Total}
	c.state.Loaded = true
	c.state.Err = ""
	c.state.Cause = nil
	return true
}

// Do issues, runs and settles a fetch on the caller's goroutine.
func (c *Controller[T]) Do(ctx context.Context, q Query) (State[T], error) {
	outcome := c.Refresh(ctx, q).Run()
	c.Settle(outcome)
	return c.Snapshot(), outcome.Err
}

// Snapshot returns a copy of the current state
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Result.Rows = slices.Clone(c.state.Result.Rows)
	return s
}

// ClearError drops the displayed failure message
func (c *Controller[T]) ClearError() {
	c.mu.Lock()
	c.state.Err = ""
	c.state.Cause = nil
	c.mu.Unlock()
}
