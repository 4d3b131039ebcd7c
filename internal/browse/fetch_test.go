package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store struct {
	ID   string
	Name string
}

type serverFailure struct{ msg string }

func (e *serverFailure) Error() string       { return "status 500: " + e.msg }
func (e *serverFailure) UserMessage() string { return e.msg }

// gatedFetcher blocks each fetch until the test releases the gate for its name filter.
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[string]chan ListResult[store]
	started chan string
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[string]chan ListResult[store]), started: make(chan string, 16)}
}

func (f *gatedFetcher) gate(name string) chan ListResult[store] {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.gates[name]
	if !ok {
		ch = make(chan ListResult[store], 1)
		f.gates[name] = ch
	}
	return ch
}

func (f *gatedFetcher) Fetch(ctx context.Context, q Query) (ListResult[store], error) {
	name := q.Criteria["name"]
	f.started <- name
	select {
	case r := <-f.gate(name):
		return r, nil
	case <-ctx.Done():
		return ListResult[store]{}, ctx.Err()
	}
}

func nameQuery(name string) Query {
	return Query{
		Criteria: FilterCriteria{"name": name},
		Sort:     SortSpec{Field: "name", Order: SortOrderAsc},
		Page:     PageSpec{Index: 0, Size: 5},
	}
}

func rowsNamed(names ...string) ListResult[store] {
	rows := make([]store, 0, len(names))
	for i, n := range names {
		rows = append(rows, store{ID: fmt.Sprintf("s-%d", i+1), Name: n})
	}
	return ListResult[store]{Rows: rows, Total: len(rows)}
}

func TestController_LastInitiatedWins(t *testing.T) {
	for _, order := range []string{"fast-first", "slow-first"} {
		t.Run("Should show the later request when completions arrive "+order, func(t *testing.T) {
			fetcher := newGatedFetcher()
			c := NewController[store](fetcher)
			ctx := t.Context()

			p1 := c.Refresh(ctx, nameQuery("Co"))
			p2 := c.Refresh(ctx, nameQuery("Coffee"))
			outcomes := make(chan Outcome[store], 2)
			go func() { outcomes <- p1.Run() }()
			go func() { outcomes <- p2.Run() }()
			<-fetcher.started
			<-fetcher.started

			release := []string{"Coffee", "Co"}
			if order == "slow-first" {
				release = []string{"Co", "Coffee"}
			}
			for i, name := range release {
				if name == "Co" {
					fetcher.gate(name) <- rowsNamed("Cozy Corner", "Coffee House")
				} else {
					fetcher.gate(name) <- rowsNamed("Coffee House")
				}
				c.Settle(<-outcomes)
				if i == 0 {
					assert.Equal(t, order == "slow-first", c.Snapshot().Loading,
						"loading must stay on until the latest request settles")
				}
			}

			state := c.Snapshot()
			assert.False(t, state.Loading)
			assert.Equal(t, p2.Generation(), state.Generation)
			require.Len(t, state.Result.Rows, 1)
			assert.Equal(t, "Coffee House", state.Result.Rows[0].Name)
			assert.Equal(t, "Coffee", state.Query.Criteria["name"])
		})
	}

	t.Run("Should report superseded outcomes as discarded", func(t *testing.T) {
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			return rowsNamed("A"), nil
		}))
		old := c.Refresh(t.Context(), nameQuery("a")).Run()
		latest := c.Refresh(t.Context(), nameQuery("b")).Run()

		assert.True(t, c.Settle(latest))
		assert.False(t, c.Settle(old))
	})
}

func TestController_Failures(t *testing.T) {
	t.Run("Should prefer the server message and keep previous rows", func(t *testing.T) {
		fail := false
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			if fail {
				return ListResult[store]{}, fmt.Errorf("list stores: %w", &serverFailure{msg: "Search is unavailable"})
			}
			return rowsNamed("Tea Room"), nil
		}))
		_, err := c.Do(t.Context(), nameQuery(""))
		require.NoError(t, err)

		fail = true
		state, err := c.Do(t.Context(), nameQuery("Tea"))

		require.Error(t, err)
		assert.Equal(t, "Search is unavailable", state.Err)
		assert.False(t, state.Loading)
		assert.False(t, state.Empty())
		require.Len(t, state.Result.Rows, 1)
		assert.Equal(t, "Tea Room", state.Result.Rows[0].Name)
	})

	t.Run("Should fall back to the generic message", func(t *testing.T) {
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			return ListResult[store]{}, errors.New("connection refused")
		}))

		state, _ := c.Do(t.Context(), nameQuery(""))

		assert.Equal(t, "Failed to fetch stores.", state.Err)
	})

	t.Run("Should use a configured fallback message", func(t *testing.T) {
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			return ListResult[store]{}, errors.New("boom")
		}), WithFallbackMessage("Failed to fetch users."))

		state, _ := c.Do(t.Context(), nameQuery(""))

		assert.Equal(t, "Failed to fetch users.", state.Err)
	})

	t.Run("Should clear the error when a new request starts", func(t *testing.T) {
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			return ListResult[store]{}, errors.New("boom")
		}))
		_, _ = c.Do(t.Context(), nameQuery(""))

		c.Refresh(t.Context(), nameQuery("x"))

		state := c.Snapshot()
		assert.Empty(t, state.Err)
		assert.True(t, state.Loading)
	})
}

func TestController_EmptyResult(t *testing.T) {
	t.Run("Should report no matches rather than an error", func(t *testing.T) {
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			return ListResult[store]{Rows: []store{}, Total: 0}, nil
		}))
		assert.False(t, c.Snapshot().Empty(), "nothing has settled yet")

		state, err := c.Do(t.Context(), nameQuery("zzz"))

		require.NoError(t, err)
		assert.True(t, state.Empty())
		assert.Empty(t, state.Err)
		assert.Zero(t, state.Result.Total)
	})

	t.Run("Should not report no matches while the first fetch is in flight", func(t *testing.T) {
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			return ListResult[store]{}, nil
		}))

		c.Refresh(t.Context(), nameQuery(""))

		state := c.Snapshot()
		assert.True(t, state.Loading)
		assert.False(t, state.Empty())
	})

	t.Run("Should not report no matches after a failed first fetch", func(t *testing.T) {
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			return ListResult[store]{}, errors.New("boom")
		}))

		state, _ := c.Do(t.Context(), nameQuery(""))
		assert.False(t, state.Empty())

		c.ClearError()

		assert.False(t, c.Snapshot().Empty(), "a dismissed failure is not an empty result")
	})
}

func TestController_Snapshot(t *testing.T) {
	t.Run("Should hand out copies of the rows", func(t *testing.T) {
		c := NewController[store](FetcherFunc[store](func(context.Context, Query) (ListResult[store], error) {
			return rowsNamed("A", "B"), nil
		}))
		state, _ := c.Do(t.Context(), nameQuery(""))

		state.Result.Rows[0].Name = "mutated"

		assert.Equal(t, "A", c.Snapshot().Result.Rows[0].Name)
	})
}
