package browse

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrInvalidPageSize is returned for a page size outside the allowed set
var ErrInvalidPageSize = errors.New("invalid page size")

// DefaultPageSizes are the rows-per-page options offered by list views
var DefaultPageSizes = []int{5, 10, 25}

// PageSpec is a zero-based page index and a page size
type PageSpec struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// Offset returns the index of the first row on the page
func (p PageSpec) Offset() int {
	return p.Index * p.Size
}

// PageCount returns how many pages of size are needed for total rows, at least one.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Pager tracks the page spec for a view.
type Pager struct {
	mu    sync.Mutex
	sizes []int
	spec  PageSpec
}

// NewPager creates a pager on the first page. Empty sizes use DefaultPageSizes.
func NewPager(sizes []int, size int) (*Pager, error) {
	if len(sizes) == 0 {
		sizes = DefaultPageSizes
	}
	p := &Pager{sizes: slices.Clone(sizes)}
	if !slices.Contains(p.sizes, size) {
		return nil, fmt.Errorf("%w: %d not in %v", ErrInvalidPageSize, size, p.sizes)
	}
	p.spec = PageSpec{Index: 0, Size: size}
	return p, nil
}

// Current returns the page spec
func (p *Pager) Current() PageSpec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spec
}

// Sizes returns the allowed page sizes
func (p *Pager) Sizes() []int {
	return slices.Clone(p.sizes)
}

// SetIndex moves to index, clamped at zero. It reports whether the index changed.
func (p *Pager) SetIndex(index int) (PageSpec, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	index = max(index, 0)
	if index == p.spec.Index {
		return p.spec, false
	}
	p.spec.Index = index
	return p.spec, true
}

// SetSize changes the page size and returns to the first page.
func (p *Pager) SetSize(size int) (PageSpec, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(p.sizes, size) {
		return p.spec, fmt.Errorf("%w: %d not in %v", ErrInvalidPageSize, size, p.sizes)
	}
	p.spec = PageSpec{Index: 0, Size: size}
	return p.spec, nil
}

// Reset returns to the first page
func (p *Pager) Reset() {
	p.mu.Lock()
	p.spec.Index = 0
	p.mu.Unlock()
}
