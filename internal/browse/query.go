package browse

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownFilterField is returned when a field is not part of the view's filter set
var ErrUnknownFilterField = errors.New("unknown filter field")

// FilterCriteria maps a filter field name to free text. An empty value means
// the field does not constrain the result.
type FilterCriteria map[string]string

// Clone returns an independent copy
func (c FilterCriteria) Clone() FilterCriteria {
	out := make(FilterCriteria, len(c))
	maps.Copy(out, c)
	return out
}

// Active returns the non-empty entries only.
func (c FilterCriteria) Active() FilterCriteria {
	out := make(FilterCriteria, len(c))
	for k, v := range c {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Equal compares two criteria as they would be sent, so {"name": " "}
// equals {} and "Coffee " equals "Coffee".
func (c FilterCriteria) Equal(other FilterCriteria) bool {
	return maps.Equal(c.Wire(), other.Wire())
}

// Wire returns the active criteria with surrounding whitespace removed, ready
// to be sent as query parameters.
func (c FilterCriteria) Wire() map[string]string {
	out := make(map[string]string, len(c))
	for k, v := range c {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out[k] = trimmed
		}
	}
	return out
}

// String renders the active criteria in key order
func (c FilterCriteria) String() string {
	active := c.Active()
	keys := slices.Sorted(maps.Keys(active))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, active[k]))
	}
	return strings.Join(parts, " ")
}

// Composer holds the immediate filter input and publishes a debounced snapshot
// once the input has been quiet for the debouncer's period.
type Composer struct {
	mu        sync.Mutex
	fields    []string
	immediate FilterCriteria
	debounced FilterCriteria
	debouncer *Debouncer
	onSettle  func(FilterCriteria)
}

// NewComposer creates a composer for the given filter fields. onSettle
// receives each settled snapshot that differs from the previous one.
func NewComposer(fields []string, d *Debouncer, onSettle func(FilterCriteria)) *Composer {
	if d == nil {
		d = NewDebouncer(nil, DefaultQuietPeriod)
	}
	immediate := make(FilterCriteria, len(fields))
	for _, f := range fields {
		immediate[f] = ""
	}
	return &Composer{
		fields:    slices.Clone(fields),
		immediate: immediate,
		debounced: immediate.Clone(),
		debouncer: d,
		onSettle:  onSettle,
	}
}

// Fields returns the filter field names in display order
func (c *Composer) Fields() []string {
	return slices.Clone(c.fields)
}

// SetField updates one field and restarts the quiet period.
func (c *Composer) SetField(name, value string) error {
	c.mu.Lock()
	if !slices.Contains(c.fields, name) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownFilterField, name)
	}
	c.immediate[name] = value
	c.mu.Unlock()
	c.debouncer.Reschedule(c.settleLater)
	return nil
}

// Seed sets known fields as both immediate and settled input without
// publishing a snapshot. Unknown fields are ignored.
func (c *Composer) Seed(criteria FilterCriteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range criteria {
		if !slices.Contains(c.fields, k) {
			continue
		}
		c.immediate[k] = v
		c.debounced[k] = v
	}
}

// Clear empties every field. The change is debounced like any other edit.
func (c *Composer) Clear() {
	c.mu.Lock()
	for k := range c.immediate {
		c.immediate[k] = ""
	}
	c.mu.Unlock()
	c.debouncer.Reschedule(c.settleLater)
}

// Criteria returns a copy of the immediate input
func (c *Composer) Criteria() FilterCriteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.immediate.Clone()
}

// Debounced returns a copy of the last settled snapshot
func (c *Composer) Debounced() FilterCriteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.debounced.Clone()
}

// Flush settles the current input immediately on the caller's goroutine.
// It reports whether the settled snapshot changed.
func (c *Composer) Flush() bool {
	c.debouncer.Cancel()
	return c.settle()
}

// Stop cancels a pending settle without publishing it.
func (c *Composer) Stop() {
	c.debouncer.Cancel()
}

func (c *Composer) settleLater() {
	c.settle()
}

func (c *Composer) settle() bool {
	c.mu.Lock()
	if c.immediate.Equal(c.debounced) {
		c.mu.Unlock()
		return false
	}
	c.debounced = c.immediate.Clone()
	snapshot := c.debounced.Clone()
	onSettle := c.onSettle
	c.mu.Unlock()
	if onSettle != nil {
		onSettle(snapshot)
	}
	return true
}
