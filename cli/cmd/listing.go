package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/storerate/storerate/cli/helpers"
	"github.com/storerate/storerate/internal/browse"
	"github.com/storerate/storerate/pkg/config"
)

// List flag names shared by every listing command
const (
	FlagSort  = "sort"
	FlagOrder = "order"
	FlagPage  = "page"
	FlagLimit = "limit"
)

// ListSpec describes the filters and sort columns of one listing
type ListSpec struct {
	Fields      []string
	Sortable    []string
	DefaultSort browse.SortSpec
	// FallbackMessage is shown when a fetch fails without a server message
	FallbackMessage string
}

// AddListFlags registers one string flag per filter field plus sort and
// paging flags.
func AddListFlags(cmd *cobra.Command, spec ListSpec) {
	for _, field := range spec.Fields {
		cmd.Flags().String(field, "", fmt.Sprintf("Filter by %s (substring match)", field))
	}
	cmd.Flags().String(FlagSort, spec.DefaultSort.Field,
		fmt.Sprintf("Sort by field (%s)", strings.Join(spec.Sortable, ", ")))
	cmd.Flags().String(FlagOrder, string(browse.SortOrderAsc), "Sort order (asc, desc)")
	cmd.Flags().Int(FlagPage, 1, "Page number, starting at 1")
	cmd.Flags().Int(FlagLimit, 0, "Rows per page (defaults to browse.default_page_size)")
}

// ListRequest is the parsed form of the list flags
type ListRequest struct {
	Options browse.Options
}

// Query is the first query the request asks for
func (r ListRequest) Query() browse.Query {
	return browse.Query{
		Criteria: r.Options.Criteria.Active(),
		Sort:     r.Options.DefaultSort,
		Page:     browse.PageSpec{Index: r.Options.Page, Size: r.Options.PageSize},
	}
}

// ParseListFlags validates the list flags against spec and the browse configuration.
func ParseListFlags(cmd *cobra.Command, spec ListSpec) (ListRequest, error) {
	cfg := config.FromContext(cmd.Context())
	criteria := make(browse.FilterCriteria, len(spec.Fields))
	for _, field := range spec.Fields {
		value, err := cmd.Flags().GetString(field)
		if err != nil {
			return ListRequest{}, err
		}
		criteria[field] = value
	}
	sortField := helpers.GetFlagStringWithDefault(cmd, FlagSort, spec.DefaultSort.Field)
	if err := helpers.ValidateEnum(sortField, spec.Sortable, FlagSort); err != nil {
		return ListRequest{}, err
	}
	order, err := browse.ParseSortOrder(helpers.GetFlagStringWithDefault(cmd, FlagOrder, string(browse.SortOrderAsc)))
	if err != nil {
		return ListRequest{}, err
	}
	page := helpers.GetFlagIntWithDefault(cmd, FlagPage, 1)
	if page < 1 {
		return ListRequest{}, fmt.Errorf("page must be at least 1, got %d", page)
	}
	limit := helpers.GetFlagIntWithDefault(cmd, FlagLimit, cfg.Browse.DefaultPageSize)
	if limit < 1 {
		return ListRequest{}, fmt.Errorf("limit must be positive, got %d", limit)
	}
	sizes := slices.Clone(cfg.Browse.PageSizes)
	if !slices.Contains(sizes, limit) {
		// an explicit limit outside the configured sizes becomes selectable
		sizes = append(sizes, limit)
		slices.Sort(sizes)
	}
	return ListRequest{
		Options: browse.Options{
			Fields:          spec.Fields,
			Sortable:        spec.Sortable,
			DefaultSort:     browse.SortSpec{Field: sortField, Order: order},
			PageSizes:       sizes,
			PageSize:        limit,
			QuietPeriod:     cfg.Browse.QuietPeriod,
			FallbackMessage: spec.FallbackMessage,
			Criteria:        criteria,
			Page:            page - 1,
		},
	}, nil
}

// ListPage is the JSON document printed by listing commands
type ListPage[T any] struct {
	Rows      []T               `json:"rows"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
	PageCount int               `json:"page_count"`
	SortBy    string            `json:"sort_by,omitempty"`
	SortOrder string            `json:"sort_order,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
}

// FetchPage runs one fetch for q and returns it as a ListPage.
func FetchPage[T any](ctx context.Context, fetcher browse.Fetcher[T], q browse.Query, fallback string) (ListPage[T], error) {
	ctrl := browse.NewController(fetcher, browse.WithFallbackMessage(fallback))
	state, err := ctrl.Do(ctx, q)
	if err != nil {
		return ListPage[T]{}, err
	}
	rows := state.Result.Rows
	if rows == nil {
		rows = []T{}
	}
	return ListPage[T]{
		Rows:      rows,
		Total:     state.Result.Total,
		Page:      q.Page.Index + 1,
		PageSize:  q.Page.Size,
		PageCount: browse.PageCount(state.Result.Total, q.Page.Size),
		SortBy:    q.Sort.Field,
		SortOrder: string(q.Sort.Order),
		Filters:   q.Criteria.Wire(),
	}, nil
}

// WriteJSON prints v indented
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TableColumn is one column of the plain table fallback
type TableColumn[T any] struct {
	Header string
	Value  func(T) string
}

// WriteTable prints rows as an aligned table for terminals that cannot host
// the interactive view. Cells are truncated to fit the terminal width.
func WriteTable[T any](w io.Writer, columns []TableColumn[T], rows []T) error {
	width := 120
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		width = tw
	}
	cellWidth := max(width/max(len(columns), 1)-2, 8)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(c.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = helpers.Truncate(c.Value(row), cellWidth)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WritePageFooter prints the page position and total below a plain table
func WritePageFooter[T any](w io.Writer, page ListPage[T], singular, plural string) error {
	_, err := fmt.Fprintf(w, "\nPage %d of %d • %d %s\n",
		page.Page, page.PageCount, page.Total, helpers.Pluralize(page.Total, singular, plural))
	return err
}
