// Package view derives the visible page of donation items from the full list
// and the current filter, page and layout state.
package view

import (
	"strings"

	"github.com/nickpending/donations/internal/api"
)

// FilterAll disables status filtering
const FilterAll = "all"

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 10

// NarrowBreakpoint is the terminal width (in columns) below which card view is forced
const NarrowBreakpoint = 96

// DefaultMaxVisiblePages is the width of the pagination page-number window
const DefaultMaxVisiblePages = 5

// Mode selects how items are laid out
type Mode string

const (
	ModeTable Mode = "table"
	ModeCard  Mode = "card"
)

// ParseMode converts user input into a Mode
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeTable:
		return ModeTable, true
	case ModeCard, "cards", "grid":
		return ModeCard, true
	}
	return "", false
}

// State is the serializable view state. It is only mutated through Controller setters.
type State struct {
	StatusFilter string `json:"statusFilter"`
	CurrentPage  int    `json:"currentPage"`
	ViewMode     Mode   `json:"viewMode"`
	IsModalOpen  bool   `json:"isModalOpen"`
	Width        int    `json:"width"` // Terminal columns; 0 until known
}

// Page is everything a renderer needs for one frame
type Page struct {
	Filtered       []api.DonationItem // Full filtered list
	Items          []api.DonationItem // Current page slice
	TotalPages     int
	CurrentPage    int
	ShowPagination bool
	Empty          bool
	EmptyHint      string
}

// FilterByStatus keeps items whose status name equals filter, in source order.
// FilterAll returns items unchanged.
func FilterByStatus(items []api.DonationItem, filter string) []api.DonationItem {
	if filter == FilterAll || filter == "" {
		return items
	}
	filtered := make([]api.DonationItem, 0, len(items))
	for _, item := range items {
		if item.Status.Name == filter {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// MatchStatus returns the spelling from names that equals filter ignoring case,
// so "active" selects "Active". FilterAll matches any case. Unknown filters are
// returned trimmed and unchanged.
func MatchStatus(filter string, names []string) string {
	filter = strings.TrimSpace(filter)
	if strings.EqualFold(filter, FilterAll) {
		return FilterAll
	}
	for _, name := range names {
		if strings.EqualFold(name, filter) {
			return name
		}
	}
	return filter
}

// TotalPages returns ceil(count / pageSize)
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns the items of the 1-based page. Out-of-range pages yield an empty slice.
func Paginate(items []api.DonationItem, page, pageSize int) []api.DonationItem {
	if pageSize <= 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []api.DonationItem{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageWindow returns up to maxVisible consecutive page numbers centred on current
func PageWindow(current, total, maxVisible int) []int {
	if total <= 0 || maxVisible <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - maxVisible/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisible - 1
	if end > total {
		end = total
		start = end - maxVisible + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Controller owns the view state
type Controller struct {
	state    State
	pageSize int
}

// NewController creates a controller with the default state: all statuses,
// first page, table view, no modal.
func NewController(pageSize int) *Controller {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		state: State{
			StatusFilter: FilterAll,
			CurrentPage:  1,
			ViewMode:     ModeTable,
		},
		pageSize: pageSize,
	}
}

// State returns a copy of the current state
func (c *Controller) State() State {
	return c.state
}

// PageSize returns the number of items per page
func (c *Controller) PageSize() int {
	return c.pageSize
}

// SetStatusFilter replaces the filter. A change of value resets the page to 1.
func (c *Controller) SetStatusFilter(filter string) {
	if filter == "" {
		filter = FilterAll
	}
	if filter != c.state.StatusFilter {
		c.state.CurrentPage = 1
	}
	c.state.StatusFilter = filter
}

// SetCurrentPage replaces the current page. Values below 1 become 1.
func (c *Controller) SetCurrentPage(page int) {
	if page < 1 {
		page = 1
	}
	c.state.CurrentPage = page
}

// SetViewMode records the user's explicit layout choice
func (c *Controller) SetViewMode(mode Mode) {
	c.state.ViewMode = mode
}

// SetModalOpen records whether the create modal is showing
func (c *Controller) SetModalOpen(open bool) {
	c.state.IsModalOpen = open
}

// SetWidth records the terminal width used for layout selection
func (c *Controller) SetWidth(width int) {
	c.state.Width = width
}

// NextPage advances one page, stopping at the last page of items
func (c *Controller) NextPage(items []api.DonationItem) bool {
	total := TotalPages(len(FilterByStatus(items, c.state.StatusFilter)), c.pageSize)
	if c.state.CurrentPage >= total {
		return false
	}
	c.SetCurrentPage(c.state.CurrentPage + 1)
	return true
}

// PrevPage goes back one page, stopping at page 1
func (c *Controller) PrevPage() bool {
	if c.state.CurrentPage <= 1 {
		return false
	}
	c.SetCurrentPage(c.state.CurrentPage - 1)
	return true
}

// EffectiveViewMode is the layout to render: card below the breakpoint,
// otherwise the user's choice.
func (c *Controller) EffectiveViewMode() Mode {
	if c.state.Width > 0 && c.state.Width < NarrowBreakpoint {
		return ModeCard
	}
	if c.state.ViewMode == "" {
		return ModeTable
	}
	return c.state.ViewMode
}

// IsNarrow reports whether the layout toggle is currently overridden
func (c *Controller) IsNarrow() bool {
	return c.state.Width > 0 && c.state.Width < NarrowBreakpoint
}

// Derive computes the visible page from the full item list
func (c *Controller) Derive(items []api.DonationItem) Page {
	filtered := FilterByStatus(items, c.state.StatusFilter)
	total := TotalPages(len(filtered), c.pageSize)
	pageItems := Paginate(filtered, c.state.CurrentPage, c.pageSize)

	page := Page{
		Filtered:       filtered,
		Items:          pageItems,
		TotalPages:     total,
		CurrentPage:    c.state.CurrentPage,
		ShowPagination: total > 1,
		Empty:          len(filtered) == 0,
	}
	if page.Empty {
		if c.state.StatusFilter == FilterAll {
			page.EmptyHint = "Get started by creating a new donation item."
		} else {
			page.EmptyHint = "Try adjusting your filter to see more results."
		}
	}
	return page
}
