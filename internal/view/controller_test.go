package view

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/nickpending/donations/internal/api"
)

func makeItems(statuses ...string) []api.DonationItem {
	items := make([]api.DonationItem, len(statuses))
	for i, s := range statuses {
		items[i] = api.DonationItem{
			ID:     fmt.Sprintf("item-%d", i+1),
			Name:   fmt.Sprintf("Item %d", i+1),
			Status: api.Status{ID: s, Name: s},
		}
	}
	return items
}

func numbered(n int) []api.DonationItem {
	statuses := make([]string, n)
	for i := range statuses {
		statuses[i] = "Active"
	}
	return makeItems(statuses...)
}

func ids(items []api.DonationItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestFilterByStatusExample(t *testing.T) {
	items := makeItems("Active", "Pending", "Active")

	got := FilterByStatus(items, "Active")
	if !reflect.DeepEqual(ids(got), []string{"item-1", "item-3"}) {
		t.Errorf("Expected [item-1 item-3], got %v", ids(got))
	}
}

func TestFilterByStatusAllIsIdentity(t *testing.T) {
	items := makeItems("Active", "Pending", "Inactive")
	if !reflect.DeepEqual(FilterByStatus(items, FilterAll), items) {
		t.Error("Expected filter all to return the input unchanged")
	}
}

func TestFilterByStatusCompleteness(t *testing.T) {
	items := makeItems("Active", "Pending", "Active", "Inactive", "Pending", "Pending")

	for _, filter := range []string{"Active", "Pending", "Inactive", "Unknown"} {
		got := FilterByStatus(items, filter)
		want := 0
		for _, item := range items {
			if item.Status.Name == filter {
				want++
			}
		}
		if len(got) != want {
			t.Errorf("filter %q: expected %d items, got %d", filter, want, len(got))
		}
		for _, item := range got {
			if item.Status.Name != filter {
				t.Errorf("filter %q: unexpected item with status %q", filter, item.Status.Name)
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
		{12, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

func TestPaginateTwelveByFive(t *testing.T) {
	items := numbered(12)

	pages := [][]string{
		ids(Paginate(items, 1, 5)),
		ids(Paginate(items, 2, 5)),
		ids(Paginate(items, 3, 5)),
	}
	expected := [][]string{
		{"item-1", "item-2", "item-3", "item-4", "item-5"},
		{"item-6", "item-7", "item-8", "item-9", "item-10"},
		{"item-11", "item-12"},
	}
	if !reflect.DeepEqual(pages, expected) {
		t.Errorf("Expected %v, got %v", expected, pages)
	}
	if TotalPages(len(items), 5) != 3 {
		t.Errorf("Expected 3 pages")
	}
	if len(Paginate(items, 4, 5)) != 0 {
		t.Error("Expected empty slice past the last page")
	}
}

func TestPaginateIsPartition(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for size := 1; size <= 7; size++ {
			items := numbered(n)
			var joined []api.DonationItem
			for p := 1; p <= TotalPages(n, size); p++ {
				joined = append(joined, Paginate(items, p, size)...)
			}
			if len(joined) != n {
				t.Fatalf("n=%d size=%d: pages hold %d items", n, size, len(joined))
			}
			for i := range joined {
				if joined[i].ID != items[i].ID {
					t.Fatalf("n=%d size=%d: position %d has %s, want %s", n, size, i, joined[i].ID, items[i].ID)
				}
			}
		}
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{12, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		got := PageWindow(tt.current, tt.total, DefaultMaxVisiblePages)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PageWindow(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestControllerDefaults(t *testing.T) {
	c := NewController(0)
	state := c.State()
	if state.StatusFilter != FilterAll || state.CurrentPage != 1 || state.ViewMode != ModeTable || state.IsModalOpen {
		t.Errorf("Unexpected default state: %+v", state)
	}
	if c.PageSize() != DefaultPageSize {
		t.Errorf("Expected default page size %d, got %d", DefaultPageSize, c.PageSize())
	}
}

func TestSetStatusFilterResetsPage(t *testing.T) {
	c := NewController(5)
	c.SetCurrentPage(3)
	c.SetStatusFilter("Active")
	if c.State().CurrentPage != 1 {
		t.Errorf("Expected page reset to 1, got %d", c.State().CurrentPage)
	}

	c.SetCurrentPage(2)
	c.SetStatusFilter(FilterAll)
	if c.State().CurrentPage != 1 {
		t.Errorf("Expected page reset to 1 on every filter change, got %d", c.State().CurrentPage)
	}
}

func TestItemListChangeKeepsPage(t *testing.T) {
	c := NewController(5)
	c.SetCurrentPage(3)

	page := c.Derive(numbered(4))
	if page.CurrentPage != 3 {
		t.Errorf("Expected page to stay at 3 when only the list changes, got %d", page.CurrentPage)
	}
	if len(page.Items) != 0 {
		t.Errorf("Expected empty page slice, got %d items", len(page.Items))
	}
}

func TestEffectiveViewMode(t *testing.T) {
	c := NewController(5)
	c.SetViewMode(ModeTable)

	c.SetWidth(NarrowBreakpoint - 1)
	if c.EffectiveViewMode() != ModeCard || !c.IsNarrow() {
		t.Error("Expected card view below the breakpoint")
	}

	c.SetWidth(NarrowBreakpoint)
	if c.EffectiveViewMode() != ModeTable {
		t.Error("Expected user choice at the breakpoint")
	}

	c.SetViewMode(ModeCard)
	c.SetWidth(200)
	if c.EffectiveViewMode() != ModeCard {
		t.Error("Expected explicit card choice to be respected")
	}
	if c.State().ViewMode != ModeCard {
		t.Error("Expected forced layout not to overwrite the user's choice")
	}
}

func TestNextPrevPage(t *testing.T) {
	c := NewController(5)
	items := numbered(12)

	if c.PrevPage() {
		t.Error("Expected PrevPage to stop at page 1")
	}
	c.NextPage(items)
	c.NextPage(items)
	if c.NextPage(items) {
		t.Error("Expected NextPage to stop at the last page")
	}
	if c.State().CurrentPage != 3 {
		t.Errorf("Expected page 3, got %d", c.State().CurrentPage)
	}
	c.PrevPage()
	if c.State().CurrentPage != 2 {
		t.Errorf("Expected page 2, got %d", c.State().CurrentPage)
	}
}

func TestDerive(t *testing.T) {
	c := NewController(5)
	items := append(numbered(12), makeItems("Pending")...)

	page := c.Derive(items)
	if page.TotalPages != 3 || !page.ShowPagination || len(page.Items) != 5 {
		t.Errorf("Unexpected page: total=%d show=%v len=%d", page.TotalPages, page.ShowPagination, len(page.Items))
	}

	c.SetStatusFilter("Pending")
	page = c.Derive(items)
	if page.TotalPages != 1 || page.ShowPagination {
		t.Errorf("Expected single page without pagination, got total=%d show=%v", page.TotalPages, page.ShowPagination)
	}

	c.SetStatusFilter("Inactive")
	page = c.Derive(items)
	if !page.Empty || page.ShowPagination || page.EmptyHint == "" {
		t.Errorf("Expected empty page with hint, got %+v", page)
	}
}

func TestStateIsSerializable(t *testing.T) {
	c := NewController(5)
	c.SetStatusFilter("Active")
	c.SetModalOpen(true)

	data, err := json.Marshal(c.State())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded State
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != c.State() {
		t.Errorf("Expected %+v, got %+v", c.State(), decoded)
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode("table"); !ok || m != ModeTable {
		t.Error("Expected table")
	}
	if m, ok := ParseMode("cards"); !ok || m != ModeCard {
		t.Error("Expected card alias")
	}
	if _, ok := ParseMode("list"); ok {
		t.Error("Expected unknown mode to be rejected")
	}
}

func TestMatchStatus(t *testing.T) {
	names := []string{"Active", "Not Started"}
	tests := []struct {
		filter string
		want   string
	}{
		{"active", "Active"},
		{"NOT STARTED", "Not Started"},
		{" Active ", "Active"},
		{"ALL", FilterAll},
		{"Archived", "Archived"},
	}
	for _, tt := range tests {
		if got := MatchStatus(tt.filter, names); got != tt.want {
			t.Errorf("MatchStatus(%q) = %q, want %q", tt.filter, got, tt.want)
		}
	}
}
