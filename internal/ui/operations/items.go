package operations

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/service"
)

// Item operation result messages

// ItemsLoadedMsg carries the result of an items fetch
type ItemsLoadedMsg struct {
	Items  []api.DonationItem // Cached items; the previous list when Err is set
	Err    error
	Manual bool // Triggered by the user rather than mount or the refresh timer
	Auto   bool // Triggered by the refresh timer
}

// ItemCreatedMsg carries the outcome of a create plus the refetched list
type ItemCreatedMsg struct {
	Item  *api.DonationItem
	Items []api.DonationItem
	Err   error
}

// DataResetMsg carries the outcome of a reset plus the refetched list
type DataResetMsg struct {
	Items []api.DonationItem
	Err   error
}

// withTimeout derives the per-operation context. A zero timeout means no deadline.
func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

// LoadItems mounts the items query, reusing fresh cached data
func LoadItems(store *service.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		items, err := store.Items.Mount(ctx)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

// RefreshItems always refetches the items list
func RefreshItems(store *service.Store, timeout time.Duration, auto bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		items, err := store.RefreshItems(ctx)
		return ItemsLoadedMsg{
			Items:  items,
			Err:    err,
			Manual: !auto,
			Auto:   auto,
		}
	}
}

// CreateItem posts a new item. The store refetches items once the create succeeds.
func CreateItem(store *service.Store, request api.CreateDonationItemRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		item, err := store.CreateItem(ctx, request)
		return ItemCreatedMsg{
			Item:  item,
			Items: store.Items.Data(),
			Err:   err,
		}
	}
}

// ResetData restores the seed data and refetches items
func ResetData(store *service.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		_, err := store.ResetData(ctx)
		return DataResetMsg{
			Items: store.Items.Data(),
			Err:   err,
		}
	}
}
