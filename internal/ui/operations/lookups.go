package operations

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/service"
)

// Lookup kinds carried by LookupLoadedMsg
const (
	LookupStatuses  = "statuses"
	LookupLocations = "locations"
	LookupThemes    = "themes"
)

// LookupLoadedMsg carries one lookup table. A failed lookup arrives empty with Err set.
type LookupLoadedMsg struct {
	Kind      string
	Statuses  []api.Status
	Locations []api.Location
	Themes    []api.Theme
	Err       error
}

// LoadStatuses mounts the status lookup
func LoadStatuses(store *service.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		statuses, err := store.Statuses.Mount(ctx)
		return LookupLoadedMsg{Kind: LookupStatuses, Statuses: statuses, Err: err}
	}
}

// LoadLocations mounts the location lookup
func LoadLocations(store *service.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		locations, err := store.Locations.Mount(ctx)
		return LookupLoadedMsg{Kind: LookupLocations, Locations: locations, Err: err}
	}
}

// LoadThemes mounts the theme lookup
func LoadThemes(store *service.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		themes, err := store.Themes.Mount(ctx)
		return LookupLoadedMsg{Kind: LookupThemes, Themes: themes, Err: err}
	}
}

// LoadAll issues the four initial reads concurrently and independently
func LoadAll(store *service.Store, timeout time.Duration) tea.Cmd {
	return tea.Batch(
		LoadItems(store, timeout),
		LoadStatuses(store, timeout),
		LoadLocations(store, timeout),
		LoadThemes(store, timeout),
	)
}
