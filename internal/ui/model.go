package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/commands"
	"github.com/nickpending/donations/internal/config"
	"github.com/nickpending/donations/internal/service"
	"github.com/nickpending/donations/internal/ui/operations"
	"github.com/nickpending/donations/internal/view"
)

// Model represents the application state for the TUI
type Model struct {
	store      *service.Store
	controller *view.Controller
	timeout    time.Duration // Per-request deadline, 0 = none
	logger     *slog.Logger

	items     []api.DonationItem
	statuses  []api.Status
	locations []api.Location
	themes    []api.Theme

	loading  bool  // No items fetch has settled yet
	fetching bool  // A refetch is running behind cached data
	hasData  bool  // At least one items fetch succeeded
	err      error // Error of the latest items fetch, nil once one succeeds

	width   int
	height  int
	cursor  int // Row within the visible page
	spinner spinner.Model
	theme   StyleTheme

	// Status message for user feedback
	statusMessage string
	confirmReset  bool // Waiting for y/n on the reset prompt

	// Modal state
	createModal CreateModal
	detailModal DetailModal
	helpModal   HelpModal
	commandMode CommandMode
	toasts      Toasts

	// Auto-refresh state
	refreshInterval time.Duration // Interval for auto-refresh (0 = disabled)
}

// clearStatusMsg is sent to clear the status message after a delay
type clearStatusMsg struct{}

// autoRefreshMsg is sent by the timer to trigger automatic refresh
type autoRefreshMsg struct{}

// NewModel creates a new Model bound to store
func NewModel(store *service.Store, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	theme := ThemeByName(cfg.TUI.Theme)
	s.Style = theme.TextStyle().Foreground(theme.Cyan)

	return Model{
		store:           store,
		controller:      view.NewController(cfg.TUI.PageSize),
		timeout:         cfg.RequestTimeout(),
		logger:          slog.Default().With("component", "tui"),
		items:           []api.DonationItem{},
		loading:         true,
		spinner:         s,
		theme:           theme,
		createModal:     NewCreateModal(cfg.API.Currency),
		detailModal:     NewDetailModal(),
		helpModal:       NewHelpModal(),
		commandMode:     NewCommandMode(),
		refreshInterval: time.Duration(cfg.GetRefreshInterval()) * time.Second,
	}
}

// Init starts the four initial fetches and the refresh timer
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		operations.LoadAll(m.store, m.timeout),
		m.spinner.Tick,
	}
	if m.refreshInterval > 0 {
		cmds = append(cmds, autoRefreshCmd(m.refreshInterval))
	}
	return tea.Batch(cmds...)
}

// busy reports whether the spinner should keep animating
func (m Model) busy() bool {
	return m.loading || m.fetching || m.createModal.Flow().IsSubmitting() || m.store.ResetPending()
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.controller.SetWidth(msg.Width)
		m.createModal.SetSize(msg.Width, msg.Height)
		m.detailModal.SetSize(msg.Width, msg.Height)
		m.helpModal.SetSize(msg.Width, msg.Height)
		m.commandMode.SetWidth(msg.Width)
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case operations.ItemsLoadedMsg:
		return m.handleItemsLoaded(msg)

	case operations.LookupLoadedMsg:
		return m.handleLookupLoaded(msg)

	case createSubmitMsg:
		m.logger.Debug("creating donation item", "name", msg.request.Name)
		return m, tea.Batch(
			operations.CreateItem(m.store, msg.request, m.timeout),
			m.spinner.Tick,
		)

	case operations.ItemCreatedMsg:
		m.createModal.Settle(msg.Err)
		if msg.Err != nil {
			cmd := m.toasts.Push(toastError, userMessage(msg.Err))
			return m, cmd
		}
		m.controller.SetModalOpen(false)
		m.applyItems(msg.Items)
		name := ""
		if msg.Item != nil {
			name = msg.Item.Name
		}
		cmd := m.toasts.Push(toastSuccess, fmt.Sprintf("Created '%s'", name))
		return m, cmd

	case operations.DataResetMsg:
		if msg.Err != nil {
			cmd := m.toasts.Push(toastError, userMessage(msg.Err))
			return m, cmd
		}
		m.applyItems(msg.Items)
		m.controller.SetCurrentPage(1)
		m.cursor = 0
		cmd := m.toasts.Push(toastSuccess, "Donation data reset")
		return m, cmd

	case dismissToastMsg:
		m.toasts.Dismiss(msg.id)
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case autoRefreshMsg:
		next := autoRefreshCmd(m.refreshInterval)
		if m.fetching || m.loading || m.err != nil || m.refreshInterval <= 0 {
			return m, next
		}
		m.fetching = true
		return m, tea.Batch(operations.RefreshItems(m.store, m.timeout, true), next, m.spinner.Tick)

	case commands.ErrorMsg:
		cmd := m.commandMode.SetError(msg.Message)
		return m, cmd

	case commands.RefreshMsg, commands.HelpMsg, commands.NewItemMsg, commands.ResetMsg,
		commands.YankMsg, commands.FilterMsg, commands.PageMsg, commands.ViewMsg, commands.ThemeMsg:
		return m.handleCommand(msg)
	}

	// Input routing: the topmost overlay receives input
	var cmd tea.Cmd

	if m.commandMode.IsActive() {
		m.commandMode, cmd = m.commandMode.Update(msg)
		return m, cmd
	}

	if m.createModal.IsVisible() {
		m.createModal, cmd = m.createModal.Update(msg)
		if !m.createModal.IsVisible() {
			m.controller.SetModalOpen(false)
		}
		return m, cmd
	}

	if m.detailModal.IsVisible() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "y" {
			cmd := m.yank(m.detailModal.Item())
			return m, cmd
		}
		m.detailModal, cmd = m.detailModal.Update(msg)
		return m, cmd
	}

	if m.helpModal.IsVisible() {
		m.helpModal, cmd = m.helpModal.Update(msg)
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}
	return m, nil
}

func (m Model) handleItemsLoaded(msg operations.ItemsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.fetching = false

	if msg.Err != nil {
		m.err = msg.Err
		if msg.Auto {
			m.logger.Warn("auto-refresh failed", "error", msg.Err)
			return m, nil
		}
		if msg.Manual && m.hasData {
			cmd := m.toasts.Push(toastError, userMessage(msg.Err))
			return m, cmd
		}
		return m, nil
	}

	m.err = nil
	m.applyItems(msg.Items)
	if msg.Manual {
		cmd := m.toasts.Push(toastInfo, fmt.Sprintf("Refreshed %d items", len(msg.Items)))
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLookupLoaded(msg operations.LookupLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("lookup failed", "kind", msg.Kind, "error", msg.Err)
		cmd := m.toasts.Push(toastError, userMessage(msg.Err))
		return m, cmd
	}

	switch msg.Kind {
	case operations.LookupStatuses:
		m.statuses = msg.Statuses
		names := make([]string, 0, len(msg.Statuses))
		for _, s := range msg.Statuses {
			names = append(names, s.Name)
		}
		m.commandMode.SetStatuses(names)
	case operations.LookupLocations:
		m.locations = msg.Locations
	case operations.LookupThemes:
		m.themes = msg.Themes
	}
	if !m.createModal.IsVisible() {
		m.createModal.SetLookups(m.locations, m.themes)
	}
	return m, nil
}

// applyItems replaces the item list. The current page is kept.
func (m *Model) applyItems(items []api.DonationItem) {
	if items == nil {
		items = []api.DonationItem{}
	}
	m.items = items
	m.hasData = true
	m.err = nil
	m.createModal.SetExisting(m.existingNames())
	m.clampCursor()
}

func (m Model) existingNames() []string {
	names := make([]string, 0, len(m.items))
	for _, item := range m.items {
		names = append(names, item.Name)
	}
	return names
}

func (m *Model) clampCursor() {
	n := len(m.controller.Derive(m.items).Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the item under the cursor on the visible page
func (m Model) selected() (api.DonationItem, bool) {
	page := m.controller.Derive(m.items)
	if m.cursor < 0 || m.cursor >= len(page.Items) {
		return api.DonationItem{}, false
	}
	return page.Items[m.cursor], true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmReset {
		m.confirmReset = false
		if msg.String() == "y" || msg.String() == "Y" {
			return m.startReset()
		}
		cmd := m.setStatus("Reset cancelled")
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case ":":
		m.commandMode.Show()
		return m, nil

	case "?":
		m.helpModal.Show()
		return m, nil

	case "j", "down":
		if m.cursor < len(m.controller.Derive(m.items).Items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, len(m.controller.Derive(m.items).Items)-1)

	case "h", "left", "[":
		if m.controller.PrevPage() {
			m.cursor = 0
		}
	case "l", "right", "]":
		if m.controller.NextPage(m.items) {
			m.cursor = 0
		}

	case "n":
		return m.openCreate()

	case "enter":
		if item, ok := m.selected(); ok {
			m.detailModal.Open(item, m.theme)
		}

	case "v":
		return m.toggleView()

	case "f":
		return m.cycleFilter()
	case "F":
		return m.setFilter(view.FilterAll)

	case "r":
		return m.refresh()

	case "y":
		if item, ok := m.selected(); ok {
			cmd := m.yank(item)
			return m, cmd
		}

	case "t":
		return m.nextTheme()

	case "x":
		m.toasts.DismissNewest()

	case "R":
		m.confirmReset = true
	}

	return m, nil
}

func (m Model) handleCommand(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commands.RefreshMsg:
		return m.refresh()

	case commands.HelpMsg:
		m.helpModal.Show()

	case commands.NewItemMsg:
		return m.openCreate()

	case commands.ResetMsg:
		if msg.Force {
			return m.startReset()
		}
		m.confirmReset = true

	case commands.YankMsg:
		if item, ok := m.selected(); ok {
			cmd := m.yank(item)
			return m, cmd
		}
		cmd := m.toasts.Push(toastError, "No item selected")
		return m, cmd

	case commands.FilterMsg:
		return m.setFilter(msg.Status)

	case commands.PageMsg:
		switch {
		case msg.Page > 0:
			total := m.controller.Derive(m.items).TotalPages
			if msg.Page > total {
				cmd := m.commandMode.SetError(fmt.Sprintf("page: only %d page(s)", total))
				return m, cmd
			}
			m.controller.SetCurrentPage(msg.Page)
		case msg.Delta > 0:
			m.controller.NextPage(m.items)
		case msg.Delta < 0:
			m.controller.PrevPage()
		}
		m.cursor = 0

	case commands.ViewMsg:
		if msg.Toggle {
			return m.toggleView()
		}
		mode, _ := view.ParseMode(msg.Mode)
		m.controller.SetViewMode(mode)
		cmd := m.viewModeStatus()
		return m, cmd

	case commands.ThemeMsg:
		return m.nextTheme()
	}
	return m, nil
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.fetching {
		return m, nil
	}
	if m.hasData {
		m.fetching = true
	} else {
		// Retry from the error view shows the full-screen spinner again
		m.loading = true
		m.err = nil
	}
	return m, tea.Batch(operations.RefreshItems(m.store, m.timeout, false), m.spinner.Tick)
}

func (m Model) openCreate() (tea.Model, tea.Cmd) {
	cmd := m.createModal.Open(m.existingNames(), m.locations, m.themes)
	m.controller.SetModalOpen(true)
	return m, cmd
}

func (m Model) startReset() (tea.Model, tea.Cmd) {
	if m.store.ResetPending() {
		return m, nil
	}
	notice := m.toasts.Push(toastInfo, "Resetting donation data...")
	return m, tea.Batch(operations.ResetData(m.store, m.timeout), notice, m.spinner.Tick)
}

func (m Model) toggleView() (tea.Model, tea.Cmd) {
	if m.controller.State().ViewMode == view.ModeCard {
		m.controller.SetViewMode(view.ModeTable)
	} else {
		m.controller.SetViewMode(view.ModeCard)
	}
	cmd := m.viewModeStatus()
	return m, cmd
}

func (m *Model) viewModeStatus() tea.Cmd {
	if m.controller.IsNarrow() {
		return m.setStatus(fmt.Sprintf("View: %s (cards below %d columns)", m.controller.State().ViewMode, view.NarrowBreakpoint))
	}
	return m.setStatus("View: " + string(m.controller.State().ViewMode))
}

// filterOptions lists "all" then the status names, from the lookup when it
// loaded and from the items otherwise.
func (m Model) filterOptions() []string {
	opts := []string{view.FilterAll}
	seen := map[string]bool{}
	add := func(name string) {
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		opts = append(opts, name)
	}
	if len(m.statuses) > 0 {
		for _, s := range m.statuses {
			add(s.Name)
		}
	} else {
		for _, item := range m.items {
			add(item.Status.Name)
		}
	}
	return opts
}

func (m Model) cycleFilter() (tea.Model, tea.Cmd) {
	opts := m.filterOptions()
	current := m.controller.State().StatusFilter
	next := opts[0]
	for i, opt := range opts {
		if opt == current {
			next = opts[(i+1)%len(opts)]
			break
		}
	}
	return m.setFilter(next)
}

func (m Model) setFilter(status string) (tea.Model, tea.Cmd) {
	m.controller.SetStatusFilter(view.MatchStatus(status, m.filterOptions()))
	m.cursor = 0
	cmd := m.setStatus("Filter: " + m.controller.State().StatusFilter)
	return m, cmd
}

func (m Model) nextTheme() (tea.Model, tea.Cmd) {
	m.theme = NextTheme(m.theme)
	m.spinner.Style = m.theme.TextStyle().Foreground(m.theme.Cyan)
	cmd := m.setStatus("Theme: " + m.theme.Name)
	return m, cmd
}

func (m *Model) yank(item api.DonationItem) tea.Cmd {
	if err := CopyToClipboard(item.ID); err != nil {
		m.logger.Warn("clipboard copy failed", "error", err)
		return m.toasts.Push(toastError, "Copy failed: "+err.Error())
	}
	return m.toasts.Push(toastSuccess, "Copied id "+item.ID)
}

// setStatus shows text in the status bar until clearStatusAfterDelay fires
func (m *Model) setStatus(text string) tea.Cmd {
	m.statusMessage = text
	return clearStatusAfterDelay()
}

// clearStatusAfterDelay returns a command that clears the status message after 2 seconds
func clearStatusAfterDelay() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// autoRefreshCmd schedules the next auto-refresh tick
func autoRefreshCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autoRefreshMsg{}
	})
}

// View renders the current view
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	base := renderMain(m)

	switch {
	case m.createModal.IsVisible():
		return overlay(base, m.createModal.View(m.theme), m.width, m.height)
	case m.detailModal.IsVisible():
		return overlay(base, m.detailModal.View(m.theme), m.width, m.height)
	case m.helpModal.IsVisible():
		return overlay(base, m.helpModal.View(m.theme), m.width, m.height)
	}
	return base
}
