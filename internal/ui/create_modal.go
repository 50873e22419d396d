package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/form"
)

// createSubmitMsg asks the model to send a validated create request
type createSubmitMsg struct {
	request api.CreateDonationItemRequest
}

// option is one choice of a picker field
type option struct {
	id   string
	name string
}

// CreateModal is the create-donation-item form
type CreateModal struct {
	Modal // Embed base modal
	flow  *form.Flow

	nameInput  textinput.Model
	priceInput textinput.Model
	locations  []option
	themes     []option
	locIdx     int // -1 until the user picks
	themeIdx   int
	focus      int // Index into form.Fields
}

// NewCreateModal creates a closed create form pricing items in currency
func NewCreateModal(currency string) CreateModal {
	name := textinput.New()
	name.Placeholder = "e.g. School Books"
	name.CharLimit = form.MaxNameLength + 20
	name.Prompt = ""

	price := textinput.New()
	price.Placeholder = "optional"
	price.CharLimit = 16
	price.Prompt = ""

	return CreateModal{
		Modal:      NewModal("NEW DONATION ITEM", 60, 20),
		flow:       form.NewFlow(currency),
		nameInput:  name,
		priceInput: price,
		locIdx:     -1,
		themeIdx:   -1,
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *CreateModal) SetSize(width, height int) {
	m.fitSize(width, height, 0.5, 50, 18)
	m.nameInput.Width = m.width - 8
	m.priceInput.Width = m.width - 8
}

// Open shows an empty form. existing is the full list of item names.
func (m *CreateModal) Open(existing []string, locations []api.Location, themes []api.Theme) tea.Cmd {
	m.flow.Open(existing)
	m.SetLookups(locations, themes)
	m.resetInputs()
	m.Show()
	return m.focusField(0)
}

// SetLookups replaces the picker options
func (m *CreateModal) SetLookups(locations []api.Location, themes []api.Theme) {
	m.locations = m.locations[:0]
	for _, l := range locations {
		m.locations = append(m.locations, option{id: l.ID, name: l.Name})
	}
	m.themes = m.themes[:0]
	for _, t := range themes {
		m.themes = append(m.themes, option{id: t.ID, name: t.Name})
	}
}

// SetExisting refreshes the names used for the uniqueness check
func (m *CreateModal) SetExisting(existing []string) {
	m.flow.SetExisting(existing)
}

// Close hides the modal and clears the form
func (m *CreateModal) Close() {
	m.flow.Close()
	m.resetInputs()
	m.Hide()
}

func (m *CreateModal) resetInputs() {
	m.nameInput.SetValue("")
	m.priceInput.SetValue("")
	m.locIdx = -1
	m.themeIdx = -1
	m.focus = 0
}

// Flow exposes the underlying form state
func (m CreateModal) Flow() *form.Flow {
	return m.flow
}

// Settle applies the create outcome. On success the modal closes and resets;
// on failure it stays open with the values intact.
func (m *CreateModal) Settle(err error) {
	m.flow.Settle(err)
	if err == nil {
		m.resetInputs()
		m.Hide()
	}
}

func (m *CreateModal) focusField(idx int) tea.Cmd {
	n := len(form.Fields)
	m.focus = ((idx % n) + n) % n
	m.nameInput.Blur()
	m.priceInput.Blur()
	switch form.Fields[m.focus] {
	case form.FieldName:
		return m.nameInput.Focus()
	case form.FieldPrice:
		return m.priceInput.Focus()
	}
	return nil
}

// cycle moves a picker selection by delta and records the chosen id
func (m *CreateModal) cycle(field form.Field, delta int) {
	opts, idx := m.locations, &m.locIdx
	if field == form.FieldThemeID {
		opts, idx = m.themes, &m.themeIdx
	}
	if len(opts) == 0 {
		m.flow.SetField(field, "")
		return
	}
	if *idx < 0 {
		if delta < 0 {
			*idx = len(opts) - 1
		} else {
			*idx = 0
		}
	} else {
		*idx = ((*idx+delta)%len(opts) + len(opts)) % len(opts)
	}
	m.flow.SetField(field, opts[*idx].id)
}

// Update handles input for the create modal
func (m CreateModal) Update(msg tea.Msg) (CreateModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		// Cursor blink and other input-internal messages
		var cmd tea.Cmd
		switch form.Fields[m.focus] {
		case form.FieldName:
			m.nameInput, cmd = m.nameInput.Update(msg)
		case form.FieldPrice:
			m.priceInput, cmd = m.priceInput.Update(msg)
		}
		return m, cmd
	}

	// Inputs are locked while the create request is in flight
	if m.flow.IsSubmitting() {
		return m, nil
	}

	field := form.Fields[m.focus]
	switch keyMsg.String() {
	case "esc":
		m.Close()
		return m, nil
	case "tab", "down":
		return m, m.focusField(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusField(m.focus - 1)
	case "enter", "ctrl+s":
		request, err := m.flow.BeginSubmit()
		if err != nil {
			return m, nil
		}
		return m, func() tea.Msg { return createSubmitMsg{request: request} }
	}

	switch field {
	case form.FieldLocationID, form.FieldThemeID:
		switch keyMsg.String() {
		case "left", "h":
			m.cycle(field, -1)
		case "right", "l", " ":
			m.cycle(field, 1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if field == form.FieldName {
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.flow.SetField(form.FieldName, m.nameInput.Value())
	} else {
		m.priceInput, cmd = m.priceInput.Update(msg)
		m.flow.SetField(form.FieldPrice, m.priceInput.Value())
	}
	if m.flow.SubmitError() != nil {
		m.flow.DismissError()
	}
	return m, cmd
}

// View renders the create form inside the modal frame
func (m CreateModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	innerWidth := max(m.width-6, 20)
	activeBox := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Cyan).
		Width(innerWidth).
		Padding(0, 1)
	inactiveBox := activeBox.BorderForeground(theme.DarkGray)

	labelStyle := theme.TextStyle().Bold(true)
	var lines []string

	for i, field := range form.Fields {
		box := inactiveBox
		if i == m.focus {
			box = activeBox
		}

		lines = append(lines, labelStyle.Render(fieldLabel(field, m.flow.Currency())))
		switch field {
		case form.FieldName:
			lines = append(lines, box.Render(m.nameInput.View()))
		case form.FieldPrice:
			lines = append(lines, box.Render(m.priceInput.View()))
		case form.FieldLocationID:
			lines = append(lines, box.Render(pickerView(m.locations, m.locIdx, "No locations available", theme)))
		case form.FieldThemeID:
			lines = append(lines, box.Render(pickerView(m.themes, m.themeIdx, "No themes available", theme)))
		}

		if msg := m.flow.FieldError(field); msg != "" {
			lines = append(lines, theme.ErrorStyle().Render("⚠ "+msg))
		}
	}

	lines = append(lines, "")
	if err := m.flow.SubmitError(); err != nil {
		lines = append(lines, theme.ErrorStyle().Render("✗ "+userMessage(err)))
	}

	var action string
	switch {
	case m.flow.IsSubmitting():
		action = theme.SelectedStyle().Render("Creating...")
	case m.flow.CanSubmit():
		action = theme.SuccessStyle().Render("[enter] Create")
	default:
		action = theme.DimmedStyle().Render("[enter] Create")
	}
	hints := theme.MutedStyle().Render("tab:next field  ←/→:choose  esc:cancel")
	lines = append(lines, action+"   "+hints)

	m.Modal.SetContent(strings.Join(lines, "\n"))
	return m.Modal.View(theme)
}

func fieldLabel(field form.Field, currency string) string {
	switch field {
	case form.FieldName:
		return "Name"
	case form.FieldLocationID:
		return "Location"
	case form.FieldThemeID:
		return "Theme"
	case form.FieldPrice:
		return fmt.Sprintf("Price (%s)", currency)
	}
	return string(field)
}

func pickerView(opts []option, idx int, empty string, theme StyleTheme) string {
	if len(opts) == 0 {
		return theme.MutedStyle().Render(empty)
	}
	if idx < 0 || idx >= len(opts) {
		return theme.MutedStyle().Render("‹ Select ›")
	}
	return fmt.Sprintf("‹ %s › %s", opts[idx].name,
		theme.MutedStyle().Render(fmt.Sprintf("%d/%d", idx+1, len(opts))))
}
