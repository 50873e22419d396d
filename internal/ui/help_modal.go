package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal represents the help/keyboard shortcuts modal
type HelpModal struct {
	Modal // Embed base modal
}

// NewHelpModal creates a new HelpModal instance
func NewHelpModal() HelpModal {
	return HelpModal{
		Modal: NewModal("", 80, 30), // Sized by SetSize
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *HelpModal) SetSize(width, height int) {
	m.fitSize(width, height, 0.75, 50, 20)
}

// Update handles input for the help modal
func (m HelpModal) Update(msg tea.Msg) (HelpModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			m.Hide()
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	return m, nil
}

// View renders the help modal
func (m HelpModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	var content strings.Builder

	center := func(text string, style lipgloss.Style) string {
		pad := max(0, (m.width-4-lipgloss.Width(text))/2)
		return style.Render(strings.Repeat(" ", pad) + text)
	}

	titleStyle := lipgloss.NewStyle().Foreground(theme.Cyan).Bold(true)
	introStyle := lipgloss.NewStyle().Foreground(theme.Gray).Italic(true)
	keyStyle := lipgloss.NewStyle().Foreground(theme.Purple).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.White)

	content.WriteString(center("KEYBOARD SHORTCUTS", titleStyle))
	content.WriteString("\n\n")
	content.WriteString(center("Press : to enter command mode for filter, page, view and reset.", introStyle))
	content.WriteString("\n\n")

	formatCmd := func(key, desc string) string {
		keyPadded := keyStyle.Render(key) + strings.Repeat(" ", max(0, 12-lipgloss.Width(key)))
		return "  " + keyPadded + descStyle.Render(desc)
	}

	format2Col := func(key1, desc1, key2, desc2 string) string {
		if m.width > 70 {
			col1 := formatCmd(key1, desc1)
			spacing := max(2, (m.width/2)-lipgloss.Width(col1))
			return col1 + strings.Repeat(" ", spacing) + formatCmd(key2, desc2)
		}
		return formatCmd(key1, desc1) + "\n" + formatCmd(key2, desc2)
	}

	sectionHeader := func(title string) string {
		headerText := "── " + title + " "
		remaining := max(0, m.width-8-lipgloss.Width(headerText))
		return titleStyle.Render(headerText + strings.Repeat("─", remaining))
	}

	sections := []struct {
		title string
		rows  [][4]string
	}{
		{"NAVIGATION", [][4]string{
			{"j/↓", "Move down", "h/←", "Previous page"},
			{"k/↑", "Move up", "l/→", "Next page"},
			{"g", "First row", "G", "Last row"},
		}},
		{"VIEWS & FILTERS", [][4]string{
			{"f", "Cycle status filter", "v", "Table / card view"},
			{"F", "Clear filter", "t", "Cycle theme"},
		}},
		{"ACTIONS", [][4]string{
			{"n", "New donation item", "Enter", "Item details"},
			{"r", "Refresh / retry", "y", "Copy item id"},
			{"R", "Reset demo data", "x", "Dismiss notification"},
		}},
		{"COMMAND MODE (:)", [][4]string{
			{":filter <s>", "Filter by status", ":page <n>", "Jump to page"},
			{":next", "Next page", ":prev", "Previous page"},
			{":view [mode]", "table or card", ":new", "New item"},
			{":reset", "Reset demo data", ":yank", "Copy item id"},
			{":refresh", "Refetch items", ":quit", "Exit"},
		}},
		{"NEW ITEM FORM", [][4]string{
			{"Tab", "Next field", "←/→", "Choose location/theme"},
			{"Enter", "Create", "ESC", "Cancel"},
		}},
	}

	for _, section := range sections {
		content.WriteString(sectionHeader(section.title))
		content.WriteString("\n")
		for _, row := range section.rows {
			content.WriteString(format2Col(row[0], row[1], row[2], row[3]))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(formatCmd("q", "Quit application"))
	content.WriteString("\n\n")
	content.WriteString(center("Press ESC or ? to close", introStyle))

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Cyan).
		Width(m.width).
		Padding(1, 2).
		Align(lipgloss.Left)

	return modalStyle.Render(content.String())
}
