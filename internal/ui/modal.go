package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Modal represents a generic modal overlay component
type Modal struct {
	title   string
	width   int
	height  int
	content string
	visible bool
}

// NewModal creates a new Modal instance
func NewModal(title string, width, height int) Modal {
	return Modal{
		title:  title,
		width:  width,
		height: height,
	}
}

// Show makes the modal visible
func (m *Modal) Show() {
	m.visible = true
}

// Hide makes the modal invisible
func (m *Modal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is currently visible
func (m Modal) IsVisible() bool {
	return m.visible
}

// SetContent updates the modal content
func (m *Modal) SetContent(content string) {
	m.content = content
}

// SetTitle updates the modal title
func (m *Modal) SetTitle(title string) {
	m.title = title
}

// fitSize sizes the modal to a fraction of the terminal, clamped to [minW, width-4]
func (m *Modal) fitSize(termWidth, termHeight int, fraction float64, minW, minH int) {
	w := int(float64(termWidth) * fraction)
	h := termHeight - 8
	if w < minW {
		w = minW
	}
	if h < minH {
		h = minH
	}
	if termWidth > 0 && w > termWidth-4 {
		w = termWidth - 4
	}
	m.width = w
	m.height = h
}

// View renders the modal frame around its title and content
func (m Modal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Cyan).
		Width(m.width).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Cyan)

	var body strings.Builder
	if m.title != "" {
		body.WriteString(titleStyle.Render(m.title))
		body.WriteString("\n\n")
	}
	body.WriteString(m.content)

	return modalStyle.Render(body.String())
}

// overlay centers modalView over background. Everything below the header line
// is blanked so the modal reads clearly.
func overlay(background, modalView string, termWidth, termHeight int) string {
	if modalView == "" {
		return background
	}

	bgLines := strings.Split(background, "\n")
	for i := 1; i < len(bgLines); i++ {
		bgLines[i] = strings.Repeat(" ", max(termWidth, 0))
	}

	modalLines := strings.Split(modalView, "\n")
	modalWidth := lipgloss.Width(modalView)

	startY := max(0, (termHeight-len(modalLines))/2)
	startX := max(0, (termWidth-modalWidth)/2)

	result := make([]string, max(len(bgLines), startY+len(modalLines)))
	copy(result, bgLines)

	padding := strings.Repeat(" ", startX)
	for i, line := range modalLines {
		result[startY+i] = padding + line
	}

	return strings.Join(result, "\n")
}
