package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/nickpending/donations/internal/api"
)

var (
	mdRendererMu sync.Mutex
	// Renderers keyed by theme and wrap width
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// DetailModal shows one donation item as rendered markdown
type DetailModal struct {
	Modal    // Embed base modal
	viewport viewport.Model
	item     api.DonationItem
}

// NewDetailModal creates a hidden detail modal
func NewDetailModal() DetailModal {
	return DetailModal{
		Modal:    NewModal("", 70, 20),
		viewport: viewport.New(60, 14),
	}
}

// SetSize updates the modal and viewport size based on terminal dimensions
func (m *DetailModal) SetSize(width, height int) {
	m.fitSize(width, height, 0.6, 50, 12)
	m.viewport.Width = m.width - 4
	m.viewport.Height = m.height - 6
}

// Open shows item rendered with theme
func (m *DetailModal) Open(item api.DonationItem, theme StyleTheme) {
	m.item = item
	m.SetTitle(strings.ToUpper(item.Name))
	m.viewport.SetContent(renderMarkdown(itemMarkdown(item), theme, m.viewport.Width))
	m.viewport.GotoTop()
	m.Show()
}

// Item returns the item being shown
func (m DetailModal) Item() api.DonationItem {
	return m.item
}

// Update handles scrolling and closing
func (m DetailModal) Update(msg tea.Msg) (DetailModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "enter":
			m.Hide()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail modal
func (m DetailModal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}
	footer := theme.MutedStyle().Render(fmt.Sprintf("j/k:scroll  y:copy id  esc:close  %3.f%%", m.viewport.ScrollPercent()*100))
	m.Modal.SetContent(m.viewport.View() + "\n" + footer)
	return m.Modal.View(theme)
}

// itemMarkdown describes an item as a markdown field table
func itemMarkdown(item api.DonationItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(item.Name))
	b.WriteString("| Field | Value |\n|---|---|\n")
	rows := [][2]string{
		{"ID", "`" + item.ID + "`"},
		{"Status", orDash(item.Status.Name)},
		{"Price", formatPrice(item.Price)},
		{"Location", orDash(item.LocationName())},
		{"Theme", orDash(item.ThemeName())},
		{"Reference", orDash(item.ReferenceID())},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], escapeMarkdown(row[1]))
	}
	return b.String()
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// renderMarkdown renders md with a cached glamour renderer, falling back to
// the raw text when rendering fails.
func renderMarkdown(md string, theme StyleTheme, width int) string {
	if width < 10 {
		width = 10
	}
	key := fmt.Sprintf("%s:%d", theme.Name, width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()

	r := mdRenderers[key]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStyles(theme.ToGlamourStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			slog.Warn("markdown renderer unavailable", "theme", theme.Name, "error", err)
			return md
		}
		mdRenderers[key] = r
	}

	out, err := r.Render(md)
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
		return md
	}
	return strings.TrimRight(out, "\n")
}
