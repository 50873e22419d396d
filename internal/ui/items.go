package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/view"
)

// tableHeaders are the table view columns
var tableHeaders = []string{"NAME", "STATUS", "PRICE", "LOCATION", "THEME", "REFERENCE"}

// buildViewStateString creates a formatted string showing current view state
func buildViewStateString(m Model) string {
	state := m.controller.State()
	filter := strings.ToUpper(state.StatusFilter)

	mode := strings.ToUpper(string(m.controller.EffectiveViewMode()))
	if m.controller.IsNarrow() && state.ViewMode != view.ModeCard {
		mode += "*"
	}

	states := []string{
		"Status: " + filter,
		"View: " + mode,
		fmt.Sprintf("Items: %d", len(m.items)),
	}
	return strings.Join(states, " | ")
}

// renderMain renders the header, body, toasts and status line
func renderMain(m Model) string {
	theme := m.theme

	title := " DONATIONS"
	right := fmt.Sprintf("%s  ◆ %s ", buildViewStateString(m), time.Now().Format("15:04"))
	if m.fetching || m.createModal.Flow().IsSubmitting() || m.store.ResetPending() {
		right = m.spinner.View() + " " + right
	}
	spacing := max(2, m.width-lipgloss.Width(title)-lipgloss.Width(right))
	header := RenderWithGradientBackground(title+strings.Repeat(" ", spacing)+right, m.width, string(theme.Cyan), string(theme.VibrantPurple))

	footer := []string{}
	if toasts := m.toasts.View(theme, m.width); toasts != "" {
		footer = append(footer, toasts)
	}
	if m.commandMode.IsActive() {
		footer = append(footer, m.commandMode.View(theme))
	} else {
		footer = append(footer, renderStatusBar(m))
	}
	footerView := strings.Join(footer, "\n")

	bodyHeight := max(3, m.height-2-lipgloss.Height(footerView))
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Padding(0, 1).
		Render(renderBody(m, m.width-2))

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, footerView)
}

// renderBody picks between loading, error, empty and populated views
func renderBody(m Model, width int) string {
	theme := m.theme

	if m.err != nil {
		return renderError(m.err, width, theme)
	}
	if m.loading && !m.hasData {
		return renderLoading(m)
	}

	page := m.controller.Derive(m.items)
	if page.Empty {
		return renderEmptyState(page.EmptyHint, theme)
	}

	var content string
	if m.controller.EffectiveViewMode() == view.ModeCard {
		content = renderCards(page.Items, m.cursor, width, theme)
	} else {
		content = renderTable(page.Items, m.cursor, width, theme)
	}

	if page.ShowPagination {
		content += "\n\n" + renderPagination(page, width, theme)
	}
	return content
}

// renderTable draws the page as a table, status column colored by status
func renderTable(items []api.DonationItem, cursor, width int, theme StyleTheme) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Name,
			orDash(item.Status.Name),
			formatPrice(item.Price),
			orDash(item.LocationName()),
			orDash(item.ThemeName()),
			orDash(item.ReferenceID()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(theme.Cyan).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(theme.White).Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.DarkGray)).
		BorderColumn(false).
		Headers(tableHeaders...).
		Rows(rows...).
		Width(width).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if row >= 0 && row < len(items) {
				switch col {
				case 1:
					style = style.Foreground(theme.StatusColor(items[row].Status.ID)).Bold(true)
				case 2:
					style = style.Foreground(theme.Orange)
				case 3, 4:
					style = style.Foreground(theme.Purple)
				case 5:
					style = style.Foreground(theme.Gray)
				}
			}
			if row == cursor {
				style = style.Background(theme.DarkGray)
			}
			return style
		})

	return t.Render()
}

// renderCards lays the page out as bordered cards, one to three per row
func renderCards(items []api.DonationItem, cursor, width int, theme StyleTheme) string {
	columns := 1
	switch {
	case width >= 150:
		columns = 3
	case width >= 90:
		columns = 2
	}
	cardWidth := max(20, width/columns-2)

	var rows []string
	var current []string
	for i, item := range items {
		current = append(current, renderCard(item, i == cursor, cardWidth, theme))
		if len(current) == columns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(item api.DonationItem, selected bool, width int, theme StyleTheme) string {
	border := theme.DarkGray
	if selected {
		border = theme.Cyan
	}
	inner := width - 4

	nameStyle := lipgloss.NewStyle().Foreground(theme.White).Bold(true)
	if selected {
		nameStyle = nameStyle.Foreground(theme.Cyan)
	}

	badge := theme.StatusBadgeStyle(item.Status.ID).Render(orDash(item.Status.Name))
	price := lipgloss.NewStyle().Foreground(theme.Orange).Render(formatPrice(item.Price))
	meta := theme.TagStyle().Render(truncate(orDash(item.LocationName())+" · "+orDash(item.ThemeName()), inner))

	lines := []string{
		nameStyle.Render(truncate(item.Name, inner)),
		badge + "  " + price,
		meta,
	}
	if ref := item.ReferenceID(); ref != "" {
		lines = append(lines, theme.MutedStyle().Render(truncate("ref "+ref, inner)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width - 2).
		Padding(0, 1).
		Margin(0, 1, 0, 0).
		Render(strings.Join(lines, "\n"))
}

// renderPagination draws "‹ Prev 1 2 [3] 4 5 Next ›  Page 3 of 7 · N items"
func renderPagination(page view.Page, width int, theme StyleTheme) string {
	active := lipgloss.NewStyle().Foreground(theme.Cyan).Bold(true)
	muted := theme.MutedStyle()
	text := theme.TextStyle()

	var parts []string
	if page.CurrentPage > 1 {
		parts = append(parts, text.Render("‹ Prev"))
	} else {
		parts = append(parts, muted.Render("‹ Prev"))
	}
	for _, n := range view.PageWindow(page.CurrentPage, page.TotalPages, view.DefaultMaxVisiblePages) {
		if n == page.CurrentPage {
			parts = append(parts, active.Render(fmt.Sprintf("[%d]", n)))
		} else {
			parts = append(parts, text.Render(fmt.Sprintf("%d", n)))
		}
	}
	if page.CurrentPage < page.TotalPages {
		parts = append(parts, text.Render("Next ›"))
	} else {
		parts = append(parts, muted.Render("Next ›"))
	}

	summary := muted.Render(fmt.Sprintf("Page %d of %d · %d items", page.CurrentPage, page.TotalPages, len(page.Filtered)))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(parts, " ")+"  "+summary)
}

func renderStatusBar(m Model) string {
	theme := m.theme
	statusStyle := lipgloss.NewStyle().
		Background(theme.DarkGray).
		Foreground(theme.Gray).
		Width(m.width).
		Padding(0, 1)

	var statusText string
	switch {
	case m.confirmReset:
		statusText = lipgloss.NewStyle().
			Foreground(theme.Orange).
			Bold(true).
			Render("Reset all donation data to the seed set? (y/N)")
	case m.statusMessage != "":
		statusText = lipgloss.NewStyle().
			Foreground(theme.Cyan).
			Bold(true).
			Render(m.statusMessage)
	default:
		statusText = "j/k:navigate  h/l:page  enter:details  n:new  f:filter  v:view  r:refresh  y:yank id  ?:help  q:quit"
	}
	return statusStyle.Render(truncate(statusText, max(0, m.width-2)))
}

func renderLoading(m Model) string {
	return lipgloss.NewStyle().
		Foreground(m.theme.Cyan).
		Bold(true).
		Render(m.spinner.View() + " Loading donation items...")
}

// renderError shows the failure wrapped to width. Server error bodies can be long.
func renderError(err error, width int, theme StyleTheme) string {
	title := lipgloss.NewStyle().
		Foreground(theme.Red).
		Bold(true).
		Render(wrapText("✗ "+userMessage(err), width-4))
	hint := theme.MutedStyle().Render("Press r to retry")
	return title + "\n\n" + hint
}

func renderEmptyState(hint string, theme StyleTheme) string {
	title := lipgloss.NewStyle().
		Foreground(theme.White).
		Bold(true).
		Render("No donation items")
	return title + "\n" + lipgloss.NewStyle().
		Foreground(theme.Gray).
		Italic(true).
		Render(hint)
}
