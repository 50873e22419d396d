package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/form"
)

// formatPrice prefers the server's display text, then the amount and code
func formatPrice(p *api.Price) string {
	if p == nil {
		return "—"
	}
	if p.Text != "" {
		return p.Text
	}
	return fmt.Sprintf("%.2f %s", p.Amount, p.CurrencyCode)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// truncate shortens s to width display cells, keeping ANSI sequences intact
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// userMessage turns an error into the text shown in toasts and the error view
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var fetchErr *api.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Message
	}
	var createErr *api.CreateError
	if errors.As(err, &createErr) {
		return createErr.Message
	}
	var validationErr *form.ValidationError
	if errors.As(err, &validationErr) {
		return "Please fix the highlighted fields"
	}
	return err.Error()
}

// wrapText breaks text on spaces so no line exceeds width display cells.
// A single word wider than width keeps its own line.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		w := ansi.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
