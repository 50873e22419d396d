package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// toastKind selects the toast color
type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

// toastLifetime is how long a toast stays before it dismisses itself
const toastLifetime = 4 * time.Second

// maxToasts caps the stack; the oldest toast is dropped first
const maxToasts = 3

type toast struct {
	id      string
	kind    toastKind
	message string
}

// dismissToastMsg removes one toast by id
type dismissToastMsg struct {
	id string
}

// Toasts is a stack of transient, dismissible notifications
type Toasts struct {
	items []toast
}

// Push adds a toast and returns the command that dismisses it later
func (t *Toasts) Push(kind toastKind, message string) tea.Cmd {
	id := uuid.NewString()
	t.items = append(t.items, toast{id: id, kind: kind, message: message})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return dismissToastMsg{id: id}
	})
}

// Dismiss removes the toast with id; unknown ids are ignored
func (t *Toasts) Dismiss(id string) {
	for i, item := range t.items {
		if item.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recent toast
func (t *Toasts) DismissNewest() bool {
	if len(t.items) == 0 {
		return false
	}
	t.items = t.items[:len(t.items)-1]
	return true
}

// Len returns the number of visible toasts
func (t Toasts) Len() int {
	return len(t.items)
}

// Latest returns the newest message, or ""
func (t Toasts) Latest() string {
	if len(t.items) == 0 {
		return ""
	}
	return t.items[len(t.items)-1].message
}

// View renders the stack, newest last
func (t Toasts) View(theme StyleTheme, width int) string {
	if len(t.items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(t.items))
	for _, item := range t.items {
		var color lipgloss.Color
		var icon string
		switch item.kind {
		case toastSuccess:
			color, icon = theme.Green, "✓"
		case toastError:
			color, icon = theme.VibrantPurple, "✗"
		default:
			color, icon = theme.Cyan, "◆"
		}
		style := lipgloss.NewStyle().
			Foreground(color).
			Bold(true).
			Width(width).
			Padding(0, 1)
		lines = append(lines, style.Render(icon+" "+item.message))
	}
	return strings.Join(lines, "\n")
}
