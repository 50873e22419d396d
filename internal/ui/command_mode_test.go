package ui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/donations/internal/commands"
)

func TestParseCommandWithQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"refresh", []string{"refresh"}},
		{"page  3", []string{"page", "3"}},
		{`filter "Not Started"`, []string{"filter", "Not Started"}},
		{`filter Not\ Started`, []string{"filter", "Not Started"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := parseCommandWithQuotes(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCommandWithQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompleteCommands(t *testing.T) {
	c := NewCommandMode()

	got := c.Complete("re")
	want := []string{"refresh", "reset", "reset!"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Complete(re) = %v, want %v", got, want)
	}
	if got := c.Complete("zz"); len(got) != 0 {
		t.Errorf("Expected no completions, got %v", got)
	}
}

func TestCompleteFilterStatuses(t *testing.T) {
	c := NewCommandMode()
	c.SetStatuses([]string{"Active", "Not Started"})

	got := c.Complete("filter ")
	want := []string{"filter all", "filter Active", `filter "Not Started"`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Complete(filter ) = %v, want %v", got, want)
	}

	got = c.Complete("filter n")
	if !reflect.DeepEqual(got, []string{`filter "Not Started"`}) {
		t.Errorf("Complete(filter n) = %v", got)
	}
}

func TestTabCyclesCompletions(t *testing.T) {
	c := NewCommandMode()
	c.Show()
	c.input.SetValue("re")

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c.input.Value() != "refresh" {
		t.Errorf("Expected refresh, got %q", c.input.Value())
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c.input.Value() != "reset" {
		t.Errorf("Expected reset, got %q", c.input.Value())
	}
	if c.View(CleanCyberTheme) == "" {
		t.Error("Expected command line view")
	}
}

func TestCommandModeExecutesAndRecordsHistory(t *testing.T) {
	c := NewCommandMode()
	c.Show()
	c.input.SetValue("next")

	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if c.IsActive() {
		t.Error("Expected command mode closed after enter")
	}
	if cmd == nil {
		t.Fatal("Expected command")
	}
	if msg, ok := cmd().(commands.PageMsg); !ok || msg.Delta != 1 {
		t.Errorf("Expected PageMsg{Delta: 1}, got %#v", cmd())
	}

	c.Show()
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c.input.Value() != "next" {
		t.Errorf("Expected history recall, got %q", c.input.Value())
	}
}

func TestCommandModeErrorClearsOnKey(t *testing.T) {
	c := NewCommandMode()
	if cmd := c.SetError("Unknown command: zz"); cmd == nil {
		t.Error("Expected clear timer")
	}
	if !c.IsActive() {
		t.Fatal("Expected error to keep command mode visible")
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if c.IsActive() {
		t.Error("Expected any key to dismiss the error")
	}
}

func TestEscapeCancels(t *testing.T) {
	c := NewCommandMode()
	c.Show()
	c.input.SetValue("quit")
	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if c.IsActive() || cmd != nil {
		t.Error("Expected escape to cancel without running a command")
	}
}
