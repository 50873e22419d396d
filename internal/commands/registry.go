package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CommandFunc is a function that executes a command
type CommandFunc func(args []string) tea.Cmd

// Registry holds all available commands
type Registry struct {
	commands map[string]CommandFunc
}

// NewRegistry creates a new command registry with built-in commands
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]CommandFunc),
	}

	// Register built-in commands (vim-style: full names only, completion handles prefixes)
	r.Register("quit", cmdQuit)
	r.Register("refresh", cmdRefresh)
	r.Register("help", cmdHelp)

	// Item commands
	r.Register("new", cmdNew)
	r.Register("reset", cmdReset)
	r.Register("reset!", cmdResetForce)
	r.Register("yank", cmdYank)

	// View state
	r.Register("filter", cmdFilter)
	r.Register("page", cmdPage)
	r.Register("next", cmdNext)
	r.Register("prev", cmdPrev)
	r.Register("view", cmdView)

	// Theme switching
	r.Register("theme", cmdTheme)

	return r
}

// Register adds a command to the registry
func (r *Registry) Register(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Execute runs a command by name with arguments
func (r *Registry) Execute(name string, args []string) tea.Cmd {
	// First try exact match
	if fn, ok := r.commands[name]; ok {
		return fn(args)
	}

	// Then try prefix matching (vim-style)
	var matches []string
	var matchedFn CommandFunc
	lowerName := strings.ToLower(name)

	for cmdName, fn := range r.commands {
		if strings.HasPrefix(strings.ToLower(cmdName), lowerName) {
			matches = append(matches, cmdName)
			matchedFn = fn
		}
	}

	// If exactly one match, execute it
	if len(matches) == 1 {
		return matchedFn(args)
	}

	// If multiple matches, show ambiguous command error
	if len(matches) > 1 {
		sort.Strings(matches)
		return showError(fmt.Sprintf("Ambiguous command '%s': %s", name, strings.Join(matches, ", ")))
	}

	// No matches
	return showError(fmt.Sprintf("Unknown command: %s", name))
}

// GetCommands returns all registered command names, sorted
func (r *Registry) GetCommands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Built-in command implementations

// cmdQuit exits the application
func cmdQuit(args []string) tea.Cmd {
	return tea.Quit
}

// cmdRefresh refetches the item list
func cmdRefresh(args []string) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// cmdHelp shows available commands
func cmdHelp(args []string) tea.Cmd {
	return func() tea.Msg {
		return HelpMsg{}
	}
}

// cmdNew opens the create-item form
func cmdNew(args []string) tea.Cmd {
	return func() tea.Msg {
		return NewItemMsg{}
	}
}

// cmdReset restores the seed data after confirmation
func cmdReset(args []string) tea.Cmd {
	return func() tea.Msg {
		return ResetMsg{Force: false}
	}
}

// cmdResetForce restores the seed data without confirmation
func cmdResetForce(args []string) tea.Cmd {
	return func() tea.Msg {
		return ResetMsg{Force: true}
	}
}

// cmdYank copies the selected item id to the clipboard
func cmdYank(args []string) tea.Cmd {
	return func() tea.Msg {
		return YankMsg{}
	}
}

// cmdFilter sets the status filter. Multi-word status names are joined.
func cmdFilter(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Message: "filter: status required (use 'all' to clear)"}
		}
		return FilterMsg{Status: strings.Join(args, " ")}
	}
}

// cmdPage jumps to a page number
func cmdPage(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Message: "page: page number required"}
		}
		page, err := strconv.Atoi(args[0])
		if err != nil || page < 1 {
			return ErrorMsg{Message: fmt.Sprintf("page: invalid page number '%s'", args[0])}
		}
		return PageMsg{Page: page}
	}
}

// cmdNext moves to the next page
func cmdNext(args []string) tea.Cmd {
	return func() tea.Msg {
		return PageMsg{Delta: 1}
	}
}

// cmdPrev moves to the previous page
func cmdPrev(args []string) tea.Cmd {
	return func() tea.Msg {
		return PageMsg{Delta: -1}
	}
}

// cmdView switches between table and card layout
func cmdView(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ViewMsg{Toggle: true}
		}
		switch args[0] {
		case "table", "card", "cards", "grid":
			return ViewMsg{Mode: args[0]}
		default:
			return ErrorMsg{Message: fmt.Sprintf("view: unknown mode '%s' (available: table, card)", args[0])}
		}
	}
}

// cmdTheme cycles through available themes
func cmdTheme(args []string) tea.Cmd {
	return func() tea.Msg {
		return ThemeMsg{}
	}
}

// showError returns a command that shows an error message
func showError(msg string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Message: msg}
	}
}

// Message types for commands

// RefreshMsg signals that the item list should be refetched
type RefreshMsg struct{}

// ErrorMsg contains an error message to display
type ErrorMsg struct {
	Message string
}

// HelpMsg signals to show the help modal
type HelpMsg struct{}

// NewItemMsg signals to open the create-item form
type NewItemMsg struct{}

// ResetMsg signals to reset the service data
type ResetMsg struct {
	Force bool // If true, skip confirmation
}

// YankMsg signals to copy the selected item id
type YankMsg struct{}

// FilterMsg sets the status filter
type FilterMsg struct {
	Status string // Status name or "all"
}

// PageMsg changes the current page. Page wins over Delta when set.
type PageMsg struct {
	Page  int
	Delta int
}

// ViewMsg changes the layout
type ViewMsg struct {
	Mode   string
	Toggle bool
}

// ThemeMsg signals to cycle to the next theme
type ThemeMsg struct{}
