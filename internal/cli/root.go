// Package cli wires the cobra command tree: the TUI by default, plus scriptable
// list, lookup, create and reset commands against the same service.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/config"
	"github.com/nickpending/donations/internal/query"
	"github.com/nickpending/donations/internal/service"
	"github.com/nickpending/donations/internal/ui"
)

// App holds the persistent flag values shared by every command
type App struct {
	ConfigPath string
	APIURL     string
	LogFile    string
	Debug      bool

	// runProgram starts the TUI; tests swap it out
	runProgram func(m tea.Model) error
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{runProgram: runProgram})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "donations",
		Short:         "Browse and manage donation items",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  donations

  # Scriptable commands
  donations list --status Active --page 2
  donations create --name "School Books" --location Kenya --theme Education --price 25
  donations lookups themes --json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("DONATIONS_CONFIG", ""), "Path to config.toml (default: $XDG_CONFIG_HOME/donations/config.toml)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Donation items service URL (overrides config and "+config.EnvAPIURL+")")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write logs to this file")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newLookupsCmd(app))

	return cmd
}

func runProgram(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return writeErr(cmd, err)
	}

	logger, closeLog, err := setupLogger(app, cfg, true, cmd.ErrOrStderr())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	store, err := newStore(cfg, logger)
	if err != nil {
		return writeErr(cmd, err)
	}

	applyColorProfile(true)
	logger.Info("starting tui", "api", cfg.API.BaseURL)
	return app.runProgram(ui.NewModel(store, cfg))
}

// loadConfig reads config.toml and applies the --api-url override
func loadConfig(app *App) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if app.ConfigPath != "" {
		cfg, err = config.LoadFrom(app.ConfigPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if app.APIURL != "" {
		cfg.API.BaseURL = app.APIURL
	}
	if app.LogFile != "" {
		cfg.Log.Path = app.LogFile
	}
	return cfg, nil
}

// setupLogger returns the logger for this run. The TUI owns the terminal, so
// it always logs to a file; other commands log warnings to stderr unless a
// log file is configured.
func setupLogger(app *App, cfg *config.Config, tui bool, stderr io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	if app.Debug {
		level = slog.LevelDebug
	}

	path := cfg.Log.Path
	if path == "" && tui {
		var err error
		if path, err = config.DefaultLogPath(); err != nil {
			return nil, nil, err
		}
	}

	if path == "" {
		if !app.Debug {
			level = slog.LevelWarn
		}
		handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
		return slog.New(handler), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(handler), func() { _ = f.Close() }, nil
}

// newStore builds the API client and query store from cfg
func newStore(cfg *config.Config, logger *slog.Logger) (*service.Store, error) {
	// Bounds each request even when a shared fetch outlives its caller's context
	httpClient := &http.Client{Timeout: cfg.RequestTimeout()}
	client, err := api.NewClientFromConfig(cfg, api.WithLogger(logger), api.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return service.NewStore(client, query.Options{
		StaleTime:  cfg.StaleTime(),
		Retry:      cfg.Query.Retry,
		RetryDelay: cfg.RetryDelay(),
		Logger:     logger,
	}), nil
}

// setup loads config, logger and store for a non-interactive command
func setup(cmd *cobra.Command, app *App) (*config.Config, *service.Store, func(), error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closeLog, err := setupLogger(app, cfg, false, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := newStore(cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	applyColorProfile(false)
	return cfg, store, closeLog, nil
}

// applyColorProfile sets the lipgloss color profile. Command output honors
// CLICOLOR and CLICOLOR_FORCE; the TUI only honors NO_COLOR.
func applyColorProfile(tui bool) {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	if tui {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// commandContext bounds a command by the configured request timeout
func commandContext(cmd *cobra.Command, cfg *config.Config) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		// Each fetch may retry, so allow for every attempt
		return context.WithTimeout(ctx, timeout*4)
	}
	return context.WithCancel(ctx)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeJSON prints v as indented JSON wrapped in a {"data": ...} envelope
func writeJSON(cmd *cobra.Command, data any, meta map[string]any) error {
	envelope := map[string]any{"data": data}
	if meta != nil {
		envelope["meta"] = meta
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(envelope)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err.Error())
	return err
}
