package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/form"
	"github.com/nickpending/donations/internal/view"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newListCmd(app *App) *cobra.Command {
	var status string
	var page int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List donation items, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, closeLog, err := setup(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			ctx, cancel := commandContext(cmd, cfg)
			defer cancel()

			// Statuses resolve --status to the service's spelling
			if err := store.LoadAll(ctx); err != nil {
				return writeErr(cmd, err)
			}
			items := store.Items.Data()

			controller := view.NewController(cfg.TUI.PageSize)
			controller.SetStatusFilter(view.MatchStatus(status, statusNames(store.Statuses.Data(), items)))
			controller.SetCurrentPage(page)
			p := controller.Derive(items)

			if asJSON {
				return writeJSON(cmd, p.Items, map[string]any{
					"status":     controller.State().StatusFilter,
					"page":       p.CurrentPage,
					"totalPages": p.TotalPages,
					"total":      len(p.Filtered),
				})
			}

			out := cmd.OutOrStdout()
			if p.Empty {
				fmt.Fprintln(out, "No donation items. "+p.EmptyHint)
				return nil
			}
			fmt.Fprintln(out, itemsTable(p.Items))
			if p.ShowPagination {
				fmt.Fprintf(out, "Page %d of %d · %d items\n", p.CurrentPage, p.TotalPages, len(p.Filtered))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", view.FilterAll, "Only show items with this status name")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newCreateCmd(app *App) *cobra.Command {
	var data form.Data
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a donation item",
		Long: strings.TrimSpace(`
Create a donation item. --location and --theme accept an id or a display name.
The name must be unique among existing items, ignoring case.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, closeLog, err := setup(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			ctx, cancel := commandContext(cmd, cfg)
			defer cancel()

			// Names are needed for the uniqueness check, lookups for id resolution
			if err := store.LoadAll(ctx); err != nil {
				return writeErr(cmd, err)
			}

			data.LocationID = resolveID(data.LocationID, store.Locations.Data(), func(l api.Location) (string, string) { return l.ID, l.Name })
			data.ThemeID = resolveID(data.ThemeID, store.Themes.Data(), func(t api.Theme) (string, string) { return t.ID, t.Name })

			request, err := form.BuildRequest(data, store.ExistingNames(), cfg.API.Currency)
			if err != nil {
				return writeErr(cmd, err)
			}

			item, err := store.CreateItem(ctx, request)
			if err != nil {
				return writeErr(cmd, err)
			}

			if asJSON {
				return writeJSON(cmd, item, nil)
			}
			if item == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %q\n", request.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s)\n", item.Name, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&data.Name, "name", "", "Item name (required, unique)")
	cmd.Flags().StringVar(&data.LocationID, "location", "", "Location id or name (required)")
	cmd.Flags().StringVar(&data.ThemeID, "theme", "", "Theme id or name (required)")
	cmd.Flags().StringVar(&data.Price, "price", "", "Price amount, greater than zero (optional)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the service's seed data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, fmt.Errorf("reset replaces all donation items; pass --yes to confirm"))
			}

			cfg, store, closeLog, err := setup(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			ctx, cancel := commandContext(cmd, cfg)
			defer cancel()

			if _, err := store.ResetData(ctx); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Donation data reset (%d items)\n", len(store.Items.Data()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the safety check")
	return cmd
}

// resolveID maps a display name to its id. Unknown values pass through so the
// server can reject them.
func resolveID[T any](value string, options []T, fields func(T) (id, name string)) string {
	value = strings.TrimSpace(value)
	for _, opt := range options {
		id, name := fields(opt)
		if strings.EqualFold(id, value) || strings.EqualFold(name, value) {
			return id
		}
	}
	return value
}

func itemsTable(items []api.DonationItem) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		price := "—"
		if item.Price != nil {
			price = item.Price.Text
			if price == "" {
				price = fmt.Sprintf("%.2f %s", item.Price.Amount, item.Price.CurrencyCode)
			}
		}
		rows = append(rows, []string{
			item.ID,
			item.Name,
			dash(item.Status.Name),
			price,
			dash(item.LocationName()),
			dash(item.ThemeName()),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "STATUS", "PRICE", "LOCATION", "THEME").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

// statusNames lists the lookup's status names, or the names seen on items
// when the lookup is unavailable
func statusNames(statuses []api.Status, items []api.DonationItem) []string {
	var names []string
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	if len(names) > 0 {
		return names
	}
	for _, item := range items {
		names = append(names, item.Status.Name)
	}
	return names
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
