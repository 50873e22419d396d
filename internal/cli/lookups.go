package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nickpending/donations/internal/api"
)

func newLookupsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "lookups {statuses|locations|themes}",
		Short:     "Show a lookup table used by the create form",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"statuses", "locations", "themes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, closeLog, err := setup(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			ctx, cancel := commandContext(cmd, cfg)
			defer cancel()

			var rows [][]string
			var data any
			switch args[0] {
			case "statuses":
				statuses, err := store.Statuses.Mount(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				data = statuses
				rows = pairs(statuses, func(s api.Status) (string, string) { return s.ID, s.Name })
			case "locations":
				locations, err := store.Locations.Mount(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				data = locations
				rows = pairs(locations, func(l api.Location) (string, string) { return l.ID, l.Name })
			case "themes":
				themes, err := store.Themes.Mount(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				data = themes
				rows = pairs(themes, func(t api.Theme) (string, string) { return t.ID, t.Name })
			}

			if asJSON {
				return writeJSON(cmd, data, nil)
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s.\n", args[0])
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func pairs[T any](list []T, fields func(T) (string, string)) [][]string {
	rows := make([][]string, 0, len(list))
	for _, v := range list {
		id, name := fields(v)
		rows = append(rows, []string{id, name})
	}
	return rows
}
