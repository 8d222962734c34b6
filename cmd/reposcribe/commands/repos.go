package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/spf13/cobra"
)

const descriptionWidth = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = cellStyle.Foreground(lipgloss.Color("241"))
)

// NewReposCommand creates the repos command
func NewReposCommand() *cobra.Command {
	var query, sortBy string
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List your repositories",
		Long: `Lists the repositories you own, without forks. --query keeps repositories whose
name or description contains the text; --sort orders by updated, stars or name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}

			list, err := a.Directory.List(cmd.Context())
			if err != nil {
				return err
			}
			view := repositories.View(list, query, repositories.ParseSortKey(sortBy))
			if len(view) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No repositories found")
				return nil
			}
			renderRepositories(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name or description")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", string(repositories.SortUpdated), "Sort by updated, stars or name")
	return cmd
}

func renderRepositories(w io.Writer, list []repositories.Repository) {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		updated := ""
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{
			r.FullName,
			r.Visibility(),
			r.LanguageText(),
			strconv.Itoa(r.StarCount),
			updated,
			truncate(r.DescriptionText(), descriptionWidth),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers("REPOSITORY", "VISIBILITY", "LANGUAGE", "STARS", "UPDATED", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 5:
				return mutedStyle
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, t.Render())
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
