package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mvrdal/qproj/internal/extract"
	"github.com/mvrdal/qproj/internal/index"
	"github.com/mvrdal/qproj/internal/qgs"
	"github.com/mvrdal/qproj/internal/report"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

var layersCmd = &cobra.Command{
	Use:   "layers <project>",
	Short: "List the layers of a project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		match, _ := cmd.Flags().GetString("match")

		doc, err := qgs.Load(args[0])
		if err != nil {
			return err
		}
		idx := index.Build(doc.LayerTree)
		layers := report.Collect(doc, idx)

		if match != "" {
			selected := make(map[string]bool)
			for _, id := range extract.Select(doc.Layers, extract.Contains(match)) {
				selected[id] = true
			}
			var filtered []report.LayerInfo
			for _, l := range layers {
				if selected[l.ID] {
					filtered = append(filtered, l)
				}
			}
			layers = filtered
		}

		if len(layers) == 0 {
			fmt.Println("No layers found.")
			return nil
		}

		rows := make([][]string, len(layers))
		for i, l := range layers {
			group := l.GroupPath
			if group == "" {
				group = "-"
			}
			rows[i] = []string{l.Name, group, report.Provider(l.Datasource), l.MinScale, l.MaxScale}
		}
		t := table.New().
			Headers("Name", "Group", "Provider", "Min Scale", "Max Scale").
			Rows(rows...).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerRowStyle
				}
				return cellStyle
			})
		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	layersCmd.Flags().String("match", "", "only show layers whose datasource contains this pattern")
	rootCmd.AddCommand(layersCmd)
}
