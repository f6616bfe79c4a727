package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvrdal/qproj/internal/index"
	"github.com/mvrdal/qproj/internal/qgs"
)

var treeCmd = &cobra.Command{
	Use:   "tree <project>",
	Short: "Show the layer group hierarchy of a project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showLayers, _ := cmd.Flags().GetBool("layers")

		doc, err := qgs.Load(args[0])
		if err != nil {
			return err
		}
		idx := index.Build(doc.LayerTree)
		fmt.Print(idx.RenderASCII(showLayers))
		return nil
	},
}

func init() {
	treeCmd.Flags().Bool("layers", false, "show individual layers under each group")
	rootCmd.AddCommand(treeCmd)
}
