package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mvrdal/qproj/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pattern>",
	Short: "Extract layers matching a datasource pattern into a new project",
	Long: `Scans the candidate project files in order and extracts every layer whose
datasource contains the pattern into a new, minimal project file. The first
candidate with any match is used; later candidates are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")

		candidates, err := resolveCandidates(cmd)
		if err != nil {
			return err
		}

		if !force {
			if _, err := os.Stat(output); err == nil {
				var overwrite bool
				err := huh.NewConfirm().
					Title(fmt.Sprintf("%s already exists. Overwrite?", output)).
					Value(&overwrite).
					Run()
				if err != nil || !overwrite {
					return fmt.Errorf("aborted: %s not overwritten", output)
				}
			}
		}

		res, err := extract.Run(candidates, extract.Contains(args[0]), output, os.Stderr)
		if err != nil {
			return err
		}

		fmt.Printf("Extracted %d layers from %s to %s\n", len(res.LayerIDs), res.SourcePath, res.OutputPath)
		if verbose {
			fmt.Printf("Layer order: %s\n", strings.Join(res.LayerIDs, ", "))
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "output project file (required)")
	extractCmd.Flags().StringSlice("files", nil, "candidate project files, in scan order")
	extractCmd.Flags().StringP("dir", "d", "./data", "directory to scan for candidate .qgs files")
	extractCmd.Flags().Bool("force", false, "overwrite an existing output file without asking")
	extractCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(extractCmd)
}
