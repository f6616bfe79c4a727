package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvrdal/qproj/internal/qgs"
	"github.com/mvrdal/qproj/internal/xmltree"
)

var datasourcesCmd = &cobra.Command{
	Use:   "datasources [files...]",
	Short: "Extract all datasources to a datasources.txt beside each project file",
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates := args
		if len(candidates) == 0 {
			var err error
			candidates, err = resolveCandidates(cmd)
			if err != nil {
				return err
			}
		}

		for _, path := range candidates {
			doc, err := qgs.Load(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				continue
			}

			sources := collectDatasources(doc.Root)
			outPath := filepath.Join(filepath.Dir(path), "datasources.txt")
			content := strings.Join(sources, "\n")
			if content != "" {
				content += "\n"
			}
			if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Printf("Extracted %d datasources to %s\n", len(sources), outPath)
		}
		return nil
	},
}

// collectDatasources gathers the text of every datasource element in the
// document, wherever it appears, in document order.
func collectDatasources(root *xmltree.Element) []string {
	var out []string
	var walk func(e *xmltree.Element)
	walk = func(e *xmltree.Element) {
		if e.Tag == "datasource" {
			if text := strings.TrimSpace(e.Text); text != "" {
				out = append(out, text)
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

func init() {
	datasourcesCmd.Flags().StringSlice("files", nil, "project files to process")
	datasourcesCmd.Flags().StringP("dir", "d", "./data", "directory to scan for .qgs files")
	rootCmd.AddCommand(datasourcesCmd)
}
