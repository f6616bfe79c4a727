package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvrdal/qproj/internal/index"
	"github.com/mvrdal/qproj/internal/qgs"
	"github.com/mvrdal/qproj/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <project>",
	Short: "Generate layer documentation for a project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		csvPath, _ := cmd.Flags().GetString("csv")
		title, _ := cmd.Flags().GetString("title")
		noLegends, _ := cmd.Flags().GetBool("no-legends")
		force, _ := cmd.Flags().GetBool("force")

		doc, err := qgs.Load(args[0])
		if err != nil {
			return err
		}
		idx := index.Build(doc.LayerTree)
		layers := report.Collect(doc, idx)

		if title == "" {
			base := filepath.Base(args[0])
			title = strings.TrimSuffix(base, filepath.Ext(base))
		}

		legend := legendOptions(cmd, noLegends)
		meta, body := report.Generate(title, layers, idx, legend)

		if csvPath != "" {
			out, err := report.CSV(layers)
			if err != nil {
				return err
			}
			if err := os.WriteFile(csvPath, []byte(out), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", csvPath, err)
			}
			fmt.Printf("CSV data written to %s\n", csvPath)
		}

		if output == "" {
			rendered, err := report.RenderTerminal(body)
			if err != nil {
				return err
			}
			fmt.Print(rendered)
			return nil
		}

		if !force {
			if err := refuseForeignFile(output); err != nil {
				return err
			}
		}
		data, err := report.Marshal(meta, body)
		if err != nil {
			return err
		}
		if dir := filepath.Dir(output); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("Documentation written to %s\n", output)
		return nil
	},
}

// legendOptions merges config defaults with command-line overrides.
func legendOptions(cmd *cobra.Command, noLegends bool) report.LegendOptions {
	opts := report.LegendOptions{Enabled: !noLegends}
	if cfg != nil && cfg.Legend != nil {
		opts.BaseURL = cfg.Legend.BaseURL
		opts.MapFile = cfg.Legend.MapFile
	}
	if v, _ := cmd.Flags().GetString("legend-base-url"); v != "" {
		opts.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("legend-map-file"); v != "" {
		opts.MapFile = v
	}
	return opts
}

// refuseForeignFile blocks overwriting a report file this tool did not
// generate. Absent files and generated reports pass.
func refuseForeignFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	defer f.Close()

	meta, _, err := report.ParseMeta(f)
	if err != nil || meta.GeneratedBy != report.GeneratedBy {
		return fmt.Errorf("%s exists and was not generated by this tool; use --force to overwrite", path)
	}
	return nil
}

func init() {
	reportCmd.Flags().StringP("output", "o", "", "output markdown file (default: render to terminal)")
	reportCmd.Flags().String("csv", "", "also write the layer table as CSV to this path")
	reportCmd.Flags().String("title", "", "report title (default: project file name)")
	reportCmd.Flags().Bool("no-legends", false, "omit legend links")
	reportCmd.Flags().String("legend-base-url", "", "base URL of the WMS legend service")
	reportCmd.Flags().String("legend-map-file", "", "map file path on the legend server")
	reportCmd.Flags().Bool("force", false, "overwrite the output file even if it was not generated by this tool")
	rootCmd.AddCommand(reportCmd)
}
