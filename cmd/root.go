package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/spf13/cobra"

	"github.com/mvrdal/qproj/internal/config"
)

var (
	version = "dev"
	cfgPath string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "qproj",
	Short:   "Toolkit for QGIS project files: extract, document, clean",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "qproj.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"extract": {
				Examples: []mtp.Example{
					{Description: "Extract postgres layers into a new project", Command: "qproj extract host=db.example.com --output out/topo_db.qgs"},
					{Description: "Extract from specific candidate files", Command: "qproj extract .fgb --files data/Topo_2025.qgs data/earth.qgs --output out/fgb.qgs"},
				},
			},
			"report": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Layer documentation rendered to the terminal when no --output is given",
				},
				Examples: []mtp.Example{
					{Description: "Write markdown documentation for a project", Command: "qproj report data/Topo_2025.qgs --output docs/topo.md"},
					{Description: "Export the layer table as CSV", Command: "qproj report data/Topo_2025.qgs --csv docs/topo.csv"},
				},
			},
			"tree": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "ASCII tree of the project's layer groups",
				},
				Examples: []mtp.Example{
					{Description: "Show the group hierarchy", Command: "qproj tree data/Topo_2025.qgs"},
				},
			},
			"layers": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of layers with group path, provider and scale visibility",
				},
				Examples: []mtp.Example{
					{Description: "Preview which layers a pattern would extract", Command: "qproj layers data/Topo_2025.qgs --match host=db.example.com"},
				},
			},
			"clean": {
				Examples: []mtp.Example{
					{Description: "Strip passwords from every project under ./data", Command: "qproj clean --dir ./data"},
				},
			},
		},
	}
	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	return rootCmd.Execute()
}

// resolveCandidates returns the candidate project files for multi-document
// commands: explicit --files, else the configured project list, else every
// .qgs file directly under --dir.
func resolveCandidates(cmd *cobra.Command) ([]string, error) {
	files, _ := cmd.Flags().GetStringSlice("files")
	if len(files) > 0 {
		return files, nil
	}
	if cfg != nil && len(cfg.Projects) > 0 {
		return cfg.Projects, nil
	}
	dir, _ := cmd.Flags().GetString("dir")
	matches, err := filepath.Glob(filepath.Join(dir, "*.qgs"))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", dir, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no project files found in %s", dir)
	}
	return matches, nil
}
