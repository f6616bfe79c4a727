package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvrdal/qproj/internal/qgs"
	"github.com/mvrdal/qproj/internal/scrub"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [files...]",
	Short: "Remove datasource passwords from project files before committing",
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			dir, _ := cmd.Flags().GetString("dir")
			var err error
			files, err = findProjectFiles(dir)
			if err != nil {
				return err
			}
		}

		cleaned := 0
		for _, path := range files {
			doc, err := qgs.Load(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				continue
			}
			n := scrub.RemovePasswords(doc.Root)
			if n == 0 {
				continue
			}
			if err := qgs.Save(doc, path); err != nil {
				return err
			}
			cleaned++
			if verbose {
				fmt.Printf("Removed %d passwords from %s\n", n, path)
			}
		}

		fmt.Printf("Cleaned %d of %d files\n", cleaned, len(files))
		return nil
	},
}

// findProjectFiles walks dir recursively for .qgs files.
func findProjectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".qgs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return files, nil
}

func init() {
	cleanCmd.Flags().StringP("dir", "d", "./data", "directory to scan recursively for .qgs files")
	rootCmd.AddCommand(cleanCmd)
}
