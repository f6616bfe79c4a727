package qgs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvrdal/qproj/internal/model"
	"github.com/mvrdal/qproj/internal/xmltree"
)

// Save serializes the document to path with an XML declaration carrying the
// source encoding. Intermediate directories are created as needed.
func Save(doc *model.ProjectDocument, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	defer f.Close()

	if err := xmltree.Encode(f, doc.Root, doc.Encoding); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}
