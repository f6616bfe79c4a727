package extract

import (
	"fmt"
	"io"

	"github.com/mvrdal/qproj/internal/index"
	"github.com/mvrdal/qproj/internal/qgs"
)

// Result reports a successful extraction: which candidate document was
// used and the final identifier order of the extracted layers.
type Result struct {
	SourcePath string
	OutputPath string
	LayerIDs   []string
}

// Run walks the candidate documents in order and extracts from the first
// one in which the predicate matches any layer; later candidates are
// ignored. A candidate that fails to parse or to reassemble is reported on
// warnings and skipped. When no candidate matches, ErrNoMatch is returned
// and no output file is written.
func Run(candidates []string, pred Predicate, output string, warnings io.Writer) (*Result, error) {
	if warnings == nil {
		warnings = io.Discard
	}

	for _, path := range candidates {
		doc, err := qgs.Load(path)
		if err != nil {
			fmt.Fprintf(warnings, "warning: %v\n", err)
			continue
		}

		matched := Select(doc.Layers, pred)
		if len(matched) == 0 {
			continue
		}

		idx := index.Build(doc.LayerTree)
		out, err := Rebuild(doc, matched, idx)
		if err != nil {
			fmt.Fprintf(warnings, "warning: %s: %v\n", path, err)
			continue
		}

		if err := qgs.Save(out, output); err != nil {
			return nil, err
		}
		return &Result{SourcePath: path, OutputPath: output, LayerIDs: matched}, nil
	}

	return nil, fmt.Errorf("%w: no layers matched in any candidate document", ErrNoMatch)
}
