// Package extract selects layers by datasource predicate and reassembles a
// minimal consistent project document around the selection.
//
// Two policies are deliberate compatibility choices, not bugs: sibling
// groups sharing a name are merged into one group during reassembly, and
// when several candidate documents are scanned the first one with any match
// wins; later candidates are never merged in.
package extract

import (
	"strings"

	"github.com/mvrdal/qproj/internal/model"
)

// Predicate decides whether a layer's datasource string matches.
type Predicate func(datasource string) bool

// Contains returns the usual substring predicate built from a user pattern.
func Contains(pattern string) Predicate {
	return func(datasource string) bool {
		return strings.Contains(datasource, pattern)
	}
}

// Select scans the flat layer list once, in document order, and returns the
// identifiers of matching layers in encounter order. A duplicate identifier
// is only ever matched once.
func Select(layers []model.MapLayer, pred Predicate) []string {
	seen := make(map[string]bool, len(layers))
	var matched []string
	for _, l := range layers {
		if l.ID == "" || seen[l.ID] {
			continue
		}
		if pred(l.Datasource) {
			seen[l.ID] = true
			matched = append(matched, l.ID)
		}
	}
	return matched
}
