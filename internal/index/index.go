// Package index walks a group hierarchy once and produces the two mappings
// everything else consumes: group path -> direct members, and layer id ->
// owning group path. The walk never mutates the input tree, so the same
// index serves both the read-only reporting path and the extraction path.
package index

import (
	"strings"

	"github.com/mvrdal/qproj/internal/model"
)

// Separator joins group names into a path. The synthetic root contributes
// no segment, so top-level groups have single-segment paths.
const Separator = "/"

// UnnamedGroup stands in for a group without a name attribute.
const UnnamedGroup = "Unnamed Group"

// GroupInfo describes one logical group path: its display name, direct
// layer references, child group paths in document order, and the first
// original node encountered at this path (the attribute source when the
// group is recreated during reassembly).
type GroupInfo struct {
	Name       string
	Layers     []model.LayerRef
	ChildPaths []string
	Node       *model.GroupNode
}

// Index is the result of one traversal.
type Index struct {
	// Paths maps a group path to its members. The empty path addresses the
	// synthetic root; its ChildPaths are the top-level groups and its
	// Layers are the layers sitting directly under the root.
	Paths map[string]*GroupInfo

	// Order lists the non-root group paths in pre-order document order.
	Order []string

	// LayerPaths maps a layer id to its owning group path. A layer directly
	// under the root maps to the empty path; a layer absent from the tree
	// has no entry. When a layer id appears under several groups the last
	// one encountered wins.
	LayerPaths map[string]string
}

// Build indexes the hierarchy rooted at root. A nil root yields an empty
// index rather than an error, matching a document with no group tree.
func Build(root *model.GroupNode) *Index {
	idx := &Index{
		Paths:      make(map[string]*GroupInfo),
		LayerPaths: make(map[string]string),
	}
	if root == nil {
		idx.Paths[""] = &GroupInfo{}
		return idx
	}
	idx.walk(root, "", true)
	return idx
}

func (idx *Index) walk(g *model.GroupNode, parentPath string, isRoot bool) {
	path := parentPath
	if !isRoot {
		name := g.Name
		if name == "" {
			name = UnnamedGroup
		}
		if parentPath == "" {
			path = name
		} else {
			path = parentPath + Separator + name
		}
	}

	info := idx.Paths[path]
	if info == nil {
		info = &GroupInfo{Node: g}
		if !isRoot {
			info.Name = segmentName(path)
			idx.Order = append(idx.Order, path)
		}
		idx.Paths[path] = info
	}

	for _, l := range g.Layers {
		if l.ID == "" {
			continue
		}
		info.Layers = append(info.Layers, l)
		idx.LayerPaths[l.ID] = path
	}

	for _, child := range g.Children {
		name := child.Name
		if name == "" {
			name = UnnamedGroup
		}
		childPath := name
		if path != "" {
			childPath = path + Separator + name
		}
		if !containsPath(info.ChildPaths, childPath) {
			info.ChildPaths = append(info.ChildPaths, childPath)
		}
		idx.walk(child, path, false)
	}
}

func segmentName(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[i+1:]
	}
	return path
}

func containsPath(paths []string, p string) bool {
	for _, x := range paths {
		if x == p {
			return true
		}
	}
	return false
}

// Split breaks a group path into its name segments. The empty path has no
// segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}
