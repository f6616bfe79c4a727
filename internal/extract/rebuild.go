package extract

import (
	"fmt"

	"github.com/mvrdal/qproj/internal/index"
	"github.com/mvrdal/qproj/internal/model"
	"github.com/mvrdal/qproj/internal/xmltree"
)

// Rebuild produces a new project document containing only the matched
// layers, in the order given (the selector's flat-list order). Document
// sections the engine does not model are copied verbatim from the source;
// the group and legend hierarchies are rebuilt minimal, merging groups by
// name at every level.
func Rebuild(src *model.ProjectDocument, matched []string, groupIdx *index.Index) (*model.ProjectDocument, error) {
	root := xmltree.New("qgis")
	root.Attrs = append(root.Attrs, src.Root.Attrs...)

	// Opaque sections pass through unchanged.
	for _, tag := range []string{"properties", "relations", "mapcanvas"} {
		if e := src.Root.Find(tag); e != nil {
			root.Append(e.Copy())
		}
	}

	byID := make(map[string]model.MapLayer, len(src.Layers))
	for _, l := range src.Layers {
		byID[l.ID] = l
	}

	// Flat layer list first; it fixes the canonical order for everything
	// that follows.
	projectLayers := xmltree.New("projectlayers")
	for _, id := range matched {
		l, ok := byID[id]
		if !ok || l.Elem == nil {
			return nil, fmt.Errorf("%w: layer %s: no raw subtree in source document", ErrReassembly, id)
		}
		projectLayers.Append(l.Elem.Copy())
	}
	root.Append(projectLayers)

	layerOrder := xmltree.New("layerorder")
	for _, id := range matched {
		layerOrder.Append(xmltree.New("layer", xmltree.Attr{Name: "id", Value: id}))
	}
	root.Append(layerOrder)

	treeRoot := xmltree.New("layer-tree-group")
	if src.LayerTree != nil && src.LayerTree.Elem != nil {
		treeRoot.Attrs = append(treeRoot.Attrs, src.LayerTree.Elem.Attrs...)
	}
	groupTree := newTreeBuilder(treeRoot, "layer-tree-group")
	for _, id := range matched {
		path, ok := groupIdx.LayerPaths[id]
		if !ok {
			continue // ungrouped: absent from the rebuilt tree entirely
		}
		ref, ok := findRef(groupIdx, path, id)
		if !ok {
			continue
		}
		leaf := groupTree.ensurePath(path, groupIdx)
		leaf.Append(ref.Elem.Copy())
	}
	root.Append(treeRoot)

	legendIdx := index.Build(src.Legend)
	legendRoot := xmltree.New("legend")
	if src.Legend != nil && src.Legend.Elem != nil {
		legendRoot.Attrs = append(legendRoot.Attrs, src.Legend.Elem.Attrs...)
	} else {
		legendRoot.SetAttr("updateDrawingOrder", "true")
	}
	legendTree := newTreeBuilder(legendRoot, "legendgroup")
	for _, id := range matched {
		path, ok := legendIdx.LayerPaths[id]
		if !ok {
			continue // no legend entry: omitted, non-fatal
		}
		ref, ok := findRef(legendIdx, path, id)
		if !ok {
			continue
		}
		leaf := legendTree.ensurePath(path, legendIdx)
		leaf.Append(ref.Elem.Copy())
	}
	root.Append(legendRoot)

	out, err := model.Decode(root, src.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReassembly, err)
	}
	if err := out.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReassembly, err)
	}
	return out, nil
}

// treeBuilder performs the name-keyed create-or-reuse walk for one
// hierarchy being assembled. The name index is scoped per parent element,
// so the merge policy applies independently at every depth.
type treeBuilder struct {
	groupTag string
	root     *xmltree.Element
	children map[*xmltree.Element]map[string]*xmltree.Element
}

func newTreeBuilder(root *xmltree.Element, groupTag string) *treeBuilder {
	return &treeBuilder{
		groupTag: groupTag,
		root:     root,
		children: make(map[*xmltree.Element]map[string]*xmltree.Element),
	}
}

// ensurePath walks the group path from the root, reusing an existing child
// of the same name at each level or creating one with the original group's
// attributes, and returns the leaf element reached. The empty path returns
// the root itself.
func (b *treeBuilder) ensurePath(path string, idx *index.Index) *xmltree.Element {
	cur := b.root
	segments := index.Split(path)
	prefix := ""
	for _, name := range segments {
		if prefix == "" {
			prefix = name
		} else {
			prefix = prefix + index.Separator + name
		}

		level := b.children[cur]
		if level == nil {
			level = make(map[string]*xmltree.Element)
			b.children[cur] = level
		}
		next := level[name]
		if next == nil {
			next = xmltree.New(b.groupTag)
			if info := idx.Paths[prefix]; info != nil && info.Node != nil && info.Node.Elem != nil {
				next.Attrs = append(next.Attrs, info.Node.Elem.Attrs...)
			}
			next.SetAttr("name", originalName(name))
			cur.Append(next)
			level[name] = next
		}
		cur = next
	}
	return cur
}

// originalName maps the indexer's placeholder back to an empty attribute.
func originalName(segment string) string {
	if segment == index.UnnamedGroup {
		return ""
	}
	return segment
}

func findRef(idx *index.Index, path, id string) (model.LayerRef, bool) {
	info := idx.Paths[path]
	if info == nil {
		return model.LayerRef{}, false
	}
	for _, ref := range info.Layers {
		if ref.ID == id && ref.Elem != nil {
			return ref, true
		}
	}
	return model.LayerRef{}, false
}
