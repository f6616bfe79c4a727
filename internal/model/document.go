// Package model holds the typed view of a QGIS project document: the flat
// layer list, the display-group tree, the legend tree, and the draw order.
// Every node keeps a reference to its raw element so that subtrees the model
// does not describe (renderers, styles, custom properties) survive a rebuild
// untouched.
package model

import (
	"fmt"

	"github.com/mvrdal/qproj/internal/xmltree"
)

// ProjectDocument is the root container for one parsed project file.
type ProjectDocument struct {
	// Root is the original document root; opaque sections such as
	// properties, relations and mapcanvas are copied from here verbatim.
	Root *xmltree.Element

	// Encoding is the label declared by the source document, carried into
	// the serialized output.
	Encoding string

	Layers    []MapLayer
	LayerTree *GroupNode // display hierarchy; nil when the document has none
	Legend    *GroupNode // legend hierarchy; nil when the document has none
	DrawOrder []string
}

// MapLayer is one entry of the flat layer list. It is never mutated, only
// selected or copied.
type MapLayer struct {
	ID         string
	Name       string
	Datasource string
	Elem       *xmltree.Element
}

// GroupNode is a named node in the display-group or legend hierarchy. Both
// hierarchies share this shape so the indexer and the reassembler can treat
// them identically; only the element vocabulary differs.
type GroupNode struct {
	Name     string
	Layers   []LayerRef
	Children []*GroupNode
	Elem     *xmltree.Element
}

// LayerRef is a direct layer reference inside a group: a layer-tree-layer
// element in the display tree, or a legendlayer element in the legend.
type LayerRef struct {
	ID   string
	Name string
	Elem *xmltree.Element
}

// Decode builds the typed model from a parsed document root. Sections the
// model does not cover stay reachable through Root.
func Decode(root *xmltree.Element, encoding string) (*ProjectDocument, error) {
	if root == nil {
		return nil, fmt.Errorf("nil document root")
	}
	doc := &ProjectDocument{Root: root, Encoding: encoding}

	if pl := root.Find("projectlayers"); pl != nil {
		for _, ml := range pl.FindAll("maplayer") {
			id := ml.FindText("id")
			if id == "" {
				// Older documents keep the id as an attribute.
				id = ml.Attr("id")
			}
			doc.Layers = append(doc.Layers, MapLayer{
				ID:         id,
				Name:       ml.FindText("layername"),
				Datasource: ml.FindText("datasource"),
				Elem:       ml,
			})
		}
	}

	if tg := root.Find("layer-tree-group"); tg != nil {
		doc.LayerTree = decodeGroup(tg)
	}
	if lg := root.Find("legend"); lg != nil {
		doc.Legend = decodeLegend(lg)
	}
	if lo := root.Find("layerorder"); lo != nil {
		for _, l := range lo.FindAll("layer") {
			doc.DrawOrder = append(doc.DrawOrder, l.Attr("id"))
		}
	}
	return doc, nil
}

func decodeGroup(e *xmltree.Element) *GroupNode {
	g := &GroupNode{Name: e.Attr("name"), Elem: e}
	for _, c := range e.Children {
		switch c.Tag {
		case "layer-tree-layer":
			g.Layers = append(g.Layers, LayerRef{ID: c.Attr("id"), Name: c.Attr("name"), Elem: c})
		case "layer-tree-group":
			g.Children = append(g.Children, decodeGroup(c))
		}
	}
	return g
}

func decodeLegend(e *xmltree.Element) *GroupNode {
	g := &GroupNode{Name: e.Attr("name"), Elem: e}
	for _, c := range e.Children {
		switch c.Tag {
		case "legendlayer":
			g.Layers = append(g.Layers, LayerRef{ID: legendLayerID(c), Name: c.Attr("name"), Elem: c})
		case "legendgroup":
			g.Children = append(g.Children, decodeLegend(c))
		}
	}
	return g
}

// legendLayerID digs the layer identifier out of a legendlayer entry:
// legendlayer > filegroup > legendlayerfile[layerid].
func legendLayerID(e *xmltree.Element) string {
	fg := e.Find("filegroup")
	if fg == nil {
		return ""
	}
	f := fg.Find("legendlayerfile")
	if f == nil {
		return ""
	}
	return f.Attr("layerid")
}

// Verify checks the consistency contract between the layer-indexed sections:
// every flat-list identifier appears in the draw order exactly once, the
// draw order holds nothing else, and no identifier sits under two different
// groups. It reports the first offending identifier.
func (d *ProjectDocument) Verify() error {
	flat := make(map[string]int, len(d.Layers))
	for _, l := range d.Layers {
		flat[l.ID]++
	}
	order := make(map[string]int, len(d.DrawOrder))
	for _, id := range d.DrawOrder {
		order[id]++
		if order[id] > 1 {
			return fmt.Errorf("layer %s appears twice in the draw order", id)
		}
	}
	for id := range flat {
		if order[id] == 0 {
			return fmt.Errorf("layer %s missing from the draw order", id)
		}
	}
	for id := range order {
		if flat[id] == 0 {
			return fmt.Errorf("draw order references unknown layer %s", id)
		}
	}

	seen := make(map[string]bool)
	var walk func(g *GroupNode) error
	walk = func(g *GroupNode) error {
		for _, l := range g.Layers {
			if seen[l.ID] {
				return fmt.Errorf("layer %s attached to more than one group", l.ID)
			}
			seen[l.ID] = true
			if order[l.ID] == 0 {
				return fmt.Errorf("group tree references unknown layer %s", l.ID)
			}
		}
		for _, c := range g.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if d.LayerTree != nil {
		return walk(d.LayerTree)
	}
	return nil
}
