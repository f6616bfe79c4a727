package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvrdal/qproj/internal/xmltree"
)

const sampleProject = `<?xml version="1.0" encoding="UTF-8"?>
<qgis version="3.22" projectname="Topo">
  <properties><title>Topo</title></properties>
  <layer-tree-group>
    <layer-tree-group name="A">
      <layer-tree-group name="Land">
        <layer-tree-layer id="L1" name="Hav"/>
        <layer-tree-layer id="L2" name="Skog"/>
      </layer-tree-group>
    </layer-tree-group>
    <layer-tree-group name="B">
      <layer-tree-layer id="L3" name="Veg"/>
    </layer-tree-group>
  </layer-tree-group>
  <projectlayers>
    <maplayer>
      <id>L1</id>
      <layername>Hav</layername>
      <datasource>host=db dbname='topo' table="prod"."hav"</datasource>
    </maplayer>
    <maplayer>
      <id>L2</id>
      <layername>Skog</layername>
      <datasource>./skog.shp</datasource>
    </maplayer>
    <maplayer id="L3">
      <layername>Veg</layername>
      <datasource>host=db dbname='topo' table="prod"."veg"</datasource>
    </maplayer>
  </projectlayers>
  <layerorder>
    <layer id="L1"/>
    <layer id="L2"/>
    <layer id="L3"/>
  </layerorder>
  <legend updateDrawingOrder="true">
    <legendgroup name="A">
      <legendlayer name="Hav">
        <filegroup>
          <legendlayerfile layerid="L1"/>
        </filegroup>
      </legendlayer>
    </legendgroup>
    <legendlayer name="Veg">
      <filegroup>
        <legendlayerfile layerid="L3"/>
      </filegroup>
    </legendlayer>
  </legend>
</qgis>`

func decodeSample(t *testing.T) *ProjectDocument {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(sampleProject))
	require.NoError(t, err)
	doc, err := Decode(root, "UTF-8")
	require.NoError(t, err)
	return doc
}

func TestDecode_Layers(t *testing.T) {
	doc := decodeSample(t)
	require.Len(t, doc.Layers, 3)

	assert.Equal(t, "L1", doc.Layers[0].ID)
	assert.Equal(t, "Hav", doc.Layers[0].Name)
	assert.Contains(t, doc.Layers[0].Datasource, "table=\"prod\".\"hav\"")
	assert.NotNil(t, doc.Layers[0].Elem)

	// L3 keeps its id as an attribute only.
	assert.Equal(t, "L3", doc.Layers[2].ID)
}

func TestDecode_GroupTree(t *testing.T) {
	doc := decodeSample(t)
	require.NotNil(t, doc.LayerTree)

	root := doc.LayerTree
	assert.Equal(t, "", root.Name)
	require.Len(t, root.Children, 2)

	a := root.Children[0]
	assert.Equal(t, "A", a.Name)
	require.Len(t, a.Children, 1)
	land := a.Children[0]
	assert.Equal(t, "Land", land.Name)
	require.Len(t, land.Layers, 2)
	assert.Equal(t, "L1", land.Layers[0].ID)
	assert.Equal(t, "Skog", land.Layers[1].Name)

	b := root.Children[1]
	assert.Equal(t, "B", b.Name)
	require.Len(t, b.Layers, 1)
	assert.Equal(t, "L3", b.Layers[0].ID)
}

func TestDecode_Legend(t *testing.T) {
	doc := decodeSample(t)
	require.NotNil(t, doc.Legend)

	require.Len(t, doc.Legend.Children, 1)
	assert.Equal(t, "A", doc.Legend.Children[0].Name)
	require.Len(t, doc.Legend.Children[0].Layers, 1)
	assert.Equal(t, "L1", doc.Legend.Children[0].Layers[0].ID)

	// Legend entry directly under the legend root.
	require.Len(t, doc.Legend.Layers, 1)
	assert.Equal(t, "L3", doc.Legend.Layers[0].ID)
}

func TestDecode_DrawOrder(t *testing.T) {
	doc := decodeSample(t)
	assert.Equal(t, []string{"L1", "L2", "L3"}, doc.DrawOrder)
}

func TestDecode_EmptyDocument(t *testing.T) {
	root, err := xmltree.Parse(strings.NewReader(`<qgis version="3.22"/>`))
	require.NoError(t, err)
	doc, err := Decode(root, "UTF-8")
	require.NoError(t, err)
	assert.Empty(t, doc.Layers)
	assert.Nil(t, doc.LayerTree)
	assert.Nil(t, doc.Legend)
	assert.Empty(t, doc.DrawOrder)
}

func TestVerify_Consistent(t *testing.T) {
	doc := decodeSample(t)
	assert.NoError(t, doc.Verify())
}

func TestVerify_MissingFromDrawOrder(t *testing.T) {
	doc := decodeSample(t)
	doc.DrawOrder = []string{"L1", "L2"}
	err := doc.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "L3")
}

func TestVerify_DuplicateInDrawOrder(t *testing.T) {
	doc := decodeSample(t)
	doc.DrawOrder = append(doc.DrawOrder, "L1")
	err := doc.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "L1")
}

func TestVerify_UnknownInDrawOrder(t *testing.T) {
	doc := decodeSample(t)
	doc.DrawOrder = append(doc.DrawOrder, "L9")
	err := doc.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "L9")
}

func TestVerify_LayerInTwoGroups(t *testing.T) {
	doc := decodeSample(t)
	// Attach L1 under B as well.
	b := doc.LayerTree.Children[1]
	b.Layers = append(b.Layers, LayerRef{ID: "L1"})
	err := doc.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one group")
}
