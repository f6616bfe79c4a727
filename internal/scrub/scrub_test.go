package scrub

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvrdal/qproj/internal/xmltree"
)

func TestSanitize_KeyValue(t *testing.T) {
	in := "host=db port=5432 password=hemmelig dbname='topo'"
	out := Sanitize(in)
	assert.NotContains(t, out, "hemmelig")
	assert.Contains(t, out, mask)
	assert.Contains(t, out, "host=db")
	assert.Contains(t, out, "dbname='topo'")
}

func TestSanitize_QuotedValue(t *testing.T) {
	out := Sanitize(`host=db password='hemmelig' table="prod"."hav"`)
	assert.NotContains(t, out, "hemmelig")
	assert.Contains(t, out, `table="prod"."hav"`)
}

func TestSanitize_Pwd(t *testing.T) {
	out := Sanitize("Driver=SQL;Server=db;Pwd=hemmelig;")
	assert.NotContains(t, out, "hemmelig")
}

func TestSanitize_URICredentials(t *testing.T) {
	out := Sanitize("postgres://bruker:hemmelig@db:5432/topo")
	assert.NotContains(t, out, "hemmelig")
	assert.Contains(t, out, "bruker")
	assert.Contains(t, out, "@db:5432/topo")
}

func TestSanitize_NoSecrets(t *testing.T) {
	in := "./skog.shp"
	assert.Equal(t, in, Sanitize(in))
	assert.Equal(t, "", Sanitize(""))
}

func parse(t *testing.T, src string) *xmltree.Element {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return root
}

func TestRemovePasswords(t *testing.T) {
	root := parse(t, `<qgis>
  <projectlayers>
    <maplayer>
      <datasource>host=db password='hemmelig' dbname='topo'</datasource>
    </maplayer>
    <maplayer>
      <datasource>./skog.shp</datasource>
    </maplayer>
  </projectlayers>
</qgis>`)

	n := RemovePasswords(root)
	assert.Equal(t, 1, n)

	ds := root.Find("projectlayers").Children[0].Find("datasource")
	assert.NotContains(t, ds.Text, "hemmelig")
	assert.Contains(t, ds.Text, "password=''")
	assert.Contains(t, ds.Text, "dbname='topo'")
}

func TestRemovePasswords_AlreadyBlank(t *testing.T) {
	root := parse(t, `<qgis><maplayer><datasource>host=db password='' dbname='topo'</datasource></maplayer></qgis>`)
	assert.Equal(t, 0, RemovePasswords(root))
}

func TestRemovePasswords_NestedDatasource(t *testing.T) {
	// Datasource elements can appear below the usual maplayer spot.
	root := parse(t, `<qgis>
  <properties>
    <deep>
      <datasource>host=db password=hemmelig</datasource>
    </deep>
  </properties>
</qgis>`)

	assert.Equal(t, 1, RemovePasswords(root))
	assert.NotContains(t, root.Find("properties").Find("deep").Find("datasource").Text, "hemmelig")
}

func TestRemovePasswords_Idempotent(t *testing.T) {
	root := parse(t, `<qgis><maplayer><datasource>host=db password=hemmelig</datasource></maplayer></qgis>`)
	assert.Equal(t, 1, RemovePasswords(root))
	assert.Equal(t, 0, RemovePasswords(root))
}

func TestRemovePasswords_NilRoot(t *testing.T) {
	assert.Equal(t, 0, RemovePasswords(nil))
}
