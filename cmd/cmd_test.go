package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvrdal/qproj/internal/config"
	"github.com/mvrdal/qproj/internal/qgs"
	"github.com/mvrdal/qproj/internal/report"
)

const sampleProject = `<?xml version="1.0" encoding="UTF-8"?>
<qgis version="3.22" projectname="Topo">
  <layer-tree-group>
    <layer-tree-group name="A">
      <layer-tree-layer id="L1" name="Hav"/>
    </layer-tree-group>
    <layer-tree-group name="B">
      <layer-tree-layer id="L2" name="Veg"/>
    </layer-tree-group>
  </layer-tree-group>
  <projectlayers>
    <maplayer>
      <id>L1</id>
      <layername>Hav</layername>
      <datasource>host=db password='hemmelig' table="prod"."hav"</datasource>
    </maplayer>
    <maplayer>
      <id>L2</id>
      <layername>Veg</layername>
      <datasource>./veg.shp</datasource>
    </maplayer>
  </projectlayers>
  <layerorder>
    <layer id="L1"/>
    <layer id="L2"/>
  </layerorder>
</qgis>`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "qproj.yaml")
	cfg = &config.Config{}
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeSample(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sampleProject), 0644))
	return path
}

// Tests pass string flags explicitly on every invocation: Cobra keeps flag
// values between Execute calls.

func TestExtract_WritesOutput(t *testing.T) {
	dir := setupEnv(t)
	writeSample(t, dir, "topo.qgs")
	output := filepath.Join(dir, "out", "db.qgs")

	require.NoError(t, run(t, "extract", "host=db", "--dir", dir, "-o", output, "--force"))

	doc, err := qgs.Load(output)
	require.NoError(t, err)
	require.Len(t, doc.Layers, 1)
	assert.Equal(t, "L1", doc.Layers[0].ID)
	assert.Equal(t, []string{"L1"}, doc.DrawOrder)
}

func TestExtract_NoMatch(t *testing.T) {
	dir := setupEnv(t)
	writeSample(t, dir, "topo.qgs")
	output := filepath.Join(dir, "out.qgs")

	err := run(t, "extract", "nosuchthing", "--dir", dir, "-o", output, "--force")
	require.Error(t, err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtract_CandidatesFromConfig(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")
	require.NoError(t, config.Save(cfgPath, &config.Config{Projects: []string{project}}))
	output := filepath.Join(dir, "out.qgs")

	// No --dir: candidates come from the config file.
	require.NoError(t, run(t, "extract", "host=db", "--config", cfgPath, "-o", output, "--force"))
	_, err := qgs.Load(output)
	assert.NoError(t, err)
}

func TestExtract_EmptyDir(t *testing.T) {
	dir := setupEnv(t)
	err := run(t, "extract", "host=db", "--dir", dir, "-o", filepath.Join(dir, "out.qgs"), "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no project files")
}

func TestTree(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")
	assert.NoError(t, run(t, "tree", project))
	assert.NoError(t, run(t, "tree", project, "--layers"))
}

func TestTree_MissingFile(t *testing.T) {
	dir := setupEnv(t)
	assert.Error(t, run(t, "tree", filepath.Join(dir, "absent.qgs")))
}

func TestLayers(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")
	assert.NoError(t, run(t, "layers", project, "--match="))
	assert.NoError(t, run(t, "layers", project, "--match=host=db"))
}

func TestReport_WritesMarkdown(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")
	output := filepath.Join(dir, "docs", "topo.md")

	require.NoError(t, run(t, "report", project, "-o", output, "--csv=", "--title="))

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	meta, body, err := report.ParseMeta(f)
	require.NoError(t, err)
	assert.Equal(t, report.GeneratedBy, meta.GeneratedBy)
	assert.Equal(t, "topo", meta.Project)
	assert.Contains(t, body, "# topo - Layer Documentation")
	assert.NotContains(t, body, "hemmelig")
}

func TestReport_RefusesForeignFile(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")
	output := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(output, []byte("# Hand-written notes\n"), 0644))

	err := run(t, "report", project, "-o", output, "--csv=", "--title=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	// Untouched.
	data, readErr := os.ReadFile(output)
	require.NoError(t, readErr)
	assert.Equal(t, "# Hand-written notes\n", string(data))

	assert.NoError(t, run(t, "report", project, "-o", output, "--csv=", "--title=", "--force"))
}

func TestReport_OverwritesOwnFile(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")
	output := filepath.Join(dir, "topo.md")

	require.NoError(t, run(t, "report", project, "-o", output, "--csv=", "--title="))
	assert.NoError(t, run(t, "report", project, "-o", output, "--csv=", "--title="))
}

func TestReport_CSV(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")
	output := filepath.Join(dir, "topo.md")
	csvPath := filepath.Join(dir, "topo.csv")

	require.NoError(t, run(t, "report", project, "-o", output, "--csv", csvPath, "--title=Topo"))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Hav,L1,A,")
}

func TestDatasources(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")

	require.NoError(t, run(t, "datasources", project))

	data, err := os.ReadFile(filepath.Join(dir, "datasources.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "host=db")
	assert.Equal(t, "./veg.shp", lines[1])
}

func TestClean(t *testing.T) {
	dir := setupEnv(t)
	project := writeSample(t, dir, "topo.qgs")

	require.NoError(t, run(t, "clean", project))

	doc, err := qgs.Load(project)
	require.NoError(t, err)
	assert.NotContains(t, doc.Layers[0].Datasource, "hemmelig")
	assert.Contains(t, doc.Layers[0].Datasource, "password=''")
}

func TestClean_RecursiveDir(t *testing.T) {
	dir := setupEnv(t)
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0755))
	project := writeSample(t, sub, "topo.qgs")

	require.NoError(t, run(t, "clean", "--dir", dir))

	doc, err := qgs.Load(project)
	require.NoError(t, err)
	assert.NotContains(t, doc.Layers[0].Datasource, "hemmelig")
}

func TestResolveCandidates_SortsDirGlob(t *testing.T) {
	dir := setupEnv(t)
	writeSample(t, dir, "b.qgs")
	writeSample(t, dir, "a.qgs")

	extractCmd.Flags().Set("dir", dir)
	files, err := resolveCandidates(extractCmd)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, strings.HasSuffix(files[0], "a.qgs"))
}
