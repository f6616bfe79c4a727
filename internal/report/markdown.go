package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/disiqueira/gotree/v3"
	"gopkg.in/yaml.v3"

	"github.com/mvrdal/qproj/internal/index"
)

// GeneratedBy marks report files written by this tool, so an existing
// hand-written file is never silently overwritten.
const GeneratedBy = "qproj"

// Meta is the YAML frontmatter carried by generated report files.
type Meta struct {
	Title       string `yaml:"title"`
	Project     string `yaml:"project"`
	Generated   string `yaml:"generated"`
	Layers      int    `yaml:"layers"`
	Groups      int    `yaml:"groups"`
	GeneratedBy string `yaml:"generated_by"`
}

// ParseMeta reads the frontmatter and body of an existing report file.
func ParseMeta(r io.Reader) (Meta, string, error) {
	var meta Meta
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(string(body)), nil
}

// Marshal serializes frontmatter followed by the markdown body.
func Marshal(meta Meta, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Generate renders the layer documentation for one project document.
func Generate(title string, layers []LayerInfo, idx *index.Index, legend LegendOptions) (Meta, string) {
	meta := Meta{
		Title:       title + " - Layer Documentation",
		Project:     title,
		Generated:   time.Now().Format("January 2, 2006"),
		Layers:      len(layers),
		Groups:      len(idx.Order),
		GeneratedBy: GeneratedBy,
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s - Layer Documentation\n\n", title)

	if len(layers) == 0 {
		sb.WriteString("No layer data found: the project contains no layers.\n")
		return meta, sb.String()
	}

	fmt.Fprintf(&sb, "%d layers in %d groups. Generated on %s.\n\n", len(layers), len(idx.Order), meta.Generated)

	sb.WriteString("## Scale interpretation\n\n")
	sb.WriteString("| Scale | Meaning |\n")
	sb.WriteString("|-------|---------|\n")
	sb.WriteString("| Min Scale | Layer visible when the map scale is at least this value (zoomed out) |\n")
	sb.WriteString("| Max Scale | Layer visible when the map scale is below this value (zoomed in) |\n")
	sb.WriteString("| Always Visible | No scale-based visibility configured |\n\n")

	sb.WriteString("## Layer groups\n\n")
	sb.WriteString("```\n")
	sb.WriteString(groupTree(title, idx))
	sb.WriteString("```\n\n")

	sb.WriteString("## Layers\n\n")
	byGroup := groupLayers(layers, idx)
	for _, path := range walkOrder(idx) {
		writeGroupTable(&sb, idx.Paths[path].Name, byGroup[path], legend)
	}
	if ungrouped := byGroup[""]; len(ungrouped) > 0 {
		writeGroupTable(&sb, "Ungrouped Layers", ungrouped, legend)
	}

	writeStatistics(&sb, layers, idx)
	return meta, sb.String()
}

// groupTree renders the hierarchy as plain text for embedding in markdown.
func groupTree(rootLabel string, idx *index.Index) string {
	tree := gotree.New(rootLabel)
	nodes := map[string]gotree.Tree{"": tree}
	var add func(path string)
	add = func(path string) {
		info := idx.Paths[path]
		parent := nodes[parentPath(path)]
		node := parent.Add(fmt.Sprintf("%s (%d layers)", info.Name, len(info.Layers)))
		nodes[path] = node
		for _, child := range info.ChildPaths {
			add(child)
		}
	}
	for _, top := range idx.Paths[""].ChildPaths {
		add(top)
	}
	return tree.Print()
}

func parentPath(path string) string {
	if i := strings.LastIndex(path, index.Separator); i >= 0 {
		return path[:i]
	}
	return ""
}

// groupLayers buckets layers by group path, each bucket sorted by the
// layer's position within its group in the tree (layers without a tree
// entry keep flat-list order at the end).
func groupLayers(layers []LayerInfo, idx *index.Index) map[string][]LayerInfo {
	byGroup := make(map[string][]LayerInfo)
	for _, l := range layers {
		byGroup[l.GroupPath] = append(byGroup[l.GroupPath], l)
	}
	for path, group := range byGroup {
		info := idx.Paths[path]
		if info == nil {
			continue
		}
		pos := make(map[string]int, len(info.Layers))
		for i, ref := range info.Layers {
			pos[ref.ID] = i
		}
		sort.SliceStable(group, func(i, j int) bool {
			pi, iok := pos[group[i].ID]
			pj, jok := pos[group[j].ID]
			if !iok || !jok {
				return false
			}
			return pi < pj
		})
	}
	return byGroup
}

// walkOrder yields group paths depth-first in document order.
func walkOrder(idx *index.Index) []string {
	var out []string
	var walk func(path string)
	walk = func(path string) {
		out = append(out, path)
		for _, child := range idx.Paths[path].ChildPaths {
			walk(child)
		}
	}
	for _, top := range idx.Paths[""].ChildPaths {
		walk(top)
	}
	return out
}

func writeGroupTable(sb *strings.Builder, name string, layers []LayerInfo, legend LegendOptions) {
	if len(layers) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s (%d layers)\n\n", name, len(layers))
	if legend.Enabled {
		sb.WriteString("| Layer Name | Datasource | Min Scale | Max Scale | Legend |\n")
		sb.WriteString("|------------|------------|-----------|-----------|--------|\n")
	} else {
		sb.WriteString("| Layer Name | Datasource | Min Scale | Max Scale |\n")
		sb.WriteString("|------------|------------|-----------|-----------|\n")
	}
	for _, l := range layers {
		row := fmt.Sprintf("| %s | %s | %s | %s",
			escapeCell(l.Name), truncate(escapeCell(l.Datasource), 120), l.MinScale, l.MaxScale)
		if legend.Enabled {
			row += fmt.Sprintf(" | [Legend](%s)", legend.URL(l.Name))
		}
		sb.WriteString(row + " |\n")
	}
	sb.WriteString("\n")
}

func writeStatistics(sb *strings.Builder, layers []LayerInfo, idx *index.Index) {
	ungrouped := 0
	for _, l := range layers {
		if l.GroupPath == "" {
			ungrouped++
		}
	}

	sb.WriteString("## Statistics\n\n")
	sb.WriteString("| Metric | Count |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(sb, "| Total layers | %d |\n", len(layers))
	fmt.Fprintf(sb, "| Layer groups | %d |\n", len(idx.Order))
	fmt.Fprintf(sb, "| Ungrouped layers | %d |\n\n", ungrouped)

	counts := make(map[string]int)
	for _, l := range layers {
		counts[Provider(l.Datasource)]++
	}
	var providers []string
	for p := range counts {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	sb.WriteString("### Data providers\n\n")
	sb.WriteString("| Provider | Layer count |\n")
	sb.WriteString("|----------|-------------|\n")
	for _, p := range providers {
		fmt.Fprintf(sb, "| `%s` | %d |\n", p, counts[p])
	}
}

// Provider guesses the data provider from a datasource string. Pattern
// matching only; the string is never parsed as a URI.
func Provider(datasource string) string {
	switch {
	case strings.Contains(datasource, "provider="):
		token := strings.SplitN(datasource[strings.Index(datasource, "provider=")+len("provider="):], " ", 2)[0]
		return strings.Trim(token, `'"`)
	case strings.Contains(datasource, "postgres://"), strings.Contains(datasource, "host="):
		return "postgres"
	case strings.HasSuffix(datasource, ".shp"), strings.Contains(datasource, "ogr:"):
		return "ogr"
	default:
		return "other"
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
