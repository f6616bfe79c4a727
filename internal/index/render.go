package index

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	layerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderASCII produces a styled tree of the indexed hierarchy, groups with
// their direct layer counts and layer leaves beneath them.
func (idx *Index) RenderASCII(showLayers bool) string {
	root := idx.Paths[""]
	if root == nil || (len(root.ChildPaths) == 0 && len(root.Layers) == 0) {
		return "No groups."
	}

	var sb strings.Builder
	items := rootItems(root, showLayers)
	for i, it := range items {
		idx.renderItem(&sb, it, "", i == len(items)-1, showLayers)
	}
	return sb.String()
}

type treeItem struct {
	path  string // empty for layer leaves
	label string
}

func rootItems(root *GroupInfo, showLayers bool) []treeItem {
	var items []treeItem
	for _, p := range root.ChildPaths {
		items = append(items, treeItem{path: p})
	}
	if showLayers {
		for _, l := range root.Layers {
			items = append(items, treeItem{label: l.Name})
		}
	}
	return items
}

func (idx *Index) renderItem(sb *strings.Builder, it treeItem, prefix string, isLast bool, showLayers bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}

	if it.path == "" {
		sb.WriteString(prefix + connector + layerStyle.Render(it.label) + "\n")
		return
	}

	info := idx.Paths[it.path]
	if info == nil {
		return
	}
	label := groupStyle.Render(info.Name) + " " +
		countStyle.Render(fmt.Sprintf("(%d layers)", len(info.Layers)))
	sb.WriteString(prefix + connector + label + "\n")

	childPrefix := prefix
	if isLast {
		childPrefix += "    "
	} else {
		childPrefix += "│   "
	}

	var items []treeItem
	for _, p := range info.ChildPaths {
		items = append(items, treeItem{path: p})
	}
	if showLayers {
		for _, l := range info.Layers {
			items = append(items, treeItem{label: l.Name})
		}
	}
	for i, child := range items {
		idx.renderItem(sb, child, childPrefix, i == len(items)-1, showLayers)
	}
}
