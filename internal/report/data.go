// Package report is the read-only half of the toolkit: it consumes the
// indexer's mappings plus per-layer metadata and renders human-readable
// documentation (markdown, CSV, terminal).
package report

import (
	"fmt"
	"strconv"

	"github.com/mvrdal/qproj/internal/index"
	"github.com/mvrdal/qproj/internal/model"
	"github.com/mvrdal/qproj/internal/scrub"
)

// LayerInfo is the per-layer documentation record. Datasource is already
// sanitized; credentials never reach a report.
type LayerInfo struct {
	Name       string
	ID         string
	Datasource string
	MinScale   string
	MaxScale   string
	GroupPath  string
}

// Collect extracts documentation data for every layer in flat-list order.
func Collect(doc *model.ProjectDocument, idx *index.Index) []LayerInfo {
	var out []LayerInfo
	for _, l := range doc.Layers {
		minText, maxText := scaleVisibility(l)
		out = append(out, LayerInfo{
			Name:       l.Name,
			ID:         l.ID,
			Datasource: scrub.Sanitize(l.Datasource),
			MinScale:   minText,
			MaxScale:   maxText,
			GroupPath:  idx.LayerPaths[l.ID],
		})
	}
	return out
}

// scaleVisibility reads the layer's scale-based visibility settings.
// Newer documents keep them as maplayer attributes guarded by
// hasScaleBasedVisibilityFlag; older ones use a scalebasedvisibility child
// element. A layer without settings is always visible.
func scaleVisibility(l model.MapLayer) (minText, maxText string) {
	minScale, maxScale := "0", "0"

	if l.Elem != nil {
		if l.Elem.Attr("hasScaleBasedVisibilityFlag") == "1" {
			minScale = firstAttr(l.Elem, "minScale", "minimumScale")
			maxScale = firstAttr(l.Elem, "maxScale", "maximumScale")
		}
		if minScale == "0" && maxScale == "0" {
			if sv := l.Elem.Find("scalebasedvisibility"); sv != nil && sv.Attr("enabled") == "1" {
				minScale = firstAttr(sv, "minimumScale", "minimumscale")
				maxScale = firstAttr(sv, "maximumScale", "maximumscale")
			}
		}
	}

	if minScale == "0" && maxScale == "0" {
		return "Always Visible", "Always Visible"
	}
	return formatScale(minScale, "No Min (Visible Zoomed Out)"),
		formatScale(maxScale, "No Max (Visible Zoomed In)")
}

func firstAttr(e interface{ Attr(string) string }, names ...string) string {
	for _, n := range names {
		if v := e.Attr(n); v != "" {
			return v
		}
	}
	return "0"
}

func formatScale(value, unset string) string {
	if value == "0" {
		return unset
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return fmt.Sprintf("1:%d", int(f))
}
