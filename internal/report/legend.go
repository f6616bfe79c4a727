package report

import (
	"fmt"
	"net/url"
)

const (
	defaultLegendBaseURL = "https://topo-qgis.atkv3-dev.kartverket-intern.cloud/qgis/"
	defaultLegendMapFile = "/opt/qgis/Topo_2025.qgs"
)

// LegendOptions controls the legend links embedded in reports.
type LegendOptions struct {
	Enabled bool
	BaseURL string
	MapFile string
}

// URL builds the WMS GetLegendGraphic request for a layer name.
func (o LegendOptions) URL(layerName string) string {
	base := o.BaseURL
	if base == "" {
		base = defaultLegendBaseURL
	}
	mapFile := o.MapFile
	if mapFile == "" {
		mapFile = defaultLegendMapFile
	}
	return fmt.Sprintf(
		"%s?MAP=%s&SERVICE=WMS&REQUEST=GetLegendGraphic&LAYERTITLE=False&LAYER=%s",
		base, mapFile, url.QueryEscape(layerName),
	)
}
