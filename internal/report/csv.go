package report

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSV renders the layer records as CSV with the documentation column set.
func CSV(layers []LayerInfo) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"Layer Name", "Layer ID", "Group Path", "Datasource", "Min Scale", "Max Scale"}); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, l := range layers {
		group := l.GroupPath
		if group == "" {
			group = "Ungrouped"
		}
		if err := w.Write([]string{l.Name, l.ID, group, l.Datasource, l.MinScale, l.MaxScale}); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return sb.String(), nil
}
