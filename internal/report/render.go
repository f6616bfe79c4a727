package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderTerminal renders a markdown report body for terminal display.
func RenderTerminal(body string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(body)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
