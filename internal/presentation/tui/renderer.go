package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// With color disabled the plain "notty" style is used, so output piped to a file
// stays free of escape sequences.
func NewRenderer(color bool) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle() // Automatically detect light/dark background
	if !color {
		opt = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(0))
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
