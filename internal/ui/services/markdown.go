package services

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for the terminal.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer renders markdown with glamour.
type GlamourRenderer struct {
	style string
}

// NewGlamourRenderer creates a renderer that picks its style from the
// terminal background.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{}
}

// NewGlamourRendererWithStyle creates a renderer with a fixed glamour style
// (e.g. "dark", "notty").
func NewGlamourRendererWithStyle(style string) *GlamourRenderer {
	return &GlamourRenderer{style: style}
}

func (r *GlamourRenderer) Render(content string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if r.style != "" {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return tr.Render(content)
}

// RenderMarkdown renders content, returning it unchanged when no renderer is set.
func RenderMarkdown(content string, width int, renderer MarkdownRenderer) (string, error) {
	if renderer == nil {
		return content, nil
	}
	return renderer.Render(content, width)
}
