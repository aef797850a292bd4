package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Cyclone1070/boxagent/internal/ui/services"
	"github.com/Cyclone1070/boxagent/internal/ui/views"
	"github.com/Cyclone1070/boxagent/internal/workflow"
)

// DefaultWidth is the wrap width used for markdown.
const DefaultWidth = 100

// Options configures a Renderer.
type Options struct {
	Verbose bool
	Width   int
}

// Renderer prints workflow events to a terminal. Intermediate model text is
// printed as it arrives; the final answer is rendered as markdown.
type Renderer struct {
	out      io.Writer
	markdown services.MarkdownRenderer
	opts     Options

	// pending holds model text not yet known to be the final answer.
	pending string
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, markdown services.MarkdownRenderer, opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	return &Renderer{out: out, markdown: markdown, opts: opts}
}

// Consume renders events until the channel is closed.
func (r *Renderer) Consume(events <-chan workflow.Event) {
	for ev := range events {
		r.Render(ev)
	}
	r.flush()
}

// Render renders a single event.
func (r *Renderer) Render(ev workflow.Event) {
	switch e := ev.(type) {
	case workflow.ThinkingEvent:
		r.flush()
	case workflow.ThoughtEvent:
		if r.opts.Verbose {
			r.println(views.ThoughtStyle.Render(e.Text))
		}
	case workflow.TextEvent:
		r.flush()
		r.pending = e.Text
	case workflow.UsageEvent:
		if r.opts.Verbose {
			r.println(views.RenderUsage(e.Usage))
		}
	case workflow.ToolStartEvent:
		r.flush()
		desc := e.RequestDisplay
		if desc == "" {
			desc = services.FormatToolDescription(e.ToolName, e.Args)
		}
		r.println(views.RenderToolStart(e.ToolName, desc, e.Args, r.opts.Verbose))
	case workflow.ToolEndEvent:
		if out := views.RenderToolEnd(e.Display, e.IsError); out != "" {
			r.println(out)
		}
	case workflow.DoneEvent:
		if e.State == workflow.StateDone {
			r.renderFinal()
		} else {
			r.flush()
		}
		if line := views.RenderDone(e.State, e.Iterations); line != "" {
			r.println(line)
		}
	}
}

// flush prints pending text as an intermediate agent message.
func (r *Renderer) flush() {
	if r.pending == "" {
		return
	}
	r.println(views.AgentLabelStyle.Render("Agent:") + " " + strings.TrimSpace(r.pending))
	r.pending = ""
}

func (r *Renderer) renderFinal() {
	if r.pending == "" {
		return
	}
	text := r.pending
	r.pending = ""
	rendered, err := services.RenderMarkdown(text, r.opts.Width, r.markdown)
	if err != nil {
		rendered = text
	}
	r.println(views.AgentLabelStyle.Render("Agent:"))
	r.println(strings.TrimRight(rendered, "\n"))
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.out, s)
}
