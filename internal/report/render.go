package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Renderer writes parsed report blocks to a console writer.
type Renderer struct {
	Out io.Writer
	// Color disables ANSI escapes when false, for piped output.
	Color bool
}

func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{Out: out, Color: color}
}

func (r *Renderer) Render(blocks []Block) {
	for _, block := range blocks {
		switch block.Kind {
		case KindHeading:
			fmt.Fprintf(r.Out, "\n%s\n%s\n", r.bold(block.PlainText()), strings.Repeat("=", len(block.PlainText())))
		case KindList:
			for _, item := range block.Items {
				fmt.Fprintf(r.Out, "  * %s\n", item)
			}
		case KindParagraph:
			fmt.Fprintln(r.Out, r.spans(block.Spans))
		case KindDivider:
			fmt.Fprintf(r.Out, "\n%s\n", strings.Repeat("-", 60))
		}
	}
}

func (r *Renderer) spans(spans []Span) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.Bold {
			sb.WriteString(r.bold(span.Text))
		} else {
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}

func (r *Renderer) bold(s string) string {
	if !r.Color {
		return s
	}
	return ansiBold + s + ansiReset
}
