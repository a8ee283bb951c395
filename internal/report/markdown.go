// Package report parses the markdown subset the report prompt asks the
// model to emit: third-level headings, bullet lists, bold spans, and
// horizontal-rule dividers.
package report

import "strings"

type BlockKind int

const (
	KindHeading BlockKind = iota
	KindList
	KindParagraph
	KindDivider
)

// Span is a run of paragraph or heading text, optionally bold.
type Span struct {
	Text string
	Bold bool
}

type Block struct {
	Kind  BlockKind
	Spans []Span
	// Items holds the bullet lines of a list block.
	Items []string
}

// Parse splits the raw report into typed blocks. Sections are delimited by
// horizontal rules on their own line; within a section, "### " lines become
// headings, "* "/"- " lines accumulate into lists, everything else is a
// paragraph with bold-span detection.
func Parse(text string) []Block {
	var blocks []Block
	var listItems []string

	flushList := func() {
		if len(listItems) > 0 {
			blocks = append(blocks, Block{Kind: KindList, Items: listItems})
			listItems = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case isDivider(trimmed):
			flushList()
			blocks = append(blocks, Block{Kind: KindDivider})
		case strings.HasPrefix(trimmed, "### "):
			flushList()
			blocks = append(blocks, Block{
				Kind:  KindHeading,
				Spans: []Span{{Text: strings.TrimPrefix(trimmed, "### ")}},
			})
		case strings.HasPrefix(trimmed, "* "):
			listItems = append(listItems, stripBold(strings.TrimSpace(trimmed[2:])))
		case strings.HasPrefix(trimmed, "- "):
			listItems = append(listItems, stripBold(strings.TrimSpace(trimmed[2:])))
		default:
			flushList()
			blocks = append(blocks, Block{Kind: KindParagraph, Spans: parseSpans(trimmed)})
		}
	}
	flushList()

	return blocks
}

func isDivider(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if r != '-' {
			return false
		}
	}
	return true
}

// parseSpans splits a line on **bold** markers. An unterminated marker
// leaves the asterisks in the text untouched.
func parseSpans(line string) []Span {
	var spans []Span

	for line != "" {
		start := strings.Index(line, "**")
		if start == -1 {
			spans = append(spans, Span{Text: line})
			break
		}

		end := strings.Index(line[start+2:], "**")
		if end == -1 {
			spans = append(spans, Span{Text: line})
			break
		}

		if start > 0 {
			spans = append(spans, Span{Text: line[:start]})
		}
		spans = append(spans, Span{Text: line[start+2 : start+2+end], Bold: true})
		line = line[start+2+end+2:]
	}

	return spans
}

func stripBold(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

// PlainText joins the spans of a block without formatting.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, span := range b.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}
