package markdown

import (
	"strings"
	"unicode"

	"github.com/Conversly/notion-converter/internal/notion"
)

// RichText renders a run of rich text spans as inline markdown.
func RichText(spans []notion.RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(renderSpan(span))
	}
	return sb.String()
}

// PlainText concatenates the unformatted text of the spans.
func PlainText(spans []notion.RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(span.PlainText)
	}
	return sb.String()
}

func renderSpan(span notion.RichText) string {
	text := span.PlainText
	if text == "" {
		return ""
	}
	if span.Type == "equation" {
		return "$" + text + "$"
	}

	// Markers must hug the text: "**bold** " is emphasis, "**bold **" is not.
	lead, core, trail := splitSpace(text)
	if core == "" {
		return text
	}

	a := span.Annotations
	if a.Code {
		core = "`" + core + "`"
	}
	if a.Bold {
		core = "**" + core + "**"
	}
	if a.Italic {
		core = "_" + core + "_"
	}
	if a.Strikethrough {
		core = "~~" + core + "~~"
	}
	if span.Href != "" {
		core = "[" + core + "](" + span.Href + ")"
	}
	return lead + core + trail
}

func splitSpace(s string) (lead, core, trail string) {
	core = strings.TrimLeftFunc(s, unicode.IsSpace)
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRightFunc(core, unicode.IsSpace)
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}
