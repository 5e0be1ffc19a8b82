// Package markdown renders Notion block trees as GitHub flavoured markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/Conversly/notion-converter/internal/notion"
	"github.com/Conversly/notion-converter/internal/utils"
	"go.uber.org/zap"
)

// Renderer is stateless and safe for concurrent use.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render serializes blocks into markdown. The output for a given block tree
// is always the same.
func (r *Renderer) Render(blocks []notion.Block) string {
	return strings.TrimSpace(r.renderBlocks(blocks))
}

func (r *Renderer) renderBlocks(blocks []notion.Block) string {
	var (
		sb      strings.Builder
		number  int
		lastOut notion.BlockType
	)
	for _, b := range blocks {
		// Numbering follows the last rendered block; skipped blocks do not
		// break a list.
		if b.Type == notion.BlockNumberedListItem {
			if lastOut == notion.BlockNumberedListItem {
				number++
			} else {
				number = 1
			}
		}

		out := r.renderBlock(b, number)
		if out == "" {
			continue
		}
		if sb.Len() > 0 {
			if isListItem(lastOut) && isListItem(b.Type) {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(out)
		lastOut = b.Type
	}
	return sb.String()
}

func (r *Renderer) renderBlock(b notion.Block, number int) string {
	c := b.Content
	text := RichText(c.RichText)

	switch b.Type {
	case notion.BlockParagraph:
		return r.withChildren(text, b.Children)
	case notion.BlockHeading1:
		return r.withChildren("# "+text, b.Children)
	case notion.BlockHeading2:
		return r.withChildren("## "+text, b.Children)
	case notion.BlockHeading3:
		return r.withChildren("### "+text, b.Children)
	case notion.BlockBulletedListItem:
		return r.listItem("- ", text, b.Children)
	case notion.BlockNumberedListItem:
		return r.listItem(fmt.Sprintf("%d. ", number), text, b.Children)
	case notion.BlockToDo:
		box := "- [ ] "
		if c.Checked {
			box = "- [x] "
		}
		return r.listItem(box, text, b.Children)
	case notion.BlockToggle:
		summary := "<details>\n<summary>" + text + "</summary>\n"
		if body := r.renderBlocks(b.Children); body != "" {
			summary += "\n" + body + "\n"
		}
		return summary + "</details>"
	case notion.BlockQuote:
		return quoteLines(r.withChildren(text, b.Children))
	case notion.BlockCallout:
		if c.Icon != nil && c.Icon.Emoji != "" {
			text = c.Icon.Emoji + " " + text
		}
		return quoteLines(r.withChildren(text, b.Children))
	case notion.BlockCode:
		lang := c.Language
		if lang == "plain text" {
			lang = ""
		}
		return "```" + lang + "\n" + PlainText(c.RichText) + "\n```"
	case notion.BlockDivider:
		return "---"
	case notion.BlockEquation:
		return "$$\n" + c.Expression + "\n$$"
	case notion.BlockImage:
		src := c.SourceURL()
		if src == "" {
			return ""
		}
		return "![" + PlainText(c.Caption) + "](" + src + ")"
	case notion.BlockVideo, notion.BlockFile, notion.BlockPDF,
		notion.BlockBookmark, notion.BlockEmbed, notion.BlockLinkPreview:
		return link(c)
	case notion.BlockChildPage, notion.BlockChildDatabase:
		if c.Title == "" {
			return ""
		}
		return "## " + c.Title
	case notion.BlockTable:
		return table(b)
	case notion.BlockColumnList, notion.BlockColumn, notion.BlockSyncedBlock:
		return r.renderBlocks(b.Children)
	default:
		utils.Zlog.Debug("Skipping unsupported block",
			zap.String("blockId", b.ID),
			zap.String("type", string(b.Type)))
		return ""
	}
}

func (r *Renderer) withChildren(head string, children []notion.Block) string {
	body := r.renderBlocks(children)
	switch {
	case body == "":
		return head
	case head == "":
		return body
	default:
		return head + "\n\n" + body
	}
}

// listItem nests children under the item, indented by the marker width.
func (r *Renderer) listItem(marker, text string, children []notion.Block) string {
	out := marker + text
	if body := r.renderBlocks(children); body != "" {
		out += "\n" + indent(body, strings.Repeat(" ", len(marker)))
	}
	return out
}

func link(c notion.BlockContent) string {
	src := c.SourceURL()
	if src == "" {
		return ""
	}
	label := PlainText(c.Caption)
	if label == "" {
		label = c.Name
	}
	if label == "" {
		label = src
	}
	return "[" + label + "](" + src + ")"
}

func table(b notion.Block) string {
	var rows [][]string
	width := 0
	for _, row := range b.Children {
		if row.Type != notion.BlockTableRow {
			continue
		}
		cells := make([]string, 0, len(row.Content.Cells))
		for _, cell := range row.Content.Cells {
			cells = append(cells, strings.ReplaceAll(RichText(cell), "|", `\|`))
		}
		if len(cells) > width {
			width = len(cells)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || width == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+1)
	for i, cells := range rows {
		for len(cells) < width {
			cells = append(cells, "")
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		// GFM needs a header row; the first row serves even without has_column_header.
		if i == 0 {
			sep := make([]string, width)
			for j := range sep {
				sep[j] = "---"
			}
			lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
		}
	}
	return strings.Join(lines, "\n")
}

func quoteLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

func isListItem(t notion.BlockType) bool {
	return t == notion.BlockBulletedListItem || t == notion.BlockNumberedListItem || t == notion.BlockToDo
}
