package notion

import (
	"encoding/json"
	"fmt"
)

type BlockType string

const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockToDo             BlockType = "to_do"
	BlockToggle           BlockType = "toggle"
	BlockQuote            BlockType = "quote"
	BlockCallout          BlockType = "callout"
	BlockCode             BlockType = "code"
	BlockDivider          BlockType = "divider"
	BlockImage            BlockType = "image"
	BlockVideo            BlockType = "video"
	BlockFile             BlockType = "file"
	BlockPDF              BlockType = "pdf"
	BlockBookmark         BlockType = "bookmark"
	BlockEmbed            BlockType = "embed"
	BlockLinkPreview      BlockType = "link_preview"
	BlockEquation         BlockType = "equation"
	BlockChildPage        BlockType = "child_page"
	BlockChildDatabase    BlockType = "child_database"
	BlockTable            BlockType = "table"
	BlockTableRow         BlockType = "table_row"
	BlockColumnList       BlockType = "column_list"
	BlockColumn           BlockType = "column"
	BlockSyncedBlock      BlockType = "synced_block"
)

// Supported reports whether the markdown renderer knows the block type.
func (t BlockType) Supported() bool {
	switch t {
	case BlockParagraph, BlockHeading1, BlockHeading2, BlockHeading3,
		BlockBulletedListItem, BlockNumberedListItem, BlockToDo, BlockToggle,
		BlockQuote, BlockCallout, BlockCode, BlockDivider, BlockImage, BlockVideo,
		BlockFile, BlockPDF, BlockBookmark, BlockEmbed, BlockLinkPreview,
		BlockEquation, BlockChildPage, BlockChildDatabase, BlockTable, BlockTableRow,
		BlockColumnList, BlockColumn, BlockSyncedBlock:
		return true
	default:
		return false
	}
}

// Block is a single content unit of a page. The type specific payload, which
// the API nests under a key named after the type, is decoded into Content.
type Block struct {
	ID          string
	Type        BlockType
	HasChildren bool
	Content     BlockContent
	Children    []Block
}

// BlockContent is the union of the payload fields used by the supported block
// types. Fields that a type does not carry stay zero.
type BlockContent struct {
	RichText        []RichText   `json:"rich_text"`
	Checked         bool         `json:"checked"`
	Language        string       `json:"language"`
	Caption         []RichText   `json:"caption"`
	Icon            *Icon        `json:"icon"`
	URL             string       `json:"url"`
	Expression      string       `json:"expression"`
	Title           string       `json:"title"`
	Name            string       `json:"name"`
	FileType        string       `json:"type"`
	External        *FileRef     `json:"external"`
	File            *FileRef     `json:"file"`
	Cells           [][]RichText `json:"cells"`
	HasColumnHeader bool         `json:"has_column_header"`
}

type RichText struct {
	Type        string      `json:"type"`
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href"`
	Annotations Annotations `json:"annotations"`
}

type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

type Icon struct {
	Type     string   `json:"type"`
	Emoji    string   `json:"emoji"`
	External *FileRef `json:"external"`
}

type FileRef struct {
	URL string `json:"url"`
}

// SourceURL returns the URL of a file-like block, hosted or external.
func (c BlockContent) SourceURL() string {
	switch {
	case c.External != nil && c.External.URL != "":
		return c.External.URL
	case c.File != nil && c.File.URL != "":
		return c.File.URL
	default:
		return c.URL
	}
}

// Descendable reports whether the client should fetch the block's children.
// Child pages and databases are separate documents.
func (b Block) Descendable() bool {
	return b.HasChildren && b.Type != BlockChildPage && b.Type != BlockChildDatabase
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var header struct {
		ID          string    `json:"id"`
		Type        BlockType `json:"type"`
		HasChildren bool      `json:"has_children"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	b.ID = header.ID
	b.Type = header.Type
	b.HasChildren = header.HasChildren
	b.Content = BlockContent{}

	raw, ok := fields[string(header.Type)]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, &b.Content); err != nil {
		// Payloads of types the renderer skips are not worth failing over.
		if !header.Type.Supported() {
			b.Content = BlockContent{}
			return nil
		}
		return fmt.Errorf("failed to decode %s block %s: %w", header.Type, header.ID, err)
	}
	return nil
}

type childrenResponse struct {
	Object     string  `json:"object"`
	Results    []Block `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}
