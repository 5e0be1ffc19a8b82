package processors

import (
	"context"
	"fmt"

	"github.com/Conversly/notion-converter/internal/utils"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/markdown"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// MarkdownProcessor splits rendered markdown at #..#### headers. Header text
// is recorded in the h1..h4 metadata of each section.
type MarkdownProcessor struct {
	DocumentID string
}

func NewMarkdownProcessor(documentID string) *MarkdownProcessor {
	return &MarkdownProcessor{DocumentID: documentID}
}

func (p *MarkdownProcessor) Process(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error) {
	splitter, err := markdown.NewHeaderSplitter(ctx, &markdown.HeaderConfig{
		Headers: map[string]string{
			"#":    "h1",
			"##":   "h2",
			"###":  "h3",
			"####": "h4",
		},
		TrimHeaders: false, // Keep headers in the content
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown splitter: %w", err)
	}

	splitDocs, err := splitter.Transform(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to split markdown: %w", err)
	}

	utils.Zlog.Debug("Markdown split by headers",
		zap.String("documentId", p.DocumentID),
		zap.Int("sections", len(splitDocs)))

	return splitDocs, nil
}
