package processors

import (
	"context"
	"fmt"

	"github.com/Conversly/notion-converter/internal/utils"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// TextProcessor cuts documents into chunks of at most ChunkSize characters,
// preferring paragraph, line and sentence boundaries.
type TextProcessor struct {
	DocumentID   string
	ChunkSize    int
	ChunkOverlap int
}

func NewTextProcessor(documentID string, chunkSize, chunkOverlap int) *TextProcessor {
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}
	return &TextProcessor{
		DocumentID:   documentID,
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}
}

func (p *TextProcessor) Process(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error) {
	splitter, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   p.ChunkSize,
		OverlapSize: p.ChunkOverlap,
		Separators:  []string{"\n\n", "\n", ". ", "? ", "! ", " "},
		KeepType:    recursive.KeepTypeNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}

	splitDocs, err := splitter.Transform(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	utils.Zlog.Debug("Markdown split into chunks",
		zap.String("documentId", p.DocumentID),
		zap.Int("chunkSize", p.ChunkSize),
		zap.Int("chunkOverlap", p.ChunkOverlap),
		zap.Int("chunks", len(splitDocs)))

	return splitDocs, nil
}
