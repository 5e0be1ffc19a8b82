package conversion

import (
	"context"

	"github.com/Conversly/notion-converter/internal/notion"
)

// BlockFetcher is the document API side of a conversion.
type BlockFetcher interface {
	FetchBlocks(ctx context.Context, documentID string) ([]notion.Block, error)
}

// MarkdownRenderer serializes fetched blocks.
type MarkdownRenderer interface {
	Render(blocks []notion.Block) string
}

// NotificationQueue accepts post-conversion notifications without blocking.
type NotificationQueue interface {
	Enqueue(job NotificationJob) bool
}
