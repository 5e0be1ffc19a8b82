// Package processors turns rendered markdown into sections for downstream
// ingestion.
package processors

import (
	"context"
	"strings"

	"github.com/Conversly/notion-converter/internal/types"
	"github.com/cloudwego/eino/schema"
)

// Processor is one splitting stage.
type Processor interface {
	Process(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error)
}

type Factory struct {
	config *types.ProcessingConfig
}

func NewFactory(config *types.ProcessingConfig) *Factory {
	if config == nil {
		config = types.DefaultProcessingConfig()
	}
	return &Factory{
		config: config,
	}
}

// WithOptions returns a factory whose config is overridden by the request options.
func (f *Factory) WithOptions(opts *types.ConvertOptions) *Factory {
	if opts == nil {
		return f
	}
	cfg := *f.config
	cfg.SplitByHeaders = opts.SplitByHeaders
	if opts.ChunkSize > 0 {
		cfg.ChunkSize = opts.ChunkSize
	}
	if opts.ChunkOverlap > 0 {
		cfg.ChunkOverlap = opts.ChunkOverlap
	}
	return &Factory{config: &cfg}
}

// CreateProcessors returns the stages to run, header splitting first.
func (f *Factory) CreateProcessors(documentID string) []Processor {
	var stages []Processor
	if f.config.SplitByHeaders {
		stages = append(stages, NewMarkdownProcessor(documentID))
	}
	if f.config.ChunkSize > 0 {
		stages = append(stages, NewTextProcessor(documentID, f.config.ChunkSize, f.config.ChunkOverlap))
	}
	return stages
}

// Sections runs the configured stages over the markdown of one document.
func (f *Factory) Sections(ctx context.Context, documentID, content string) ([]types.Section, error) {
	stages := f.CreateProcessors(documentID)
	if len(stages) == 0 || strings.TrimSpace(content) == "" {
		return nil, nil
	}

	docs := []*schema.Document{
		{
			ID:      documentID,
			Content: content,
			MetaData: map[string]any{
				"documentId": documentID,
			},
		},
	}

	var err error
	for _, stage := range stages {
		docs, err = stage.Process(ctx, docs)
		if err != nil {
			return nil, err
		}
	}

	sections := make([]types.Section, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		section := types.Section{
			Index:   len(sections),
			Content: doc.Content,
			Metadata: map[string]interface{}{
				"documentId": documentID,
			},
		}
		// Merge any metadata from the split document (headers)
		for k, v := range doc.MetaData {
			section.Metadata[k] = v
		}
		sections = append(sections, section)
	}
	return sections, nil
}
