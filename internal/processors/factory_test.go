package processors

import (
	"context"
	"strings"
	"testing"

	"github.com/Conversly/notion-converter/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "# Guide\nalpha text\n\n## Setup\nbeta text"

func TestFactoryWithOptions(t *testing.T) {
	base := NewFactory(&types.ProcessingConfig{SplitByHeaders: false, ChunkSize: 500, ChunkOverlap: 50})

	assert.Same(t, base, base.WithOptions(nil))

	f := base.WithOptions(&types.ConvertOptions{SplitByHeaders: true, ChunkSize: 100})
	assert.True(t, f.config.SplitByHeaders)
	assert.Equal(t, 100, f.config.ChunkSize)
	assert.Equal(t, 50, f.config.ChunkOverlap)
	assert.False(t, base.config.SplitByHeaders, "base config is not mutated")

	assert.Len(t, f.CreateProcessors("doc"), 2)
	assert.Empty(t, NewFactory(&types.ProcessingConfig{}).CreateProcessors("doc"))
}

func TestNewTextProcessorClampsOverlap(t *testing.T) {
	assert.Equal(t, 0, NewTextProcessor("doc", 100, -5).ChunkOverlap)
	assert.Equal(t, 25, NewTextProcessor("doc", 100, 100).ChunkOverlap)
	assert.Equal(t, 10, NewTextProcessor("doc", 100, 10).ChunkOverlap)
}

func TestSections_NoStages(t *testing.T) {
	sections, err := NewFactory(&types.ProcessingConfig{}).Sections(context.Background(), "doc", sample)
	require.NoError(t, err)
	assert.Nil(t, sections)
}

func TestSections_SplitByHeaders(t *testing.T) {
	f := NewFactory(&types.ProcessingConfig{SplitByHeaders: true})

	sections, err := f.Sections(context.Background(), "doc-1", sample)
	require.NoError(t, err)
	require.NotEmpty(t, sections)

	var joined []string
	for i, s := range sections {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, "doc-1", s.Metadata["documentId"])
		joined = append(joined, s.Content)
	}
	all := strings.Join(joined, "\n")
	assert.Contains(t, all, "alpha text")
	assert.Contains(t, all, "beta text")
}

func TestSections_Chunked(t *testing.T) {
	f := NewFactory(&types.ProcessingConfig{ChunkSize: 20})
	content := strings.Repeat("word ", 40)

	sections, err := f.Sections(context.Background(), "doc-2", content)
	require.NoError(t, err)
	assert.Greater(t, len(sections), 1)
	for _, s := range sections {
		assert.NotEmpty(t, strings.TrimSpace(s.Content))
	}
}
