package loaders

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"docintel/internal/rag/interfaces"
	"docintel/internal/rag/schema"
)

// MarkdownLoader implements the Loader interface for reading Markdown (.md) files.
type MarkdownLoader struct{}

// NewMarkdownLoader creates a new MarkdownLoader.
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{}
}

// Load reads a Markdown file and returns its raw content as a single Chunk.
// Markup is left in place; the splitter's paragraph preference works well
// on Markdown as-is.
func (l *MarkdownLoader) Load(ctx context.Context, path string) ([]*schema.Chunk, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	chunk := &schema.Chunk{
		ID:   uuid.New().String(),
		Text: string(content),
		Metadata: map[string]interface{}{
			schema.MetadataKeyFileName: filepath.Base(path),
		},
	}

	return []*schema.Chunk{chunk}, nil
}

// compile-time check to ensure MarkdownLoader implements the Loader interface
var _ interfaces.Loader = (*MarkdownLoader)(nil)
