package loaders

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"docintel/internal/rag/interfaces"
	"docintel/internal/rag/schema"
)

// TxtLoader implements the Loader interface for reading plain text files.
// It is also the fallback for unrecognized file extensions.
type TxtLoader struct{}

// NewTxtLoader creates a new TxtLoader.
func NewTxtLoader() *TxtLoader {
	return &TxtLoader{}
}

// Load reads a text file from the given path and returns it as a single Chunk.
func (l *TxtLoader) Load(ctx context.Context, path string) ([]*schema.Chunk, error) {
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

// compile-time check to ensure TxtLoader implements the Loader interface
var _ interfaces.Loader = (*TxtLoader)(nil)
