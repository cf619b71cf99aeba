package loaders

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/unidoc/unioffice/v2/document"

	"docintel/internal/rag/interfaces"
	"docintel/internal/rag/schema"
)

// DocxLoader implements the Loader interface for reading Word (.docx) files.
type DocxLoader struct{}

// NewDocxLoader creates a new DocxLoader.
func NewDocxLoader() *DocxLoader {
	return &DocxLoader{}
}

// Load reads a .docx file and returns the text of all paragraphs as a
// single Chunk, one line per paragraph.
func (l *DocxLoader) Load(ctx context.Context, path string) ([]*schema.Chunk, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs() {
			textBuilder.WriteString(r.Text())
		}
		textBuilder.WriteString("\n")
	}

	chunk := &schema.Chunk{
		ID:   uuid.New().String(),
		Text: textBuilder.String(),
		Metadata: map[string]interface{}{
			schema.MetadataKeyFileName: filepath.Base(path),
		},
	}

	return []*schema.Chunk{chunk}, nil
}

// compile-time check to ensure DocxLoader implements the Loader interface
var _ interfaces.Loader = (*DocxLoader)(nil)
