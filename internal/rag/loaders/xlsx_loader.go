package loaders

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"docintel/internal/rag/interfaces"
	"docintel/internal/rag/schema"
)

// XlsxLoader implements the Loader interface for reading Excel (.xlsx) files.
type XlsxLoader struct{}

// NewXlsxLoader creates a new XlsxLoader.
func NewXlsxLoader() *XlsxLoader {
	return &XlsxLoader{}
}

// Load reads an .xlsx file, converting each sheet to a Markdown table.
// It returns a Chunk for each sheet.
func (l *XlsxLoader) Load(ctx context.Context, path string) ([]*schema.Chunk, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []*schema.Chunk
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			// Skip sheet if rows can't be read
			continue
		}

		var mdBuilder strings.Builder
		if len(rows) > 0 {
			// Header
			mdBuilder.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
			// Separator
			mdBuilder.WriteString("|" + strings.Repeat("---|", len(rows[0])) + "\n")
			// Body
			for _, row := range rows[1:] {
				mdBuilder.WriteString("| " + strings.Join(row, " | ") + " |\n")
			}
		}

		chunks = append(chunks, &schema.Chunk{
			ID:   uuid.New().String(),
			Text: mdBuilder.String(),
			Metadata: map[string]interface{}{
				schema.MetadataKeyFileName:  filepath.Base(path),
				schema.MetadataKeySheetName: sheetName,
			},
		})
	}

	return chunks, nil
}

// compile-time check to ensure XlsxLoader implements the Loader interface
var _ interfaces.Loader = (*XlsxLoader)(nil)
