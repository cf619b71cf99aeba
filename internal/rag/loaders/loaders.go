package loaders

import (
	"path/filepath"
	"strings"

	"docintel/internal/rag/interfaces"
)

// ForPath selects a loader by file extension. Unrecognized extensions fall
// back to the plain text loader.
func ForPath(path string) interfaces.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPdfLoader()
	case ".docx":
		return NewDocxLoader()
	case ".xlsx":
		return NewXlsxLoader()
	case ".md", ".markdown":
		return NewMarkdownLoader()
	default:
		return NewTxtLoader()
	}
}
