package pipeline

import (
	"context"
	"fmt"

	"docintel/internal/rag/interfaces"
	"docintel/internal/rag/schema"
	"docintel/pkg/logger"
)

// IngestionPipeline orchestrates loading, splitting and indexing an
// uploaded document.
type IngestionPipeline struct {
	splitter interfaces.Splitter
	index    interfaces.VectorIndex
	log      *logger.Logger
}

// NewIngestionPipeline creates a new IngestionPipeline.
func NewIngestionPipeline(splitter interfaces.Splitter, index interfaces.VectorIndex, log *logger.Logger) *IngestionPipeline {
	return &IngestionPipeline{
		splitter: splitter,
		index:    index,
		log:      log,
	}
}

// Run executes the ingestion pipeline for one document. It returns the
// document's full text (the first loaded section) and the number of chunks
// indexed. Load and split failures surface as ProcessingError, index
// failures as IndexError.
func (p *IngestionPipeline) Run(ctx context.Context, loader interfaces.Loader, path, docID string) (string, int, error) {
	p.log.Info(fmt.Sprintf("Starting ingestion for path: %s, document: %s", path, docID))

	// 1. Load the data
	sections, err := loader.Load(ctx, path)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to load document: %v", err))
		return "", 0, &ProcessingError{Err: err}
	}

	// The first section stands in for the whole document in analysis and
	// word counts; later pages are only reachable through retrieval.
	fullText := ""
	if len(sections) > 0 {
		fullText = sections[0].Text
	}

	// 2. Split sections into chunks
	chunks, err := p.splitter.Split(ctx, sections)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to split document: %v", err))
		return "", 0, &ProcessingError{Err: err}
	}
	p.log.Info(fmt.Sprintf("Split %d sections into %d chunks", len(sections), len(chunks)))

	// 3. Tag each chunk with the owning document
	for _, chunk := range chunks {
		if chunk.Metadata == nil {
			chunk.Metadata = make(map[string]interface{})
		}
		chunk.Metadata[schema.MetadataKeyDocumentID] = docID
	}

	// 4. Build the vector index for the document
	if err := p.index.Build(ctx, docID, chunks); err != nil {
		p.log.Error(fmt.Sprintf("Failed to build vector index: %v", err))
		return "", 0, &IndexError{Err: err}
	}

	p.log.Info(fmt.Sprintf("Successfully finished ingestion for document: %s", docID))
	return fullText, len(chunks), nil
}
