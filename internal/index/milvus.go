package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"docintel/internal/database/milvus"
	"docintel/internal/embedding"
	"docintel/internal/rag/interfaces"
	"docintel/internal/rag/schema"
	"docintel/pkg/logger"
)

// MilvusIndex implements the VectorIndex interface on top of a shared
// Milvus collection, isolating each document in its own partition.
type MilvusIndex struct {
	db       *milvus.Client
	embedder embedding.Embedding
	log      *logger.Logger
}

// NewMilvusIndex creates a new MilvusIndex.
func NewMilvusIndex(db *milvus.Client, embedder embedding.Embedding, log *logger.Logger) *MilvusIndex {
	return &MilvusIndex{
		db:       db,
		embedder: embedder,
		log:      log,
	}
}

// partitionName derives the Milvus partition name from a document ID.
// Milvus partition names cannot contain hyphens.
func partitionName(docID string) string {
	return "doc_" + strings.ReplaceAll(docID, "-", "_")
}

// Build embeds the chunks and stores them in a fresh partition named after
// the document.
func (m *MilvusIndex) Build(ctx context.Context, docID string, chunks []*schema.Chunk) error {
	partition := partitionName(docID)

	texts := make([]string, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
		ids[i] = chunk.ID
	}

	var vectors [][]float32
	if len(texts) > 0 {
		var err error
		vectors, err = m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(vectors) != len(chunks) {
			return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
		}
		for i, chunk := range chunks {
			chunk.Embedding = vectors[i]
		}
	}

	if err := m.db.CreatePartition(ctx, partition); err != nil {
		return err
	}

	m.log.Info(fmt.Sprintf("Inserting %d chunks into partition %s", len(chunks), partition))
	if err := m.db.InsertBatch(ctx, partition, ids, texts, vectors); err != nil {
		return err
	}

	return nil
}

// Search embeds the query and runs a similarity search inside the
// document's partition. Results come back best first.
func (m *MilvusIndex) Search(ctx context.Context, docID, query string, topK int) ([]*schema.Chunk, error) {
	vector, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := m.db.Search(ctx, partitionName(docID), vector, topK)
	if err != nil {
		return nil, err
	}

	var chunks []*schema.Chunk
	for _, res := range results {
		findColumn := func(name string) entity.Column {
			for _, field := range res.Fields {
				if field.Name() == name {
					return field
				}
			}
			return nil
		}

		textCol, ok := findColumn(milvus.FieldText).(*entity.ColumnVarChar)
		if !ok {
			m.log.Warn("Search result is missing text field or has wrong type, skipping.")
			continue
		}
		textData := textCol.Data()

		var idData []string
		if idCol, ok := res.IDs.(*entity.ColumnVarChar); ok {
			idData = idCol.Data()
		}

		for i := 0; i < res.ResultCount; i++ {
			chunk := &schema.Chunk{
				Text:  textData[i],
				Score: res.Scores[i],
				Metadata: map[string]interface{}{
					schema.MetadataKeyDocumentID: docID,
				},
			}
			if idData != nil {
				chunk.ID = idData[i]
			}
			chunks = append(chunks, chunk)
		}
	}

	return chunks, nil
}

// Destroy drops the document's partition, removing all of its vectors.
func (m *MilvusIndex) Destroy(ctx context.Context, docID string) error {
	return m.db.DropPartition(ctx, partitionName(docID))
}

// compile-time check to ensure MilvusIndex implements the VectorIndex interface
var _ interfaces.VectorIndex = (*MilvusIndex)(nil)
