package schema

const (
	// MetadataKeyFileName is the key for the source file name.
	MetadataKeyFileName = "file_name"
	// MetadataKeyPageLabel is the key for the page number or label from the source document.
	MetadataKeyPageLabel = "page_label"
	// MetadataKeySheetName is the key for the originating spreadsheet sheet.
	MetadataKeySheetName = "sheet_name"
	// MetadataKeyDocumentID is the key for the owning document's registry ID.
	MetadataKeyDocumentID = "document_id"
	// MetadataKeyChunkNumber is the key for the chunk's position within its section.
	MetadataKeyChunkNumber = "chunk_number"
)

// Chunk is the central data structure representing a span of text and its
// associated data. Loaders emit one Chunk per page, sheet or file; the
// splitter re-cuts them to retrieval size. It is the primary data carrier
// throughout the ingestion and query pipelines.
type Chunk struct {
	// ID is the unique identifier for this chunk.
	ID string

	// Text is the string content of the chunk.
	Text string

	// Embedding is the vector representation of the text.
	Embedding []float32

	// Score is the similarity score assigned during retrieval.
	// It is zero for chunks produced by loaders and splitters.
	Score float32

	// Metadata holds arbitrary data about the chunk, such as file_name,
	// page_label or the owning document ID.
	Metadata map[string]interface{}
}
