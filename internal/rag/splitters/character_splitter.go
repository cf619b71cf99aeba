package splitters

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"docintel/internal/rag/interfaces"
	"docintel/internal/rag/schema"
)

// separators are tried in order when looking for a natural cut point:
// paragraph break, line break, sentence end, word boundary.
var separators = []string{"\n\n", "\n", ". ", " "}

// CharacterSplitter implements the Splitter interface by cutting text into
// overlapping windows of at most ChunkSize characters, preferring natural
// boundaries over hard cuts.
type CharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewCharacterSplitter creates a new CharacterSplitter.
func NewCharacterSplitter(chunkSize, chunkOverlap int) (*CharacterSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}
	return &CharacterSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}, nil
}

// Split cuts each section into retrieval-sized chunks. Metadata is deep
// copied onto each chunk, together with the originating section ID and the
// chunk's ordinal within it.
func (s *CharacterSplitter) Split(ctx context.Context, sections []*schema.Chunk) ([]*schema.Chunk, error) {
	var chunks []*schema.Chunk

	for _, section := range sections {
		pieces := s.splitText(section.Text)
		for i, piece := range pieces {
			chunk := &schema.Chunk{
				ID:       uuid.New().String(),
				Text:     piece,
				Metadata: copyMetadata(section.Metadata),
			}
			chunk.Metadata["section_id"] = section.ID
			chunk.Metadata[schema.MetadataKeyChunkNumber] = i + 1
			chunks = append(chunks, chunk)
		}
	}

	return chunks, nil
}

// splitText produces overlapping windows over text. Sizes and offsets are
// measured in runes, never bytes, so a hard cut cannot land inside a
// multi-byte character. Each window ends at the latest separator found in
// its second half, or at the size limit when no separator qualifies.
// Windows are trimmed and empty ones dropped.
func (s *CharacterSplitter) splitText(text string) []string {
	var pieces []string
	runes := []rune(text)
	n := len(runes)
	start := 0

	for start < n {
		end := start + s.ChunkSize
		if end >= n {
			end = n
		} else {
			end = s.cutAt(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			pieces = append(pieces, piece)
		}

		if end >= n {
			break
		}
		next := end - s.ChunkOverlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return pieces
}

// cutAt returns the end position for the window starting at start. It
// prefers the last separator occurring past the window's midpoint so chunks
// stay reasonably full.
func (s *CharacterSplitter) cutAt(runes []rune, start, limit int) int {
	window := runes[start:limit]
	minCut := s.ChunkSize / 2

	for _, sep := range separators {
		sepRunes := []rune(sep)
		if i := lastIndexRunes(window, sepRunes); i >= minCut {
			return start + i + len(sepRunes)
		}
	}
	return limit
}

// lastIndexRunes returns the index of the last occurrence of needle in
// haystack, or -1 if it is not present.
func lastIndexRunes(haystack, needle []rune) int {
	for i := len(haystack) - len(needle); i >= 0; i-- {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func copyMetadata(md map[string]interface{}) map[string]interface{} {
	if md == nil {
		return make(map[string]interface{})
	}
	copied := make(map[string]interface{}, len(md))
	for k, v := range md {
		copied[k] = v
	}
	return copied
}

// compile-time check to ensure CharacterSplitter implements the Splitter interface
var _ interfaces.Splitter = (*CharacterSplitter)(nil)
