package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/config"
	"docintel/internal/rag/pipeline"
	"docintel/internal/rag/schema"
	"docintel/internal/rag/splitters"
	"docintel/internal/registry"
	"docintel/pkg/logger"
)

func testLogger() *logger.Logger {
	logger.Init(logrus.ErrorLevel)
	return logger.New("test")
}

// memoryIndex keeps built chunks per document so Search can serve them back.
type memoryIndex struct {
	chunks      map[string][]*schema.Chunk
	searchCalls int
	destroyed   []string
	destroyErr  error
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{chunks: make(map[string][]*schema.Chunk)}
}

func (m *memoryIndex) Build(ctx context.Context, docID string, chunks []*schema.Chunk) error {
	m.chunks[docID] = chunks
	return nil
}

func (m *memoryIndex) Search(ctx context.Context, docID, query string, topK int) ([]*schema.Chunk, error) {
	m.searchCalls++
	stored := m.chunks[docID]
	if len(stored) > topK {
		stored = stored[:topK]
	}
	return stored, nil
}

func (m *memoryIndex) Destroy(ctx context.Context, docID string) error {
	m.destroyed = append(m.destroyed, docID)
	if m.destroyErr != nil {
		return m.destroyErr
	}
	delete(m.chunks, docID)
	return nil
}

type staticLLM struct {
	answer string
}

func (s *staticLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return s.answer, nil
}

type testServer struct {
	router *gin.Engine
	reg    *registry.Registry
	index  *memoryIndex
	dir    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testLogger()

	splitter, err := splitters.NewCharacterSplitter(1000, 200)
	require.NoError(t, err)

	idx := newMemoryIndex()
	reg := registry.New()
	ingestion := pipeline.NewIngestionPipeline(splitter, idx, log)
	query := pipeline.NewQueryPipeline(idx, &staticLLM{answer: "the answer"}, 3, log)

	dir := t.TempDir()
	h := NewHandler(reg, ingestion, query, idx, dir, "Document Intelligence API", "1.0.0", log)
	router := SetupRouter(h, config.MiddlewareConfig{}, log)

	return &testServer{router: router, reg: reg, index: idx, dir: dir}
}

func (s *testServer) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, fileName, content string) map[string]interface{} {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := s.do(t, http.MethodPost, "/upload", body, writer.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message   string   `json:"message"`
		Version   string   `json:"version"`
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Document Intelligence API", resp.Message)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Len(t, resp.Endpoints, 5)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result": "ok"}`, w.Body.String())
}

func TestUploadAndListAndAnalyze(t *testing.T) {
	s := newTestServer(t)

	resp := s.upload(t, "sample.txt", "Go is expressive. Go is efficient.")
	docID, _ := resp["id"].(string)
	require.NotEmpty(t, docID)
	assert.Equal(t, "sample.txt", resp["name"])
	assert.Equal(t, "processed", resp["status"])
	assert.Equal(t, "0.03 KB", resp["size"])
	assert.Equal(t, float64(6), resp["word_count"])

	// The raw file is stored under the upload dir keyed by the document ID.
	_, err := os.Stat(filepath.Join(s.dir, docID+".txt"))
	assert.NoError(t, err)

	w := s.do(t, http.MethodGet, "/documents", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, docID, list[0]["id"])

	w = s.do(t, http.MethodGet, "/analyze/"+docID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var analysis map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, float64(6), analysis["word_count"])
	assert.Equal(t, float64(2), analysis["sentence_count"])
	assert.Equal(t, float64(1), analysis["paragraph_count"])
	assert.Equal(t, float64(1), analysis["reading_time"])
}

func TestListDocumentsEmpty(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/documents", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUploadMissingFile(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/upload", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")
}

func TestQueryFlow(t *testing.T) {
	s := newTestServer(t)

	resp := s.upload(t, "facts.txt", "The capital of France is Paris.")
	docID := resp["id"].(string)

	body := bytes.NewBufferString(fmt.Sprintf(`{"document_id": %q, "query": "What is the capital of France?"}`, docID))
	w := s.do(t, http.MethodPost, "/query", body, "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "the answer", out.Answer)
	assert.InDelta(t, 0.85, out.Confidence, 1e-9)
	require.NotEmpty(t, out.SourceDocuments)
	for _, src := range out.SourceDocuments {
		assert.Contains(t, src, "...")
	}
}

func TestQueryUnknownDocument(t *testing.T) {
	s := newTestServer(t)

	body := bytes.NewBufferString(`{"document_id": "ghost", "query": "anything?"}`)
	w := s.do(t, http.MethodPost, "/query", body, "application/json")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Document not found")
	assert.Zero(t, s.index.searchCalls, "unknown IDs must be rejected before retrieval")
}

func TestQueryMissingFields(t *testing.T) {
	s := newTestServer(t)

	body := bytes.NewBufferString(`{"document_id": "abc"}`)
	w := s.do(t, http.MethodPost, "/query", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeUnknownDocument(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/analyze/ghost", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Document not found")
}

func TestDeleteFlow(t *testing.T) {
	s := newTestServer(t)

	resp := s.upload(t, "bye.txt", "short lived content")
	docID := resp["id"].(string)

	w := s.do(t, http.MethodDelete, "/documents/"+docID, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Document deleted successfully")
	assert.Equal(t, []string{docID}, s.index.destroyed)

	_, err := os.Stat(filepath.Join(s.dir, docID+".txt"))
	assert.True(t, os.IsNotExist(err))

	w = s.do(t, http.MethodDelete, "/documents/"+docID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUnknownDocument(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/documents/ghost", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Document not found")
}

func TestDeletePartialFailure(t *testing.T) {
	s := newTestServer(t)

	resp := s.upload(t, "stuck.txt", "content")
	docID := resp["id"].(string)
	s.index.destroyErr = errors.New("partition busy")

	w := s.do(t, http.MethodDelete, "/documents/"+docID, nil, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "document partially deleted")
	assert.Contains(t, w.Body.String(), "vector index")

	// The registry entry is gone even though the index cleanup failed.
	_, err := s.reg.Get(docID)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}
