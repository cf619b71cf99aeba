package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docintel/internal/analyzer"
	"docintel/internal/rag/interfaces"
	"docintel/internal/rag/loaders"
	"docintel/internal/rag/pipeline"
	"docintel/internal/registry"
	"docintel/pkg/logger"
)

// Handler carries the dependencies of the HTTP endpoints.
type Handler struct {
	registry  *registry.Registry
	ingestion *pipeline.IngestionPipeline
	query     *pipeline.QueryPipeline
	index     interfaces.VectorIndex
	uploadDir string
	appName   string
	version   string
	log       *logger.Logger
}

// NewHandler creates a new Handler.
func NewHandler(
	reg *registry.Registry,
	ingestion *pipeline.IngestionPipeline,
	query *pipeline.QueryPipeline,
	index interfaces.VectorIndex,
	uploadDir, appName, version string,
	log *logger.Logger,
) *Handler {
	return &Handler{
		registry:  reg,
		ingestion: ingestion,
		query:     query,
		index:     index,
		uploadDir: uploadDir,
		appName:   appName,
		version:   version,
		log:       log,
	}
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
	Query      string `json:"query" binding:"required"`
}

// QueryResponse is the body returned by POST /query.
type QueryResponse struct {
	Answer          string   `json:"answer"`
	SourceDocuments []string `json:"source_documents"`
	Confidence      float64  `json:"confidence"`
}

// Root returns service identification and the available endpoints.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": h.appName,
		"version": h.version,
		"endpoints": []string{
			"/upload",
			"/query",
			"/documents",
			"/analyze/{document_id}",
			"/documents/{document_id}",
		},
	})
}

// Healthz is a liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

// Upload accepts a multipart file, processes it through the ingestion
// pipeline and registers the document. The registry entry is created only
// after every step succeeded.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	docID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	storedPath := filepath.Join(h.uploadDir, docID+ext)

	if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
		h.log.Error(fmt.Sprintf("Failed to save upload: %v", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if mtype, err := mimetype.DetectFile(storedPath); err == nil {
		h.log.WithPayload(map[string]interface{}{
			"document_id":  docID,
			"file_name":    fileHeader.Filename,
			"content_type": mtype.String(),
		}).Info("Received upload")
	}

	loader := loaders.ForPath(storedPath)
	fullText, chunkCount, err := h.ingestion.Run(c.Request.Context(), loader, storedPath, docID)
	if err != nil {
		// The saved raw file is left behind on purpose; it is only
		// reachable through the registry, which never saw this document.
		h.log.Error(fmt.Sprintf("Ingestion failed for %s: %v", docID, err))
		writeError(c, err)
		return
	}
	h.log.Info(fmt.Sprintf("Indexed document %s in %d chunks", docID, chunkCount))

	size := ""
	if stat, err := os.Stat(storedPath); err == nil {
		size = fmt.Sprintf("%.2f KB", float64(stat.Size())/1024)
	}

	doc := &registry.Document{
		ID:         docID,
		Name:       fileHeader.Filename,
		StoredPath: storedPath,
		UploadDate: time.Now(),
		WordCount:  len(strings.Fields(fullText)),
		Size:       size,
		Status:     registry.StatusProcessed,
		FullText:   fullText,
	}
	h.registry.Insert(doc)

	c.JSON(http.StatusOK, doc.Meta())
}

// Query answers a natural-language question against one document.
// Unknown document IDs are rejected before any index or LLM work.
func (h *Handler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.registry.Get(req.DocumentID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.query.Answer(c.Request.Context(), doc.ID, req.Query)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, QueryResponse{
		Answer:          resp.Answer,
		SourceDocuments: resp.Sources,
		Confidence:      resp.Confidence,
	})
}

// ListDocuments returns the metadata of all documents in upload order.
func (h *Handler) ListDocuments(c *gin.Context) {
	docs := h.registry.List()
	metas := make([]registry.Meta, 0, len(docs))
	for _, doc := range docs {
		metas = append(metas, doc.Meta())
	}
	c.JSON(http.StatusOK, metas)
}

// Analyze returns the statistical profile of a document's stored text.
func (h *Handler) Analyze(c *gin.Context) {
	doc, err := h.registry.Get(c.Param("document_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, analyzer.Analyze(doc.FullText))
}

// Delete removes a document. The registry entry is always removed so the
// document cannot stay queryable against destroyed backing state; failures
// to remove the index partition or the raw file are reported instead of
// silently swallowed.
func (h *Handler) Delete(c *gin.Context) {
	doc, err := h.registry.Get(c.Param("document_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var failed []string

	if err := h.index.Destroy(c.Request.Context(), doc.ID); err != nil {
		h.log.Error(fmt.Sprintf("Failed to drop index for %s: %v", doc.ID, err))
		failed = append(failed, "vector index")
	}

	if err := os.Remove(doc.StoredPath); err != nil && !os.IsNotExist(err) {
		h.log.Error(fmt.Sprintf("Failed to remove file for %s: %v", doc.ID, err))
		failed = append(failed, "stored file")
	}

	if err := h.registry.Remove(doc.ID); err != nil {
		// Concurrent delete already removed it; nothing left to do.
		h.log.Warn(fmt.Sprintf("Document %s vanished during delete", doc.ID))
	}

	if len(failed) > 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("document partially deleted: failed to remove %s", strings.Join(failed, ", ")),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
