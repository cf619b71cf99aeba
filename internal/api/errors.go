package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docintel/internal/registry"
)

// writeError maps service errors onto HTTP responses. Unknown documents are
// a 404 with a fixed message; everything else is a 500 carrying the cause.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, registry.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
