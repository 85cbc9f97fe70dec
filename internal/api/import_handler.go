package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/article-api/internal/config"
	"github.com/article-api/internal/service"
)

const defaultMaxUploadSize = 10 << 20

// ImportHandler handles bulk import
type ImportHandler struct {
	services      *service.Services
	maxUploadSize int64
	log           zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ImportHandler {
	maxSize := int64(defaultMaxUploadSize)
	if cfg != nil && cfg.Import.MaxUploadSize > 0 {
		maxSize = cfg.Import.MaxUploadSize
	}

	return &ImportHandler{
		services:      services,
		maxUploadSize: maxSize,
		log:           log.With().Str("handler", "import").Logger(),
	}
}

// ImportArticles handles POST /article/import
// Accepts an NDJSON request body or a multipart upload in the "file" field
func (h *ImportHandler) ImportArticles(c *gin.Context) {
	var body io.Reader

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
			return
		}

		if header.Size > h.maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("file too large, max size is %d MB", h.maxUploadSize/(1024*1024)),
			})
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".ndjson" && ext != ".jsonl" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "articles import requires an NDJSON file"})
			return
		}

		file, err := header.Open()
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to open uploaded file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
			return
		}
		defer file.Close()
		body = file

		h.log.Info().
			Str("file", header.Filename).
			Int64("size_bytes", header.Size).
			Msg("Import upload received")
	} else {
		body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	result, err := h.services.Import.ImportArticles(c.Request.Context(), body)
	if err != nil && result != nil && service.KindOf(err) == service.KindBadRequest {
		// Rows before the failure are already stored; report them
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         err.Error(),
			"total_records": result.TotalRecords,
			"imported":      result.Imported,
			"failed":        result.Failed,
			"errors":        result.Errors,
		})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
