// backend-go/internal/api/handlers/import_handler.go
package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/partsbridge/backend-go/internal/importer"
	"github.com/partsbridge/backend-go/internal/service"
)

type ImportHandler struct {
	importService *service.ImportService
	uploadDir     string
}

func NewImportHandler(importService *service.ImportService, uploadDir string) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		uploadDir:     uploadDir,
	}
}

// ImportProducts accepts a CSV upload plus an import mode and runs the bulk
// import synchronously, responding with the run summary.
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	mode := importer.ParseMode(c.PostForm("importMode"))

	filePath := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded file"})
		return
	}

	summary, err := h.importService.ImportFile(c.Request.Context(), filePath, mode)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("import failed")
		if rmErr := os.Remove(filePath); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", filePath).Msg("failed to remove staged import file")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// partial batch failures ride along in the summary
	c.JSON(http.StatusOK, summary)
}
