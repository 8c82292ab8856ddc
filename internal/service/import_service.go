// backend-go/internal/service/import_service.go
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/partsbridge/backend-go/internal/cache"
	"github.com/partsbridge/backend-go/internal/domain"
	"github.com/partsbridge/backend-go/internal/importer"
	"github.com/partsbridge/backend-go/internal/storage"
)

type ImportService struct {
	importer *importer.Importer
	cache    cache.CatalogCache
	archive  storage.ObjectStorage
}

func NewImportService(imp *importer.Importer, catalogCache cache.CatalogCache, archive storage.ObjectStorage) *ImportService {
	return &ImportService{
		importer: imp,
		cache:    catalogCache,
		archive:  archive,
	}
}

// ImportFile runs the import engine over a staged upload, then archives the
// file and drops the catalog cache. Archival and invalidation are best
// effort and never fail the import.
func (s *ImportService) ImportFile(ctx context.Context, path string, mode importer.Mode) (*domain.ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	summary, err := s.importer.Run(ctx, f, mode)
	if err != nil {
		return nil, err
	}

	s.archiveFile(ctx, path)
	if err := os.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove staged import file")
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate catalog cache after import")
	}

	return summary, nil
}

func (s *ImportService) archiveFile(ctx context.Context, path string) {
	if s.archive == nil {
		return
	}

	key := fmt.Sprintf("imports/%s/%s", time.Now().UTC().Format("2006-01-02"), filepath.Base(path))
	if err := s.archive.UploadFile(ctx, key, path); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to archive import file")
		return
	}

	log.Info().Str("key", key).Msg("Archived import file")
}
