package service

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/article-api/internal/config"
	"github.com/article-api/internal/models"
	"github.com/article-api/internal/repository"
)

// ArticleService defines the article operations exposed over HTTP.
// Errors of type *Error carry a kind; anything else is an internal failure.
type ArticleService interface {
	Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error)
	ListAll(ctx context.Context) ([]*models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	SearchByTitle(ctx context.Context, fragment string) ([]*models.Article, error)
	Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, id string) (*models.Article, error)
	Count(ctx context.Context) (int, error)
}

// ImportService defines bulk import operations
type ImportService interface {
	ImportArticles(ctx context.Context, r io.Reader) (*models.ImportResult, error)
}

// ExportService defines streaming export operations
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Import  ImportService
	Export  ExportService
}

// NewServices creates all services. A nil cfg selects the default import settings.
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	batchSize := 0
	if cfg != nil {
		batchSize = cfg.Import.BatchSize
	}

	return &Services{
		Article: newArticleService(repos.Article, log),
		Import:  newImportService(repos.Article, batchSize, log),
		Export:  newExportService(repos.Article, log),
	}
}
