package repository

import (
	"context"

	"github.com/article-api/internal/database"
	"github.com/article-api/internal/models"
)

// ArticleRepository defines the interface for article data operations.
// Lookups that match no row return a nil article and a nil error.
type ArticleRepository interface {
	Insert(ctx context.Context, fields models.ArticleFields) (*models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	ListAll(ctx context.Context) ([]*models.Article, error)
	FindByTitleSubstring(ctx context.Context, fragment string) ([]*models.Article, error)
	Update(ctx context.Context, id string, fields models.ArticleFields) (*models.Article, error)
	Delete(ctx context.Context, id string) (*models.Article, error)
	Count(ctx context.Context) (int, error)
	BatchInsert(ctx context.Context, batch []models.ArticleFields) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
	}
}
