package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/article-api/internal/metrics"
	"github.com/article-api/internal/models"
	"github.com/article-api/internal/repository"
	"github.com/article-api/internal/validation"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo repository.ArticleRepository
	log  zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repo repository.ArticleRepository, log zerolog.Logger) *articleService {
	return &articleService{
		repo: repo,
		log:  log.With().Str("service", "article").Logger(),
	}
}

// Create validates the payload and stores a new article.
// Storage failures are logged and surfaced as BadRequest with the storage message.
func (s *articleService) Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error) {
	fields, err := validation.NewArticleFields(in)
	if err != nil {
		metrics.RecordArticleOperation("create", metrics.ResultBadRequest)
		return nil, badRequest(err)
	}

	article, err := s.repo.Insert(ctx, fields)
	if err != nil {
		s.log.Error().Err(err).Str("title", fields.Title).Msg("Failed to create article")
		metrics.RecordArticleOperation("create", metrics.ResultBadRequest)
		return nil, badRequest(err)
	}

	s.log.Info().Int64("article_id", article.ID).Msg("Article created")
	metrics.RecordArticleOperation("create", metrics.ResultSuccess)
	return article, nil
}

// ListAll returns every article; an empty store yields an empty slice
func (s *articleService) ListAll(ctx context.Context) ([]*models.Article, error) {
	articles, err := s.repo.ListAll(ctx)
	if err != nil {
		metrics.RecordArticleOperation("list", metrics.ResultError)
		return nil, err
	}
	if articles == nil {
		articles = []*models.Article{}
	}

	metrics.RecordArticleOperation("list", metrics.ResultSuccess)
	return articles, nil
}

// GetByID looks an article up by its path id
func (s *articleService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.RecordArticleOperation("get", metrics.ResultError)
		return nil, err
	}
	if article == nil {
		metrics.RecordArticleOperation("get", metrics.ResultNotFound)
		return nil, notFound("no article found with the id %s", id)
	}

	metrics.RecordArticleOperation("get", metrics.ResultSuccess)
	return article, nil
}

// SearchByTitle returns articles whose title contains fragment.
// No match is reported as NotFound rather than an empty list.
func (s *articleService) SearchByTitle(ctx context.Context, fragment string) ([]*models.Article, error) {
	articles, err := s.repo.FindByTitleSubstring(ctx, fragment)
	if err != nil {
		metrics.RecordArticleOperation("search", metrics.ResultError)
		return nil, err
	}
	if len(articles) == 0 {
		metrics.RecordArticleOperation("search", metrics.ResultNotFound)
		return nil, notFound("no article found with the title %s", fragment)
	}

	metrics.RecordArticleOperation("search", metrics.ResultSuccess)
	return articles, nil
}

// Update replaces title, author and body of an existing article
func (s *articleService) Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error) {
	fields, err := validation.NewArticleFields(in)
	if err != nil {
		metrics.RecordArticleOperation("update", metrics.ResultBadRequest)
		return nil, badRequest(err)
	}

	article, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		s.log.Error().Err(err).Str("article_id", id).Msg("Failed to update article")
		metrics.RecordArticleOperation("update", metrics.ResultBadRequest)
		return nil, badRequest(err)
	}
	if article == nil {
		metrics.RecordArticleOperation("update", metrics.ResultNotFound)
		return nil, notFound("no article found with the id %s", id)
	}

	s.log.Info().Int64("article_id", article.ID).Msg("Article updated")
	metrics.RecordArticleOperation("update", metrics.ResultSuccess)
	return article, nil
}

// Delete removes an article and returns its last state
func (s *articleService) Delete(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repo.Delete(ctx, id)
	if err != nil {
		metrics.RecordArticleOperation("delete", metrics.ResultError)
		return nil, err
	}
	if article == nil {
		metrics.RecordArticleOperation("delete", metrics.ResultNotFound)
		return nil, notFound("no article found with id %s", id)
	}

	s.log.Info().Int64("article_id", article.ID).Msg("Article deleted")
	metrics.RecordArticleOperation("delete", metrics.ResultSuccess)
	return article, nil
}

// Count returns the number of stored articles
func (s *articleService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
