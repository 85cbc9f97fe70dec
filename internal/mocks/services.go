package mocks

import (
	"context"

	"github.com/article-api/internal/models"
)

// MockArticleService is a scriptable ArticleService for handler tests.
// Each Func field, when set, replaces the default behaviour.
type MockArticleService struct {
	CreateFunc        func(ctx context.Context, in *models.ArticleInput) (*models.Article, error)
	ListAllFunc       func(ctx context.Context) ([]*models.Article, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.Article, error)
	SearchByTitleFunc func(ctx context.Context, fragment string) ([]*models.Article, error)
	UpdateFunc        func(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error)
	DeleteFunc        func(ctx context.Context, id string) (*models.Article, error)

	ArticleCount int
	CountError   error

	// Last arguments seen, for assertions
	LastID       string
	LastFragment string
	LastInput    *models.ArticleInput
}

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{}
}

func (m *MockArticleService) Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error) {
	m.LastInput = in
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &models.Article{ID: 1}, nil
}

func (m *MockArticleService) ListAll(ctx context.Context) ([]*models.Article, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.LastID = id
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockArticleService) SearchByTitle(ctx context.Context, fragment string) ([]*models.Article, error) {
	m.LastFragment = fragment
	if m.SearchByTitleFunc != nil {
		return m.SearchByTitleFunc(ctx, fragment)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error) {
	m.LastID = id
	m.LastInput = in
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return &models.Article{ID: 1}, nil
}

func (m *MockArticleService) Delete(ctx context.Context, id string) (*models.Article, error) {
	m.LastID = id
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return &models.Article{ID: 1}, nil
}

func (m *MockArticleService) Count(ctx context.Context) (int, error) {
	return m.ArticleCount, m.CountError
}
