package mocks

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/article-api/internal/models"
)

// MockArticleRepository is an in-memory implementation of ArticleRepository
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[int64]*models.Article
	nextID   int64

	// Per-operation failures; nil means succeed
	InsertError error
	UpdateError error
	ReadError   error
	DeleteError error

	InsertCalls int
	UpdateCalls int
	BatchCalls  int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[int64]*models.Article),
	}
}

func copyArticle(a *models.Article) *models.Article {
	c := *a
	return &c
}

func (m *MockArticleRepository) lookup(id string) (int64, bool) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	_, ok := m.Articles[key]
	return key, ok
}

func (m *MockArticleRepository) sorted(keep func(*models.Article) bool) []*models.Article {
	list := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		if keep(a) {
			list = append(list, copyArticle(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (m *MockArticleRepository) Insert(ctx context.Context, fields models.ArticleFields) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls++
	if m.InsertError != nil {
		return nil, m.InsertError
	}

	m.nextID++
	article := &models.Article{
		ID:      m.nextID,
		Title:   fields.Title,
		Author:  fields.Author,
		Body:    fields.Body,
		PubDate: time.Now().UTC(),
	}
	m.Articles[article.ID] = article
	return copyArticle(article), nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadError != nil {
		return nil, m.ReadError
	}
	key, ok := m.lookup(id)
	if !ok {
		return nil, nil
	}
	return copyArticle(m.Articles[key]), nil
}

func (m *MockArticleRepository) ListAll(ctx context.Context) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.sorted(func(*models.Article) bool { return true }), nil
}

func (m *MockArticleRepository) FindByTitleSubstring(ctx context.Context, fragment string) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadError != nil {
		return nil, m.ReadError
	}
	return m.sorted(func(a *models.Article) bool { return strings.Contains(a.Title, fragment) }), nil
}

func (m *MockArticleRepository) Update(ctx context.Context, id string, fields models.ArticleFields) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	key, ok := m.lookup(id)
	if !ok {
		return nil, nil
	}

	article := m.Articles[key]
	article.Title = fields.Title
	article.Author = fields.Author
	article.Body = fields.Body
	return copyArticle(article), nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return nil, m.DeleteError
	}
	key, ok := m.lookup(id)
	if !ok {
		return nil, nil
	}

	article := m.Articles[key]
	delete(m.Articles, key)
	return article, nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadError != nil {
		return 0, m.ReadError
	}
	return len(m.Articles), nil
}

func (m *MockArticleRepository) BatchInsert(ctx context.Context, batch []models.ArticleFields) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BatchCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}

	for _, fields := range batch {
		m.nextID++
		m.Articles[m.nextID] = &models.Article{
			ID:      m.nextID,
			Title:   fields.Title,
			Author:  fields.Author,
			Body:    fields.Body,
			PubDate: time.Now().UTC(),
		}
	}
	return len(batch), nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	m.mu.Lock()
	if m.ReadError != nil {
		m.mu.Unlock()
		return m.ReadError
	}
	list := m.sorted(func(*models.Article) bool { return true })
	m.mu.Unlock()

	for _, a := range list {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}
