package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/article-api/internal/api"
	"github.com/article-api/internal/config"
	"github.com/article-api/internal/mocks"
	"github.com/article-api/internal/models"
	"github.com/article-api/internal/repository"
	"github.com/article-api/internal/service"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(ctx context.Context) error { return f.err }

type fakePool struct {
	fakeHealth
	stats sql.DBStats
}

func (f fakePool) Stats() sql.DBStats { return f.stats }

func setupMockRouter() (*gin.Engine, *mocks.MockArticleService) {
	gin.SetMode(gin.TestMode)

	mockArticle := mocks.NewMockArticleService()
	services := &service.Services{Article: mockArticle}

	cfg := &config.Config{Server: config.ServerConfig{Port: "5000"}}
	router := api.NewRouter(services, fakeHealth{}, cfg, zerolog.Nop())

	return router, mockArticle
}

func setupRouter() (*gin.Engine, *mocks.MockArticleRepository) {
	gin.SetMode(gin.TestMode)

	repo := mocks.NewMockArticleRepository()
	services := service.NewServices(&repository.Repositories{Article: repo}, nil, zerolog.Nop())
	router := api.NewRouter(services, nil, nil, zerolog.Nop())

	return router, repo
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", w.Body.String(), err)
	}
	if len(response) != 1 {
		t.Errorf("Expected a single error field, got %v", response)
	}
	return response["error"]
}

func createArticle(t *testing.T, router http.Handler, title, author, body string) models.Article {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/article/create", map[string]string{
		"title": title, "author": author, "body": body,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var article models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &article); err != nil {
		t.Fatalf("Failed to decode article: %v", err)
	}
	return article
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupMockRouter()

	w := doRequest(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "article-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	services := &service.Services{Article: mocks.NewMockArticleService()}
	router := api.NewRouter(services, fakeHealth{err: errors.New("dial tcp: refused")}, nil, zerolog.Nop())

	w := doRequest(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	router, _ := setupMockRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("Expected propagated request id, got %q", got)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router, mockArticle := setupMockRouter()
	mockArticle.ArticleCount = 12

	w := doRequest(router, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	db := response["database"].(map[string]interface{})
	if db["articles"].(float64) != 12 {
		t.Errorf("Expected 12 articles, got %v", db["articles"])
	}
	if _, ok := db["pool"]; ok {
		t.Error("Expected no pool stats without a pooled database")
	}
}

func TestStatsEndpoint_PoolStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockArticle := mocks.NewMockArticleService()
	services := &service.Services{Article: mockArticle}
	pool := fakePool{stats: sql.DBStats{MaxOpenConnections: 25, OpenConnections: 3, InUse: 1, Idle: 2}}
	router := api.NewRouter(services, pool, nil, zerolog.Nop())

	w := doRequest(router, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Database struct {
			Pool struct {
				MaxOpen int `json:"max_open_connections"`
				Open    int `json:"open_connections"`
				InUse   int `json:"in_use"`
				Idle    int `json:"idle"`
			} `json:"pool"`
		} `json:"database"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	p := response.Database.Pool
	if p.MaxOpen != 25 || p.Open != 3 || p.InUse != 1 || p.Idle != 2 {
		t.Errorf("Unexpected pool stats: %+v", p)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupMockRouter()
	doRequest(router, http.MethodGet, "/article/all", nil)

	w := doRequest(router, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`http_requests_total{method="GET",path="/article/all",status="200"}`)) {
		t.Error("Expected request counter for /article/all")
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupMockRouter()

	w := doRequest(router, http.MethodOptions, "/article/create", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Expected CORS headers")
	}
}

func TestErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"bad request", &service.Error{Kind: service.KindBadRequest, Message: "missing required field: title"}, http.StatusBadRequest, "missing required field: title"},
		{"not found", &service.Error{Kind: service.KindNotFound, Message: "no article found with the id 9"}, http.StatusNotFound, "no article found with the id 9"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockArticle := setupMockRouter()
			mockArticle.GetByIDFunc = func(ctx context.Context, id string) (*models.Article, error) {
				return nil, tt.err
			}

			w := doRequest(router, http.MethodGet, "/article/9", nil)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := decodeError(t, w); got != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, got)
			}
		})
	}
}

func TestPanicIsRecovered(t *testing.T) {
	router, mockArticle := setupMockRouter()
	mockArticle.ListAllFunc = func(ctx context.Context) ([]*models.Article, error) {
		panic("boom")
	}

	w := doRequest(router, http.MethodGet, "/article/all", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if got := decodeError(t, w); got != "internal server error" {
		t.Errorf("Unexpected error message %q", got)
	}
}

func TestRoutesPassPathParameters(t *testing.T) {
	router, mockArticle := setupMockRouter()

	doRequest(router, http.MethodGet, "/article/search/title/Go%20Tips", nil)
	if mockArticle.LastFragment != "Go Tips" {
		t.Errorf("Expected fragment 'Go Tips', got %q", mockArticle.LastFragment)
	}

	doRequest(router, http.MethodPut, "/article/update/abc", map[string]string{"title": "t", "author": "a", "body": "b"})
	if mockArticle.LastID != "abc" {
		t.Errorf("Expected id 'abc', got %q", mockArticle.LastID)
	}
	if mockArticle.LastInput == nil || *mockArticle.LastInput.Title != "t" {
		t.Errorf("Expected decoded input, got %+v", mockArticle.LastInput)
	}

	doRequest(router, http.MethodDelete, "/article/delete/17", nil)
	if mockArticle.LastID != "17" {
		t.Errorf("Expected id '17', got %q", mockArticle.LastID)
	}
}

func TestCreateArticle(t *testing.T) {
	router, _ := setupRouter()
	start := time.Now().Add(-time.Second)

	first := createArticle(t, router, "First", "Ann", "Hello")
	second := createArticle(t, router, "Second", "Ben", "World")

	if first.ID == 0 || first.ID == second.ID {
		t.Errorf("Expected distinct non-zero ids, got %d and %d", first.ID, second.ID)
	}
	if first.PubDate.Before(start) {
		t.Errorf("Expected pub_date after %v, got %v", start, first.PubDate)
	}
	if first.Title != "First" || first.Author != "Ann" || first.Body != "Hello" {
		t.Errorf("Unexpected article: %+v", first)
	}
}

func TestCreateArticle_ResponseShape(t *testing.T) {
	router, _ := setupRouter()

	w := doRequest(router, http.MethodPost, "/article/create", map[string]string{
		"title": "T", "author": "A", "body": "B",
	})

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	for _, key := range []string{"id", "title", "author", "body", "pub_date"} {
		if _, ok := response[key]; !ok {
			t.Errorf("Expected key %q in response %v", key, response)
		}
	}
	if len(response) != 5 {
		t.Errorf("Expected exactly 5 keys, got %d", len(response))
	}
}

func TestCreateArticle_MissingField(t *testing.T) {
	payloads := map[string]map[string]string{
		"title":  {"author": "A", "body": "B"},
		"author": {"title": "T", "body": "B"},
		"body":   {"title": "T", "author": "A"},
	}

	for field, payload := range payloads {
		t.Run(field, func(t *testing.T) {
			router, repo := setupRouter()

			w := doRequest(router, http.MethodPost, "/article/create", payload)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
			if msg := decodeError(t, w); msg != "missing required field: "+field {
				t.Errorf("Unexpected error message %q", msg)
			}
			if len(repo.Articles) != 0 {
				t.Errorf("Expected nothing persisted, got %d articles", len(repo.Articles))
			}
		})
	}
}

func TestCreateArticle_InvalidBody(t *testing.T) {
	router, _ := setupRouter()

	w := doRequest(router, http.MethodPost, "/article/create", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	decodeError(t, w)
}

func TestCreateArticle_StorageFailure(t *testing.T) {
	router, repo := setupRouter()
	repo.InsertError = errors.New("insert article: database is locked")

	w := doRequest(router, http.MethodPost, "/article/create", map[string]string{
		"title": "T", "author": "A", "body": "B",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "insert article: database is locked" {
		t.Errorf("Expected storage message, got %q", msg)
	}
}

func TestListAllArticles(t *testing.T) {
	router, _ := setupRouter()

	w := doRequest(router, http.MethodGet, "/article/all", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body := bytes.TrimSpace(w.Body.Bytes()); string(body) != "[]" {
		t.Errorf("Expected empty JSON array, got %s", body)
	}

	titles := map[string]bool{"a": true, "b": true, "c": true}
	for title := range titles {
		createArticle(t, router, title, "x", "y")
	}

	w = doRequest(router, http.MethodGet, "/article/all", nil)
	var articles []models.Article
	json.Unmarshal(w.Body.Bytes(), &articles)

	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(articles))
	}
	ids := map[int64]bool{}
	for _, a := range articles {
		if !titles[a.Title] {
			t.Errorf("Unexpected title %q", a.Title)
		}
		if ids[a.ID] {
			t.Errorf("Duplicate id %d", a.ID)
		}
		ids[a.ID] = true
	}
}

func TestGetArticle(t *testing.T) {
	router, _ := setupRouter()
	created := createArticle(t, router, "Title", "Author", "Body")

	w := doRequest(router, http.MethodGet, "/article/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got models.Article
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.ID != created.ID || got.Title != created.Title || !got.PubDate.Equal(created.PubDate) {
		t.Errorf("Expected %+v, got %+v", created, got)
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	router, _ := setupRouter()

	w := doRequest(router, http.MethodGet, "/article/12345", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "no article found with the id 12345" {
		t.Errorf("Unexpected error message %q", msg)
	}
}

func TestSearchByTitle(t *testing.T) {
	router, _ := setupRouter()
	createArticle(t, router, "Learning Go", "x", "y")
	createArticle(t, router, "Go Concurrency", "x", "y")
	createArticle(t, router, "Rust Basics", "x", "y")

	w := doRequest(router, http.MethodGet, "/article/search/title/Go", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var articles []models.Article
	json.Unmarshal(w.Body.Bytes(), &articles)
	if len(articles) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(articles))
	}
	for _, a := range articles {
		if a.Title == "Rust Basics" {
			t.Error("Non-matching article returned")
		}
	}
}

func TestSearchByTitle_NoMatchIsNotFound(t *testing.T) {
	router, _ := setupRouter()
	createArticle(t, router, "Learning Go", "x", "y")

	w := doRequest(router, http.MethodGet, "/article/search/title/Haskell", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "no article found with the title Haskell" {
		t.Errorf("Unexpected error message %q", msg)
	}
}

func TestUpdateArticle(t *testing.T) {
	router, _ := setupRouter()
	created := createArticle(t, router, "Old", "Old Author", "Old Body")

	w := doRequest(router, http.MethodPut, "/article/update/1", map[string]string{
		"title": "New", "author": "New Author", "body": "New Body",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Article
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.ID != created.ID {
		t.Errorf("Expected id %d unchanged, got %d", created.ID, updated.ID)
	}
	if !updated.PubDate.Equal(created.PubDate) {
		t.Errorf("Expected pub_date %v unchanged, got %v", created.PubDate, updated.PubDate)
	}
	if updated.Title != "New" || updated.Author != "New Author" || updated.Body != "New Body" {
		t.Errorf("Fields not updated: %+v", updated)
	}
}

func TestUpdateArticle_Errors(t *testing.T) {
	router, _ := setupRouter()
	createArticle(t, router, "Title", "Author", "Body")

	w := doRequest(router, http.MethodPut, "/article/update/999", map[string]string{
		"title": "t", "author": "a", "body": "b",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	w = doRequest(router, http.MethodPut, "/article/update/1", map[string]string{"title": "t"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "missing required field: author" {
		t.Errorf("Unexpected error message %q", msg)
	}
}

func TestDeleteArticle(t *testing.T) {
	router, _ := setupRouter()
	created := createArticle(t, router, "Doomed", "Author", "Body")

	w := doRequest(router, http.MethodDelete, "/article/delete/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var deleted models.Article
	json.Unmarshal(w.Body.Bytes(), &deleted)
	if deleted.ID != created.ID || deleted.Title != "Doomed" || !deleted.PubDate.Equal(created.PubDate) {
		t.Errorf("Expected prior state %+v, got %+v", created, deleted)
	}

	w = doRequest(router, http.MethodGet, "/article/1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}

	w = doRequest(router, http.MethodDelete, "/article/delete/1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "no article found with id 1" {
		t.Errorf("Unexpected error message %q", msg)
	}
}
