package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/article-api/internal/config"
	"github.com/article-api/internal/database"
	"github.com/article-api/internal/models"
)

const articleColumns = "id, title, author, body, pub_date"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	err := row.Scan(&article.ID, &article.Title, &article.Author, &article.Body, timestamp{&article.PubDate})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// parseID converts a path id into the integer key. Anything that is not a
// base-10 integer cannot identify a row.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil
}

// Insert adds a new article; id and pub_date are assigned by the database
func (r *articleRepo) Insert(ctx context.Context, fields models.ArticleFields) (*models.Article, error) {
	query := r.db.Rebind(`
		INSERT INTO articles (title, author, body)
		VALUES ($1, $2, $3)
		RETURNING ` + articleColumns)

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, fields.Title, fields.Author, fields.Body))
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return article, nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	query := r.db.Rebind(`SELECT ` + articleColumns + ` FROM articles WHERE id = $1`)

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return article, nil
}

// ListAll returns every article in insertion order
func (r *articleRepo) ListAll(ctx context.Context) ([]*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY id`

	articles, err := r.queryArticles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// FindByTitleSubstring returns the articles whose title contains fragment.
// LIKE wildcards in the fragment are matched literally.
func (r *articleRepo) FindByTitleSubstring(ctx context.Context, fragment string) ([]*models.Article, error) {
	query := r.db.Rebind(`
		SELECT ` + articleColumns + `
		FROM articles
		WHERE title LIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY id`)

	articles, err := r.queryArticles(ctx, query, likeEscaper.Replace(fragment))
	if err != nil {
		return nil, fmt.Errorf("search articles by title: %w", err)
	}
	return articles, nil
}

// Update replaces title, author and body; id and pub_date are left untouched
func (r *articleRepo) Update(ctx context.Context, id string, fields models.ArticleFields) (*models.Article, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	query := r.db.Rebind(`
		UPDATE articles
		SET title = $1, author = $2, body = $3
		WHERE id = $4
		RETURNING ` + articleColumns)

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, fields.Title, fields.Author, fields.Body, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return article, nil
}

// Delete removes an article and returns the row as it was before removal
func (r *articleRepo) Delete(ctx context.Context, id string) (*models.Article, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	query := r.db.Rebind(`DELETE FROM articles WHERE id = $1 RETURNING ` + articleColumns)

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}
	return article, nil
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

// BatchInsert inserts a batch of articles in one transaction; either every
// row is stored or none is. PostgreSQL uses COPY, SQLite a prepared INSERT.
func (r *articleRepo) BatchInsert(ctx context.Context, batch []models.ArticleFields) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("batch insert articles: %w", err)
	}
	defer tx.Rollback()

	useCopy := r.db.Driver() == config.DriverPostgres

	var stmt *sql.Stmt
	if useCopy {
		stmt, err = tx.PrepareContext(ctx, pq.CopyIn("articles", "title", "author", "body"))
	} else {
		stmt, err = tx.PrepareContext(ctx, r.db.Rebind(`INSERT INTO articles (title, author, body) VALUES ($1, $2, $3)`))
	}
	if err != nil {
		return 0, fmt.Errorf("batch insert articles: %w", err)
	}

	for _, fields := range batch {
		if _, err := stmt.ExecContext(ctx, fields.Title, fields.Author, fields.Body); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("batch insert articles: %w", err)
		}
	}

	// Flush buffered COPY data
	if useCopy {
		if _, err := stmt.ExecContext(ctx); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("batch insert articles: %w", err)
		}
	}

	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("batch insert articles: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("batch insert articles: %w", err)
	}

	return len(batch), nil
}

// StreamAll streams all articles for export (memory efficient)
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY id`)
	if err != nil {
		return fmt.Errorf("stream articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return fmt.Errorf("stream articles: %w", err)
		}
		if err := callback(article); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *articleRepo) queryArticles(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}
