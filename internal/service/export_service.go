package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/article-api/internal/metrics"
	"github.com/article-api/internal/models"
	"github.com/article-api/internal/repository"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// ValidExportFormat reports whether format is supported by StreamArticles
func ValidExportFormat(format string) bool {
	return format == FormatNDJSON || format == FormatJSON || format == FormatCSV
}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repo repository.ArticleRepository
	log  zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repo repository.ArticleRepository, log zerolog.Logger) *exportService {
	return &exportService{
		repo: repo,
		log:  log.With().Str("service", "export").Logger(),
	}
}

// StreamArticles streams articles in the specified format
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting articles export")

	var err error
	switch format {
	case FormatNDJSON:
		err = s.streamNDJSON(ctx, w)
	case FormatJSON:
		err = s.streamJSON(ctx, w)
	case FormatCSV:
		err = s.streamCSV(ctx, w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.RecordArticleOperation("export", result)
	return err
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repo.StreamAll(ctx, func(article *models.Article) error {
		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Articles export completed")
	return err
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.json")

	w.Write([]byte("["))
	first := true

	err := s.repo.StreamAll(ctx, func(article *models.Article) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	return err
}

func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"id", "title", "author", "body", "pub_date"})

	return s.repo.StreamAll(ctx, func(article *models.Article) error {
		return writer.Write([]string{
			strconv.FormatInt(article.ID, 10),
			article.Title,
			article.Author,
			article.Body,
			article.PubDate.UTC().Format(time.RFC3339Nano),
		})
	})
}
