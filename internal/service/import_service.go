package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/article-api/internal/metrics"
	"github.com/article-api/internal/models"
	"github.com/article-api/internal/repository"
	"github.com/article-api/internal/validation"
)

const (
	defaultBatchSize = 500
	maxLineSize      = 1024 * 1024
)

// importService is the concrete implementation of ImportService
type importService struct {
	repo      repository.ArticleRepository
	batchSize int
	log       zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repo repository.ArticleRepository, batchSize int, log zerolog.Logger) *importService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &importService{
		repo:      repo,
		batchSize: batchSize,
		log:       log.With().Str("service", "import").Logger(),
	}
}

// ImportArticles reads one article object per line and stores the valid ones
// in batches. Invalid lines are reported in the result and do not stop the run.
// A failed batch counts all of its rows as failed and adds one error naming
// its line range.
//
// When reading fails partway, the rows read so far are still stored and the
// partial result is returned together with the error.
func (s *importService) ImportArticles(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	start := time.Now()

	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	result := &models.ImportResult{Errors: []models.ImportError{}}
	batch := make([]models.ArticleFields, 0, s.batchSize)
	var firstLine, lastLine int

	flush := func() {
		if len(batch) == 0 {
			return
		}
		inserted, err := s.repo.BatchInsert(ctx, batch)
		if err != nil {
			s.log.Error().Err(err).Int("batch_size", len(batch)).Msg("Batch insert failed")
			result.Failed += len(batch)
			result.Errors = append(result.Errors, models.ImportError{
				Line:    firstLine,
				Field:   "batch",
				Message: fmt.Sprintf("lines %d-%d not stored: %v", firstLine, lastLine, err),
			})
		} else {
			result.Imported += inserted
		}
		batch = batch[:0]

		s.log.Debug().
			Int("imported", result.Imported).
			Float64("rows_per_sec", float64(result.Imported)/time.Since(start).Seconds()).
			Msg("Batch processed")
	}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result.TotalRecords++

		// Respect context cancellation for long-running imports
		if lineNum%10000 == 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}
		}

		var in models.ArticleInput
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, models.ImportError{
				Line:    lineNum,
				Field:   "json",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		if errs := validation.ValidateArticle(&in); len(errs) > 0 {
			result.Failed++
			for _, e := range errs {
				result.Errors = append(result.Errors, models.ImportError{
					Line:    lineNum,
					Field:   e.Field,
					Message: e.Message,
				})
			}
			continue
		}

		if len(batch) == 0 {
			firstLine = lineNum
		}
		lastLine = lineNum
		batch = append(batch, models.ArticleFields{Title: *in.Title, Author: *in.Author, Body: *in.Body})
		if len(batch) >= s.batchSize {
			flush()
		}
	}

	flush()
	result.DurationMS = time.Since(start).Milliseconds()

	if err := scanner.Err(); err != nil {
		s.log.Warn().
			Err(err).
			Int("line", lineNum+1).
			Int("imported", result.Imported).
			Msg("Article import stopped early")
		metrics.RecordArticleOperation("import", metrics.ResultBadRequest)
		return result, badRequest(fmt.Errorf("read import data after line %d: %w", lineNum, err))
	}

	s.log.Info().
		Int("total", result.TotalRecords).
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Int64("duration_ms", result.DurationMS).
		Msg("Article import completed")

	metrics.RecordArticleOperation("import", metrics.ResultSuccess)
	return result, nil
}
