package validation

import (
	"errors"
	"fmt"

	"github.com/article-api/internal/models"
)

// ErrMissingField is wrapped by every presence failure
var ErrMissingField = errors.New("missing required field")

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets callers match ErrMissingField with errors.Is
func (e *ValidationError) Unwrap() error {
	return ErrMissingField
}

func missing(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s: %s", ErrMissingField, field),
	}
}

// ValidateArticle returns one error per required key absent from the
// payload, in title, author, body order. Empty strings are present.
func ValidateArticle(in *models.ArticleInput) []ValidationError {
	if in == nil {
		return []ValidationError{*missing("title"), *missing("author"), *missing("body")}
	}

	var errs []ValidationError
	if in.Title == nil {
		errs = append(errs, *missing("title"))
	}
	if in.Author == nil {
		errs = append(errs, *missing("author"))
	}
	if in.Body == nil {
		errs = append(errs, *missing("body"))
	}
	return errs
}

// NewArticleFields builds the validated field set for a write, failing on
// the first missing key.
func NewArticleFields(in *models.ArticleInput) (models.ArticleFields, error) {
	if errs := ValidateArticle(in); len(errs) > 0 {
		return models.ArticleFields{}, &errs[0]
	}

	return models.ArticleFields{
		Title:  *in.Title,
		Author: *in.Author,
		Body:   *in.Body,
	}, nil
}
