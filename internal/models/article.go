package models

import (
	"time"
)

// Article represents an article in the system
type Article struct {
	ID      int64     `json:"id" db:"id"`
	Title   string    `json:"title" db:"title"`
	Author  string    `json:"author" db:"author"`
	Body    string    `json:"body" db:"body"`
	PubDate time.Time `json:"pub_date" db:"pub_date"`
}

// ArticleInput is the JSON payload accepted by create and update.
// Pointer fields distinguish an absent (or null) key from an empty string.
type ArticleInput struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Body   *string `json:"body"`
}

// ArticleFields carries the mutable columns of an article once presence
// has been checked. Build it with validation.NewArticleFields.
type ArticleFields struct {
	Title  string
	Author string
	Body   string
}
