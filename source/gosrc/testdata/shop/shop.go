// Package shop is a bookstore API used by the gosrc tests.
package shop

import (
	"context"
	"time"

	"github.com/broady/apischema/api"
)

// BookDetail loads a book with its authors.
var BookDetail = api.NewFetcher[Book]("BookDetail", "id", "title", "authors")

// BookService manages books.
//
//api:service public,admin
type BookService struct{}

// FindBook returns a book.
//
//api:operation admin
//api:fetchby return BookDetail
//api:throws BookError
func (s *BookService) FindBook(ctx context.Context, id int64) (*Book, error) {
	return nil, nil
}

// ListBooks lists books with an optional tag.
//
//api:operation
//api:default limit
func (s *BookService) ListBooks(ctx context.Context, tag api.Optional[string], limit int) ([]Book, error) {
	return nil, nil
}

// Pair has no schema form.
func (s *BookService) Pair() (int, string) {
	return 0, ""
}

// Book is a book.
//
//api:entity
type Book struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	// Authors wrote the book.
	Authors []*Author `json:"authors,omitempty"`

	Secret   string `json:"-"`
	internal int

	Audit

	Published time.Time `json:"published"`
	Format    Format    `json:"format"`
}

// Audit carries timestamps.
type Audit struct {
	Created time.Time `json:"created"`
}

// Author writes books.
type Author struct {
	Name string `json:"name"`
}

// Format is a book format.
type Format string

const (
	// Hardcover is bound in boards.
	Hardcover Format = "hardcover"
	Paperback Format = "paperback"
)

// BookError is any error about a book.
//
//api:exception subtypes=NotFound
type BookError struct {
	api.CodeError
}

// NotFound reports a missing book.
//
//api:exception code=NOT_FOUND
type NotFound struct {
	api.CodeError
}

// Page is a page of rows.
type Page[E any] struct {
	Rows  []E `json:"rows"`
	Total int `json:"total"`
}

// Catalog searches books.
//
//api:service
type Catalog interface {
	// Search finds books by query.
	//
	//api:operation
	Search(ctx context.Context, q string) (Page[Book], error)
}
