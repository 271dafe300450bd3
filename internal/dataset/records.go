// Package dataset reads and writes collection snapshots in portable
// formats (JSON, JSONL, YAML, Parquet) for bulk import and export.
package dataset

import (
	"time"

	"github.com/Brittles42/Shelfie/internal/models"
)

// TransferRecord is the flat interchange form of a BookRecord. Timestamps
// travel as RFC 3339 strings so every format round-trips them identically.
type TransferRecord struct {
	ID            string   `json:"id" yaml:"id" parquet:"id,optional"`
	Title         string   `json:"title" yaml:"title" parquet:"title"`
	Authors       []string `json:"authors" yaml:"authors" parquet:"authors,list"`
	Cover         string   `json:"cover,omitempty" yaml:"cover,omitempty" parquet:"cover,optional"`
	PublishedDate string   `json:"publishedDate,omitempty" yaml:"publishedDate,omitempty" parquet:"published_date,optional"`
	PageCount     int      `json:"pageCount,omitempty" yaml:"pageCount,omitempty" parquet:"page_count,optional"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty" parquet:"description,optional"`
	ISBN          string   `json:"isbn,omitempty" yaml:"isbn,omitempty" parquet:"isbn,optional"`
	Categories    []string `json:"categories,omitempty" yaml:"categories,omitempty" parquet:"categories,list"`
	AddedAt       string   `json:"addedAt,omitempty" yaml:"addedAt,omitempty" parquet:"added_at,optional"`
}

// ToBook converts a transfer record. An unparseable or missing addedAt
// leaves the zero time for the importer to fill in.
func (t TransferRecord) ToBook() models.BookRecord {
	book := models.BookRecord{
		ID:            t.ID,
		Title:         t.Title,
		Authors:       t.Authors,
		Cover:         t.Cover,
		PublishedDate: t.PublishedDate,
		PageCount:     t.PageCount,
		Description:   t.Description,
		ISBN:          t.ISBN,
		Categories:    t.Categories,
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}
	if ts, err := time.Parse(time.RFC3339, t.AddedAt); err == nil {
		book.AddedAt = ts
	}
	return book
}

// FromBook converts a BookRecord for writing.
func FromBook(book models.BookRecord) TransferRecord {
	rec := TransferRecord{
		ID:            book.ID,
		Title:         book.Title,
		Authors:       book.Authors,
		Cover:         book.Cover,
		PublishedDate: book.PublishedDate,
		PageCount:     book.PageCount,
		Description:   book.Description,
		ISBN:          book.ISBN,
		Categories:    book.Categories,
	}
	if !book.AddedAt.IsZero() {
		rec.AddedAt = book.AddedAt.Format(time.RFC3339)
	}
	return rec
}
