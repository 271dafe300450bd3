package dataset

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Brittles42/Shelfie/internal/models"
)

func sampleRecords() []TransferRecord {
	return []TransferRecord{
		{
			ID:            "1",
			Title:         "Dune",
			Authors:       []string{"Frank Herbert"},
			PublishedDate: "1965",
			PageCount:     412,
			ISBN:          "9780441172719",
			AddedAt:       "2026-03-14T09:26:53Z",
		},
		{
			Title:   "Anonymous Pamphlet",
			Authors: []string{},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "json", file: "books.json"},
		{name: "jsonl", file: "books.jsonl"},
		{name: "yaml", file: "books.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			records := sampleRecords()

			if err := Save(path, records); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if len(loaded) != len(records) {
				t.Fatalf("Expected %d records, got %d", len(records), len(loaded))
			}
			if loaded[0].Title != "Dune" || loaded[0].AddedAt != "2026-03-14T09:26:53Z" {
				t.Errorf("First record changed: %+v", loaded[0])
			}
			if loaded[1].Title != "Anonymous Pamphlet" {
				t.Errorf("Second record changed: %+v", loaded[1])
			}
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("books.csv"); err == nil {
		t.Error("Expected an error for unsupported format")
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	if err := Save("books.parquet", nil); err == nil {
		t.Error("Expected an error for unsupported export format")
	}
}

func TestToBook(t *testing.T) {
	rec := TransferRecord{
		Title:   "Dune",
		AddedAt: "2026-03-14T09:26:53Z",
	}

	book := rec.ToBook()
	want := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	if !book.AddedAt.Equal(want) {
		t.Errorf("Expected addedAt %v, got %v", want, book.AddedAt)
	}
	if book.Authors == nil {
		t.Error("Expected authors normalized to an empty slice")
	}
}

func TestToBookBadTimestamp(t *testing.T) {
	book := TransferRecord{Title: "Dune", AddedAt: "yesterday"}.ToBook()
	if !book.AddedAt.IsZero() {
		t.Errorf("Expected zero time for unparseable addedAt, got %v", book.AddedAt)
	}
}

func TestFromBookRoundTrip(t *testing.T) {
	added := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	book := models.BookRecord{
		ID:      "1",
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
		AddedAt: added,
	}

	got := FromBook(book).ToBook()
	if got.ID != book.ID || got.Title != book.Title {
		t.Errorf("Round trip changed fields: %+v", got)
	}
	if !got.AddedAt.Equal(added) {
		t.Errorf("Round trip changed addedAt: %v", got.AddedAt)
	}
}
