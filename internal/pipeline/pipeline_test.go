package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Brittles42/Shelfie/internal/models"
)

type fakeIdentifier struct {
	guess *models.Guess
	calls int
}

func (f *fakeIdentifier) Identify(ctx context.Context, imageData []byte) *models.Guess {
	f.calls++
	return f.guess
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeResolver struct {
	searchResult *models.Metadata
	titleResult  *models.Metadata
	isbnResult   *models.Metadata

	searchQueries []string
	isbnQueries   []string
}

func (f *fakeResolver) Search(ctx context.Context, query string) *models.Metadata {
	f.searchQueries = append(f.searchQueries, query)
	return f.searchResult
}

func (f *fakeResolver) SearchTitle(ctx context.Context, title string) *models.Metadata {
	return f.titleResult
}

func (f *fakeResolver) LookupISBN(ctx context.Context, isbn string) *models.Metadata {
	f.isbnQueries = append(f.isbnQueries, isbn)
	return f.isbnResult
}

var testImage = []byte("not-really-a-jpeg")

func TestRunNoInput(t *testing.T) {
	p := New(nil, nil, &fakeResolver{})

	_, err := p.Run(context.Background(), Input{})
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("Expected ErrNoInput, got %v", err)
	}
}

func TestRunResolverMissKeepsGuessAndPhoto(t *testing.T) {
	identifier := &fakeIdentifier{guess: &models.Guess{Title: "Dune", Author: "Frank Herbert"}}
	resolver := &fakeResolver{}
	p := New(identifier, &fakeExtractor{}, resolver)

	candidate, err := p.Run(context.Background(), Input{Image: testImage})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if candidate.Title != "Dune" {
		t.Errorf("Expected title Dune, got %q", candidate.Title)
	}
	if len(candidate.Authors) != 1 || candidate.Authors[0] != "Frank Herbert" {
		t.Errorf("Expected authors [Frank Herbert], got %v", candidate.Authors)
	}
	if !strings.HasPrefix(candidate.Cover, "data:image/jpeg;base64,") {
		t.Errorf("Expected candidate to keep the captured image, got %q", candidate.Cover)
	}
	if len(resolver.searchQueries) != 1 || resolver.searchQueries[0] != "Dune Frank Herbert" {
		t.Errorf("Expected search query 'Dune Frank Herbert', got %v", resolver.searchQueries)
	}
}

func TestRunPhotoBeatsThumbnail(t *testing.T) {
	identifier := &fakeIdentifier{guess: &models.Guess{Title: "Dune"}}
	resolver := &fakeResolver{searchResult: &models.Metadata{
		Title:     "Dune",
		Authors:   []string{"Frank Herbert"},
		Thumbnail: "https://books.example.com/dune.jpg",
	}}
	p := New(identifier, &fakeExtractor{}, resolver)

	candidate, err := p.Run(context.Background(), Input{Image: testImage})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.HasPrefix(candidate.Cover, "data:image/jpeg;base64,") {
		t.Errorf("Expected the captured photo to win over the thumbnail, got %q", candidate.Cover)
	}
}

func TestRunThumbnailUsedWithoutPhoto(t *testing.T) {
	resolver := &fakeResolver{titleResult: &models.Metadata{
		Title:     "Dune",
		Authors:   []string{"Frank Herbert"},
		Thumbnail: "https://books.example.com/dune.jpg",
	}}
	p := New(nil, nil, resolver)

	candidate, err := p.Run(context.Background(), Input{Title: "Dune"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if candidate.Cover != "https://books.example.com/dune.jpg" {
		t.Errorf("Expected remote thumbnail, got %q", candidate.Cover)
	}
}

func TestRunVisionMissFallsBackToOCR(t *testing.T) {
	identifier := &fakeIdentifier{guess: nil}
	extractor := &fakeExtractor{text: "THE GREAT GATSBY\nF. Scott Fitzgerald\n1925"}
	resolver := &fakeResolver{}
	p := New(identifier, extractor, resolver)

	candidate, err := p.Run(context.Background(), Input{Image: testImage})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if identifier.calls != 1 {
		t.Errorf("Expected vision to be tried first, calls=%d", identifier.calls)
	}
	if extractor.calls != 1 {
		t.Errorf("Expected OCR fallback, calls=%d", extractor.calls)
	}
	if candidate.Title != "THE GREAT GATSBY F Scott Fitzgerald" {
		t.Errorf("Unexpected OCR-derived title: %q", candidate.Title)
	}
}

func TestRunAllStrategiesMissYieldsEditableCandidate(t *testing.T) {
	identifier := &fakeIdentifier{}
	extractor := &fakeExtractor{err: errors.New("ollama unreachable")}
	p := New(identifier, extractor, &fakeResolver{})

	candidate, err := p.Run(context.Background(), Input{Image: testImage})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !candidate.Editable {
		t.Error("Expected an editable manual-entry candidate")
	}
	if candidate.Title != "" {
		t.Errorf("Expected empty title, got %q", candidate.Title)
	}
	if candidate.Cover == "" {
		t.Error("Expected the captured image to be kept for manual entry")
	}
}

func TestRunBarcodeLookup(t *testing.T) {
	resolver := &fakeResolver{isbnResult: &models.Metadata{
		Title:   "Pride and Prejudice",
		Authors: []string{"Jane Austen"},
		ISBN:    "9780141439518",
	}}
	p := New(nil, nil, resolver)

	candidate, err := p.Run(context.Background(), Input{Barcode: "978-0-14-143951-8"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if candidate.Title != "Pride and Prejudice" {
		t.Errorf("Expected resolved title, got %q", candidate.Title)
	}
	if len(resolver.isbnQueries) != 1 || resolver.isbnQueries[0] != "9780141439518" {
		t.Errorf("Expected cleaned ISBN lookup, got %v", resolver.isbnQueries)
	}
}

func TestRunBarcodeMissYieldsEditableCandidate(t *testing.T) {
	p := New(nil, nil, &fakeResolver{})

	candidate, err := p.Run(context.Background(), Input{Barcode: "9780141439518", Image: testImage})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !candidate.Editable {
		t.Error("Expected editable candidate on identifier miss")
	}
	if candidate.ISBN != "9780141439518" {
		t.Errorf("Expected ISBN to be kept, got %q", candidate.ISBN)
	}
	if candidate.Cover == "" {
		t.Error("Expected captured image to be kept")
	}
}

func TestRunTitleSearchMissReturnsNil(t *testing.T) {
	p := New(nil, nil, &fakeResolver{})

	candidate, err := p.Run(context.Background(), Input{Title: "No Such Book"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if candidate != nil {
		t.Errorf("Expected nil candidate for a title-search miss, got %+v", candidate)
	}
}
