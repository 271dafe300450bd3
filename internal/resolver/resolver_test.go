package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testResolver(googleURL, openLibraryURL string) *Resolver {
	return &Resolver{
		GoogleBooksURL: googleURL,
		OpenLibraryURL: openLibraryURL,
		httpClient:     &http.Client{Timeout: 5 * time.Second},
	}
}

const googleBooksHit = `{
  "items": [
    {
      "volumeInfo": {
        "title": "Pride and Prejudice",
        "authors": ["Jane Austen"],
        "publishedDate": "2003",
        "pageCount": 480,
        "description": "A classic.",
        "categories": ["Fiction"],
        "industryIdentifiers": [
          {"type": "ISBN_10", "identifier": "0141439513"},
          {"type": "ISBN_13", "identifier": "9780141439518"}
        ],
        "imageLinks": {"thumbnail": "http://books.google.com/thumb.jpg"}
      }
    }
  ]
}`

func TestSearchNormalizesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("maxResults"); got != "1" {
			t.Errorf("Expected maxResults=1, got %q", got)
		}
		if _, err := w.Write([]byte(googleBooksHit)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))
	defer server.Close()

	r := testResolver(server.URL, "")
	meta := r.Search(context.Background(), "pride and prejudice")
	if meta == nil {
		t.Fatal("Expected a match")
	}

	if meta.Title != "Pride and Prejudice" {
		t.Errorf("Expected title, got %q", meta.Title)
	}
	if meta.Thumbnail != "https://books.google.com/thumb.jpg" {
		t.Errorf("Expected https thumbnail rewrite, got %q", meta.Thumbnail)
	}
	if meta.ISBN != "9780141439518" {
		t.Errorf("Expected ISBN-13 preferred, got %q", meta.ISBN)
	}
	if meta.PageCount != 480 || meta.PublishedDate != "2003" {
		t.Errorf("Enrichment fields changed: %+v", meta)
	}
}

func TestSearchNoAuthorsNormalizesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"items":[{"volumeInfo":{"title":"Anonymous Work"}}]}`)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))
	defer server.Close()

	meta := testResolver(server.URL, "").Search(context.Background(), "anonymous")
	if meta == nil {
		t.Fatal("Expected a match")
	}
	if meta.Authors == nil {
		t.Error("Expected authors normalized to an empty slice, got nil")
	}
	if len(meta.Authors) != 0 {
		t.Errorf("Expected no authors, got %v", meta.Authors)
	}
}

func TestSearchMissAndFailuresReturnNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "no items",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"totalItems": 0}`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"items": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			if meta := testResolver(server.URL, "").Search(context.Background(), "anything"); meta != nil {
				t.Errorf("Expected nil, got %+v", meta)
			}
		})
	}
}

func TestLookupISBNPrimaryHitShortCircuits(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(googleBooksHit)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))
	defer primary.Close()

	secondaryCalls := 0
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls++
		_, _ = w.Write([]byte(`{}`))
	}))
	defer secondary.Close()

	meta := testResolver(primary.URL, secondary.URL).LookupISBN(context.Background(), "9780141439518")
	if meta == nil {
		t.Fatal("Expected a match")
	}
	if secondaryCalls != 0 {
		t.Errorf("Expected secondary catalog to be skipped, got %d calls", secondaryCalls)
	}
}

func TestLookupISBNFallsBackToOpenLibrary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{
		  "ISBN:9780141439518": {
		    "thumbnail_url": "http://covers.openlibrary.org/b/id/123-S.jpg",
		    "details": {
		      "title": "Pride and Prejudice",
		      "number_of_pages": 435,
		      "publish_date": "2003",
		      "authors": [{"name": "Jane Austen"}]
		    }
		  }
		}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))
	defer secondary.Close()

	meta := testResolver(primary.URL, secondary.URL).LookupISBN(context.Background(), "9780141439518")
	if meta == nil {
		t.Fatal("Expected a fallback match")
	}

	if meta.Title != "Pride and Prejudice" {
		t.Errorf("Expected title from Open Library, got %q", meta.Title)
	}
	if len(meta.Authors) != 1 || meta.Authors[0] != "Jane Austen" {
		t.Errorf("Expected authors [Jane Austen], got %v", meta.Authors)
	}
	if meta.Thumbnail != "https://covers.openlibrary.org/b/id/123-S.jpg" {
		t.Errorf("Expected https thumbnail rewrite, got %q", meta.Thumbnail)
	}
	if meta.ISBN != "9780141439518" {
		t.Errorf("Expected the looked-up ISBN, got %q", meta.ISBN)
	}
}

func TestLookupISBNBothMiss(t *testing.T) {
	miss := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer miss.Close()

	if meta := testResolver(miss.URL, miss.URL).LookupISBN(context.Background(), "9780141439518"); meta != nil {
		t.Errorf("Expected nil on a double miss, got %+v", meta)
	}
}

func TestEmptyQueries(t *testing.T) {
	r := New()
	if meta := r.Search(context.Background(), "  "); meta != nil {
		t.Errorf("Expected nil for empty query, got %+v", meta)
	}
	if meta := r.LookupISBN(context.Background(), ""); meta != nil {
		t.Errorf("Expected nil for empty ISBN, got %+v", meta)
	}
	if meta := r.SearchTitle(context.Background(), ""); meta != nil {
		t.Errorf("Expected nil for empty title, got %+v", meta)
	}
}
