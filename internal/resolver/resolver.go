package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Brittles42/Shelfie/internal/models"
)

// Resolver maps noisy text or identifier guesses to normalized metadata.
// Google Books is the primary catalog; the Open Library Books API is
// consulted only as a fallback for identifier lookups.
//
// Every lookup returns nil for "not found". Transport and parse failures
// collapse to the same nil result: the capture pipeline has no different
// behavior for "timed out" vs "no match", so no error crosses this boundary.
type Resolver struct {
	GoogleBooksURL string
	OpenLibraryURL string
	httpClient     *http.Client
}

// New creates a resolver against the public catalog endpoints.
func New() *Resolver {
	return &Resolver{
		GoogleBooksURL: "https://www.googleapis.com/books/v1",
		OpenLibraryURL: "https://openlibrary.org",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search runs a free-text relevance search and returns the top-ranked hit.
func (r *Resolver) Search(ctx context.Context, query string) *models.Metadata {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return r.googleBooksQuery(ctx, query)
}

// SearchTitle searches on title text only.
func (r *Resolver) SearchTitle(ctx context.Context, title string) *models.Metadata {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	return r.googleBooksQuery(ctx, "intitle:"+title)
}

// LookupISBN resolves an exact identifier: Google Books first, Open Library
// on a primary miss. The first non-empty match wins; sources are never
// merged.
func (r *Resolver) LookupISBN(ctx context.Context, isbn string) *models.Metadata {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil
	}

	if meta := r.googleBooksQuery(ctx, "isbn:"+isbn); meta != nil {
		if meta.ISBN == "" {
			meta.ISBN = isbn
		}
		return meta
	}

	slog.Info("Primary catalog miss, trying Open Library", "isbn", isbn)
	return r.openLibraryLookup(ctx, isbn)
}

// googleBooksVolume is the slice of the Google Books response we consume.
type googleBooksVolume struct {
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		PublishedDate       string   `json:"publishedDate"`
		PageCount           int      `json:"pageCount"`
		Description         string   `json:"description"`
		Categories          []string `json:"categories"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (r *Resolver) googleBooksQuery(ctx context.Context, query string) *models.Metadata {
	searchURL := fmt.Sprintf("%s/volumes?q=%s&maxResults=1", r.GoogleBooksURL, url.QueryEscape(query))

	body, err := r.get(ctx, searchURL)
	if err != nil {
		slog.Warn("Google Books lookup failed", "query", query, "err", err)
		return nil
	}

	var result struct {
		Items []googleBooksVolume `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Warn("Failed to decode Google Books response", "query", query, "err", err)
		return nil
	}
	if len(result.Items) == 0 {
		return nil
	}

	info := result.Items[0].VolumeInfo
	if info.Title == "" {
		return nil
	}

	meta := &models.Metadata{
		Title:         info.Title,
		Authors:       info.Authors,
		Thumbnail:     secureURL(info.ImageLinks.Thumbnail),
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Description:   info.Description,
		Categories:    info.Categories,
	}
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			meta.ISBN = id.Identifier
			break
		}
		if id.Type == "ISBN_10" && meta.ISBN == "" {
			meta.ISBN = id.Identifier
		}
	}

	return normalize(meta)
}

// openLibraryBook is the slice of the Open Library Books API response we
// consume, keyed by "ISBN:<isbn>".
type openLibraryBook struct {
	ThumbnailURL string `json:"thumbnail_url"`
	Details      struct {
		Title         string `json:"title"`
		Subtitle      string `json:"subtitle"`
		NumberOfPages int    `json:"number_of_pages"`
		PublishDate   string `json:"publish_date"`
		Authors       []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"details"`
}

func (r *Resolver) openLibraryLookup(ctx context.Context, isbn string) *models.Metadata {
	lookupURL := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&format=json&jscmd=details", r.OpenLibraryURL, url.QueryEscape(isbn))

	body, err := r.get(ctx, lookupURL)
	if err != nil {
		slog.Warn("Open Library lookup failed", "isbn", isbn, "err", err)
		return nil
	}

	var result map[string]openLibraryBook
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Warn("Failed to decode Open Library response", "isbn", isbn, "err", err)
		return nil
	}

	book, ok := result["ISBN:"+isbn]
	if !ok || book.Details.Title == "" {
		return nil
	}

	meta := &models.Metadata{
		Title:         book.Details.Title,
		Thumbnail:     secureURL(book.ThumbnailURL),
		PublishedDate: book.Details.PublishDate,
		PageCount:     book.Details.NumberOfPages,
		ISBN:          isbn,
	}
	if book.Details.Subtitle != "" {
		meta.Title = meta.Title + ": " + book.Details.Subtitle
	}
	for _, a := range book.Details.Authors {
		if a.Name != "" {
			meta.Authors = append(meta.Authors, a.Name)
		}
	}

	return normalize(meta)
}

func (r *Resolver) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// normalize applies the rules shared by all catalogs: authors is never nil
// and enrichment fields pass through untouched.
func normalize(meta *models.Metadata) *models.Metadata {
	if meta.Authors == nil {
		meta.Authors = []string{}
	}
	return meta
}

// secureURL rewrites an insecure thumbnail scheme to https. Google Books
// still hands out http image links.
func secureURL(u string) string {
	if strings.HasPrefix(u, "http:") {
		return "https:" + strings.TrimPrefix(u, "http:")
	}
	return u
}
