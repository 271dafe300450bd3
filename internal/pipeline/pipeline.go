package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/Brittles42/Shelfie/internal/barcode"
	"github.com/Brittles42/Shelfie/internal/models"
)

// ErrNoInput is returned when a run is started without an image, barcode,
// or title.
var ErrNoInput = errors.New("no capture input provided")

// Identifier guesses a title/author pair from a cover image.
type Identifier interface {
	Identify(ctx context.Context, imageData []byte) *models.Guess
}

// TextExtractor transcribes visible text from an image.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageData []byte) (string, error)
}

// Resolver enriches a guess or identifier with catalog metadata. All
// lookups return nil for "not found" and for transport failures alike.
type Resolver interface {
	Search(ctx context.Context, query string) *models.Metadata
	SearchTitle(ctx context.Context, title string) *models.Metadata
	LookupISBN(ctx context.Context, isbn string) *models.Metadata
}

// Strategy is one identification attempt: image in, best-effort guess out.
// A nil guess means "try the next strategy".
type Strategy func(ctx context.Context, imageData []byte) *models.Guess

// Input is the single raw input of one capture run. Exactly one of Image,
// Barcode, or Title should be set; Image may carry Barcode alongside it when
// the frame was scanned before upload.
type Input struct {
	// Image holds raw image bytes from the camera or a file upload.
	Image []byte

	// Barcode is an already-decoded barcode value, treated as an ISBN.
	Barcode string

	// Title is a manually typed search string.
	Title string

	// ScanBarcode asks the pipeline to look for an EAN-13 barcode in
	// Image before trying visual identification. Decode failure degrades
	// to the vision/OCR chain rather than aborting.
	ScanBarcode bool
}

// Pipeline turns one raw capture input into a PendingCandidate for the
// confirmation stage, or reports that nothing was found.
type Pipeline struct {
	resolver   Resolver
	strategies []Strategy
}

// New assembles the pipeline. The fallback order is fixed: vision first,
// OCR-derived search text second; a run that exhausts both still yields an
// editable manual-entry candidate when a photo is in hand.
func New(identifier Identifier, extractor TextExtractor, resolver Resolver) *Pipeline {
	p := &Pipeline{resolver: resolver}

	if identifier != nil {
		p.strategies = append(p.strategies, func(ctx context.Context, imageData []byte) *models.Guess {
			return identifier.Identify(ctx, imageData)
		})
	}
	if extractor != nil {
		p.strategies = append(p.strategies, ocrStrategy(extractor))
	}

	return p
}

// ocrStrategy transcribes the image and derives a search string from the
// first non-trivial lines. The "author" slot stays empty; the whole cleaned
// string is the query.
func ocrStrategy(extractor TextExtractor) Strategy {
	return func(ctx context.Context, imageData []byte) *models.Guess {
		text, err := extractor.ExtractText(ctx, imageData)
		if err != nil {
			slog.Warn("OCR extraction failed", "err", err)
			return nil
		}
		query := searchQueryFromText(text)
		if query == "" {
			return nil
		}
		return &models.Guess{Title: query}
	}
}

// Run executes one capture: acquire → identify → resolve. The returned
// candidate is nil only for a title search that found nothing; image inputs
// always produce a candidate, degrading to an editable placeholder so the
// user can type the title themselves.
func (p *Pipeline) Run(ctx context.Context, input Input) (*models.PendingCandidate, error) {
	switch {
	case input.Barcode != "":
		return p.runIdentifier(ctx, input.Barcode, input.Image), nil

	case len(input.Image) > 0:
		if input.ScanBarcode {
			if code, err := barcode.Decode(input.Image); err == nil {
				slog.Info("Decoded barcode from frame", "code", code)
				return p.runIdentifier(ctx, code, input.Image), nil
			} else {
				slog.Info("No barcode in frame, falling back to identification", "err", err)
			}
		}
		return p.runImage(ctx, input.Image), nil

	case strings.TrimSpace(input.Title) != "":
		return p.runTitleSearch(ctx, input.Title), nil

	default:
		return nil, ErrNoInput
	}
}

// runIdentifier resolves an ISBN-like value. A miss produces a minimal
// editable candidate carrying the identifier and any captured photo.
func (p *Pipeline) runIdentifier(ctx context.Context, code string, image []byte) *models.PendingCandidate {
	isbn := barcode.CleanISBN(code)
	if !barcode.IsValidISBN(isbn) {
		slog.Warn("Scanned value is not a valid ISBN, looking up anyway", "code", isbn)
	}

	meta := p.resolver.LookupISBN(ctx, isbn)
	if meta == nil {
		candidate := &models.PendingCandidate{
			Authors:  []string{},
			ISBN:     isbn,
			Cover:    coverFromImage(image),
			Editable: true,
		}
		return candidate
	}

	return merge(meta, image)
}

// runImage tries each identification strategy in order, then enriches the
// winning guess. No guess and no match still yields an editable candidate
// with the photo attached.
func (p *Pipeline) runImage(ctx context.Context, image []byte) *models.PendingCandidate {
	var guess *models.Guess
	for _, strategy := range p.strategies {
		if guess = strategy(ctx, image); guess != nil {
			break
		}
	}

	if guess == nil {
		return &models.PendingCandidate{
			Authors:  []string{},
			Cover:    coverFromImage(image),
			Editable: true,
		}
	}

	query := guess.Title
	if guess.Author != "" {
		query += " " + guess.Author
	}

	meta := p.resolver.Search(ctx, query)
	if meta == nil {
		// Resolution miss: keep the guess and the photo.
		candidate := &models.PendingCandidate{
			Title:   guess.Title,
			Authors: []string{},
			Cover:   coverFromImage(image),
		}
		if guess.Author != "" {
			candidate.Authors = []string{guess.Author}
		}
		return candidate
	}

	candidate := merge(meta, image)
	if candidate.Title == "" {
		candidate.Title = guess.Title
	}
	return candidate
}

// runTitleSearch handles the manual path. Unlike image capture there is
// nothing to fall back to, so a miss returns nil and the caller shows a
// "no book found" notice.
func (p *Pipeline) runTitleSearch(ctx context.Context, title string) *models.PendingCandidate {
	meta := p.resolver.SearchTitle(ctx, strings.TrimSpace(title))
	if meta == nil {
		return nil
	}
	return merge(meta, nil)
}

// merge builds a candidate from resolver output and the locally captured
// image. The photographed cover always beats a remote thumbnail: the user's
// own photo is the higher-fidelity record of their copy.
func merge(meta *models.Metadata, image []byte) *models.PendingCandidate {
	candidate := &models.PendingCandidate{
		Title:         meta.Title,
		Authors:       meta.Authors,
		PublishedDate: meta.PublishedDate,
		PageCount:     meta.PageCount,
		Description:   meta.Description,
		ISBN:          meta.ISBN,
		Categories:    meta.Categories,
		Cover:         meta.Thumbnail,
	}
	if candidate.Authors == nil {
		candidate.Authors = []string{}
	}
	if cover := coverFromImage(image); cover != "" {
		candidate.Cover = cover
	}
	return candidate
}

// coverFromImage encodes captured bytes as an inline data URI, the portable
// form the collection file stores.
func coverFromImage(image []byte) string {
	if len(image) == 0 {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
}
