package models

import (
	"encoding/json"
	"time"
)

// BookRecord is a confirmed entry in the user's collection.
type BookRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Authors       []string  `json:"authors"`
	Cover         string    `json:"cover,omitempty"` // https URL or data: URI of the captured photo
	PublishedDate string    `json:"publishedDate,omitempty"`
	PageCount     int       `json:"pageCount,omitempty"`
	Description   string    `json:"description,omitempty"`
	ISBN          string    `json:"isbn,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	AddedAt       time.Time `json:"addedAt"`

	// Extra carries fields written by a newer version of the app so a
	// load→save cycle does not drop them.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownFields are the JSON keys owned by this version of BookRecord.
var knownFields = map[string]bool{
	"id":            true,
	"title":         true,
	"authors":       true,
	"cover":         true,
	"publishedDate": true,
	"pageCount":     true,
	"description":   true,
	"isbn":          true,
	"categories":    true,
	"addedAt":       true,
}

type bookRecordAlias BookRecord

// UnmarshalJSON decodes a record, stashing unrecognized fields in Extra.
func (b *BookRecord) UnmarshalJSON(data []byte) error {
	var alias bookRecordAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if knownFields[k] {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		alias.Extra = raw
	}

	*b = BookRecord(alias)
	return nil
}

// MarshalJSON encodes a record, merging any preserved unknown fields back in.
func (b BookRecord) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(bookRecordAlias(b))
	if err != nil {
		return nil, err
	}
	if len(b.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range b.Extra {
		if !knownFields[k] {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// PendingCandidate is an unsaved, mutable guess produced mid-capture. It is
// owned by the pipeline until the confirmation stage either promotes it into
// a BookRecord or discards it.
type PendingCandidate struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Cover         string   `json:"cover,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	Description   string   `json:"description,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	Categories    []string `json:"categories,omitempty"`

	// Editable marks a candidate that never got a usable title. The
	// confirmation stage requires the user to supply one before commit.
	Editable bool `json:"editable"`
}

// Guess is a best-effort title/author identification from a cover image.
type Guess struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Metadata is a normalized partial record returned by the metadata resolver.
// Authors is never nil once normalized; enrichment fields stay zero when the
// catalog did not supply them.
type Metadata struct {
	Title         string
	Authors       []string
	Thumbnail     string
	PublishedDate string
	PageCount     int
	Description   string
	ISBN          string
	Categories    []string
}
