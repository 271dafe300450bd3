package confirm

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Brittles42/Shelfie/internal/models"
)

// State is the confirmation stage's position in its lifecycle.
type State int

const (
	// StatePresenting shows the candidate and accepts edits.
	StatePresenting State = iota
	// StateCommitted means the candidate became a persisted BookRecord.
	StateCommitted
	// StateDiscarded means the candidate and its image were dropped.
	StateDiscarded
)

// ErrEmptyTitle rejects a commit with an empty or whitespace-only title.
// The stage stays in Presenting so the user can correct it.
var ErrEmptyTitle = errors.New("a title is required")

// ErrFinished rejects operations on a stage that already committed or
// discarded. Stages are single-use: each capture run gets a fresh one.
var ErrFinished = errors.New("confirmation already finished")

// Store is where committed records land.
type Store interface {
	Add(record models.BookRecord) error
}

// Edits are the user's changes applied at commit time. Nil fields leave the
// candidate value untouched.
type Edits struct {
	Title   *string
	Authors []string
}

// Stage is the human checkpoint between a pipeline candidate and the
// permanent collection.
type Stage struct {
	state     State
	candidate *models.PendingCandidate
	store     Store

	now   func() time.Time
	newID func() string
}

// NewStage presents candidate for confirmation.
func NewStage(candidate *models.PendingCandidate, store Store) *Stage {
	return &Stage{
		state:     StatePresenting,
		candidate: candidate,
		store:     store,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// State returns the current lifecycle state.
func (s *Stage) State() State {
	return s.state
}

// Candidate returns the presented candidate, nil once the stage finished.
func (s *Stage) Candidate() *models.PendingCandidate {
	return s.candidate
}

// Commit applies edits, promotes the candidate into a BookRecord, and hands
// it to the store. The record's ID and AddedAt are stamped here, at
// confirmation time, never at capture time.
func (s *Stage) Commit(edits Edits) (models.BookRecord, error) {
	if s.state != StatePresenting {
		return models.BookRecord{}, ErrFinished
	}

	if edits.Title != nil {
		s.candidate.Title = strings.TrimSpace(*edits.Title)
	}
	if edits.Authors != nil {
		s.candidate.Authors = edits.Authors
	}

	if strings.TrimSpace(s.candidate.Title) == "" {
		// No state transition: the user can fill in the title and retry.
		return models.BookRecord{}, ErrEmptyTitle
	}

	record := models.BookRecord{
		ID:            s.newID(),
		Title:         s.candidate.Title,
		Authors:       s.candidate.Authors,
		Cover:         s.candidate.Cover,
		PublishedDate: s.candidate.PublishedDate,
		PageCount:     s.candidate.PageCount,
		Description:   s.candidate.Description,
		ISBN:          s.candidate.ISBN,
		Categories:    s.candidate.Categories,
		AddedAt:       s.now(),
	}
	if record.Authors == nil {
		record.Authors = []string{}
	}

	if err := s.store.Add(record); err != nil {
		return models.BookRecord{}, fmt.Errorf("failed to save book: %w", err)
	}

	s.state = StateCommitted
	s.candidate = nil
	slog.Info("Book added to collection", "id", record.ID, "title", record.Title)
	return record, nil
}

// Cancel discards the candidate and its captured image. No store mutation
// occurs on this path.
func (s *Stage) Cancel() {
	if s.state != StatePresenting {
		return
	}
	s.state = StateDiscarded
	s.candidate = nil
}
