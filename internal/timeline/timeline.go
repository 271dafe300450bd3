package timeline

import (
	"sort"
	"time"

	"github.com/Brittles42/Shelfie/internal/models"
)

// Group is one month's worth of additions, newest-first.
type Group struct {
	Label string              `json:"label"` // e.g. "January 2026"
	Year  int                 `json:"year"`
	Month time.Month          `json:"month"`
	Books []models.BookRecord `json:"books"`
}

// GroupByMonth buckets books by the month and year they were added. Groups
// come back newest month first, and books inside each group are sorted
// newest-first by AddedAt regardless of their order in the collection.
func GroupByMonth(books []models.BookRecord) []Group {
	if len(books) == 0 {
		return nil
	}

	sorted := make([]models.BookRecord, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AddedAt.After(sorted[j].AddedAt)
	})

	var groups []Group
	index := map[string]int{}
	for _, book := range sorted {
		label := book.AddedAt.Format("January 2006")
		i, ok := index[label]
		if !ok {
			groups = append(groups, Group{
				Label: label,
				Year:  book.AddedAt.Year(),
				Month: book.AddedAt.Month(),
			})
			i = len(groups) - 1
			index[label] = i
		}
		groups[i].Books = append(groups[i].Books, book)
	}

	return groups
}
