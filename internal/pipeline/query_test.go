package pipeline

import "testing"

func TestSearchQueryFromText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "title and author lines",
			text:     "THE HOBBIT\nJ.R.R. Tolkien\nHoughton Mifflin",
			expected: "THE HOBBIT J R R Tolkien Houghton Mifflin",
		},
		{
			name:     "skips digit-only and punctuation lines",
			text:     "1965\n***\nDune\nFrank Herbert",
			expected: "Dune Frank Herbert",
		},
		{
			name:     "skips short lines",
			text:     "by\nA Tale of Two Cities",
			expected: "A Tale of Two Cities",
		},
		{
			name:     "collapses whitespace and strips symbols",
			text:     "  The   Great\tGatsby!!  ",
			expected: "The Great Gatsby",
		},
		{
			name:     "limits to first three usable lines",
			text:     "One Flew\nOver The\nCuckoos Nest\nKen Kesey\nPenguin",
			expected: "One Flew Over The Cuckoos Nest",
		},
		{
			name:     "empty text",
			text:     "",
			expected: "",
		},
		{
			name:     "nothing usable",
			text:     "42\n--\n!!\n7",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := searchQueryFromText(tt.text)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}
