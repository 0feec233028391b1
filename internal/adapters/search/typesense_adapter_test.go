package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypesenseSort(t *testing.T) {
	tests := []struct {
		name     string
		sort     string
		expected string
	}{
		{"default", "", "popularity:desc"},
		{"ascending field", "name", "name:asc"},
		{"descending field", "-popularity", "popularity:desc"},
		{"mixed", "-popularity,name", "popularity:desc,name:asc"},
		{"whitespace and empties", " -popularity , ,name ", "popularity:desc,name:asc"},
		{"only separators", ", ,", "popularity:desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, typesenseSort(tt.sort))
		})
	}
}
