package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedVocabulary(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		want   []string
	}{
		{
			name:   "empty",
			counts: map[string]int{},
			want:   []string{},
		},
		{
			name:   "by frequency",
			counts: map[string]int{"Ideas": 1, "Recetas": 4, "Trabajo": 2},
			want:   []string{"Recetas", "Trabajo", "Ideas"},
		},
		{
			name:   "ties alphabetical",
			counts: map[string]int{"viajes": 2, "Compras": 2, "libros": 2},
			want:   []string{"Compras", "libros", "viajes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortedVocabulary(tt.counts))
		})
	}
}

func TestCleanTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanTags([]string{" a", "", "  ", "b "}))
	assert.NotNil(t, CleanTags(nil))
}
