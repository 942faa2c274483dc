package contentapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World!", "hello-world"},
		{"already clean", "hello-world", "hello-world"},
		{"mixed case", "Go Modules In Depth", "go-modules-in-depth"},
		{"numbers kept", "Top 10 Tips for 2024", "top-10-tips-for-2024"},
		{"symbol runs collapse", "C++ & Go: A Comparison", "c-go-a-comparison"},
		{"unicode stripped", "Café résumé", "caf-r-sum"},
		{"surrounding whitespace", "  padded title  ", "padded-title"},
		{"all symbols degenerate", "!!!", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	title := "Some Title, With — Punctuation?"
	first := Slugify(title)
	for range 10 {
		assert.Equal(t, first, Slugify(title))
	}
}

func TestSlugifyNeverDoublesHyphens(t *testing.T) {
	for _, title := range []string{"a  b", "a--b", "a !@# b", "--a--b--"} {
		slug := Slugify(title)
		assert.NotContains(t, slug, "--", "title %q", title)
	}
}
