package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHashtagsForDisplay(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already canonical", "#sale #today", "#sale #today"},
		{"missing prefixes", "sale today", "#sale #today"},
		{"mixed prefixes", "#sale today", "#sale #today"},
		{"comma separated", "sale,today,deal", "#sale #today #deal"},
		{"extra whitespace", "  #sale \t #today \n", "#sale #today"},
		{"doubled hash", "##sale", "#sale"},
		{"empty", "", ""},
		{"only separators", " , ,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHashtagsForDisplay(tt.raw))
		})
	}
}

func TestFormatHashtagsForSubmission(t *testing.T) {
	t.Run("removes duplicates", func(t *testing.T) {
		got := FormatHashtagsForSubmission("#sale #today #sale")
		assert.Equal(t, "#sale #today", got)
	})

	t.Run("duplicate check is case insensitive", func(t *testing.T) {
		got := FormatHashtagsForSubmission("#Sale #sale #SALE")
		assert.Equal(t, "#Sale", got)
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		got := FormatHashtagsForSubmission("#b #a #b #c #a")
		assert.Equal(t, "#b #a #c", got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", FormatHashtagsForSubmission(""))
	})
}

func TestJoinHashtags(t *testing.T) {
	assert.Equal(t, "sale today", JoinHashtags([]string{"sale", "today"}))
	assert.Equal(t, "", JoinHashtags(nil))
}
