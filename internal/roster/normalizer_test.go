package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeAthleteName tests athlete name canonicalization
func TestNormalizeAthleteName(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "Aaron Judge", "Aaron Judge"},
		{"last comma first", "Judge, Aaron", "Aaron Judge"},
		{"extra whitespace", "  aaron   judge  ", "Aaron Judge"},
		{"upper case", "AARON JUDGE", "Aaron Judge"},
		{"initials with periods", "J.D. Martinez", "Jd Martinez"},
		{"diacritics folded", "Ronald Acuña Jr", "Ronald Acuna Jr"},
		{"last comma first with diacritics", "Acuña, Ronald", "Ronald Acuna"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizer.NormalizeAthleteName(tt.input))
		})
	}
}

// TestNormalizeTeam tests team name canonicalization
func TestNormalizeTeam(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"abbreviation", "NYY", "New York Yankees"},
		{"nickname", "yankees", "New York Yankees"},
		{"full name", "New York Yankees", "New York Yankees"},
		{"abbreviation with spaces", " LAD ", "Los Angeles Dodgers"},
		{"cardinals with period", "ST. LOUIS CARDINALS", "St. Louis Cardinals"},
		{"unknown team falls back to title case", "gotham knights", "Gotham Knights"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizer.NormalizeTeam(tt.input))
		})
	}
}
