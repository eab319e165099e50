package thumbnail

import "testing"

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"vincent van gogh", "Vincent_Van_Gogh"},
		{"  CLAUDE   monet ", "Claude_Monet"},
		{"Henri de Toulouse-Lautrec", "Henri_De_Toulouse-lautrec"},
		{"élisabeth vigée", "Élisabeth_Vigée"},
		{"Titian", "Titian"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.input); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
