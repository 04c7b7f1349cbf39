package textkey

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café-123", "cafe123"},
		{"", ""},
		{"Crème Brûlée", "cremebrulee"},
		{"l'arbre", "larbre"},
		{"  Ünïcödé  ", "unicode"},
		{"ﬁre", "fire"},
		{"①②", "12"},
		{"日本語", ""},
		{"Straße", "strae"},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	in := "Éléphant rose"
	first := Normalize(in)
	for i := 0; i < 10; i++ {
		if got := Normalize(in); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}
