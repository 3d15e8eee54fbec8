package fieldmap

import "testing"

func TestParsePair(t *testing.T) {
	tests := []struct {
		in             string
		n, total       int
		hasN, hasTotal bool
	}{
		{"3", 3, 0, true, false},
		{"3/12", 3, 12, true, true},
		{" 07 / 10 ", 7, 10, true, true},
		{"/9", 0, 9, false, true},
		{"x/y", 0, 0, false, false},
		{"-1", 0, 0, false, false},
		{"", 0, 0, false, false},
	}

	for _, tt := range tests {
		n, total, hasN, hasTotal := ParsePair(tt.in)
		if n != tt.n || total != tt.total || hasN != tt.hasN || hasTotal != tt.hasTotal {
			t.Errorf("ParsePair(%q) = %d, %d, %v, %v", tt.in, n, total, hasN, hasTotal)
		}
	}
}

func TestFormatPair(t *testing.T) {
	tests := []struct {
		n, total       int
		hasN, hasTotal bool
		want           string
	}{
		{3, 12, true, true, "3/12"},
		{3, 0, true, false, "3"},
		{0, 12, false, true, "/12"},
		{0, 0, false, false, ""},
	}

	for _, tt := range tests {
		if got := FormatPair(tt.n, tt.total, tt.hasN, tt.hasTotal); got != tt.want {
			t.Errorf("FormatPair(%d, %d, %v, %v) = %q, want %q", tt.n, tt.total, tt.hasN, tt.hasTotal, got, tt.want)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1999", 1999, true},
		{"2024-03-01", 2024, true},
		{"2024-03-01T12:00:00Z", 2024, true},
		{"19999", 0, false},
		{"99", 0, false},
		{"abcd", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseYear(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveGenre(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(17)", "Rock"},
		{"17", "Rock"},
		{"(17)Heavy Rock", "Heavy Rock"},
		{"(RX)", "Remix"},
		{"(CR)", "Cover"},
		{"((Not a ref)", "(Not a ref)"},
		{"Shoegaze", "Shoegaze"},
		{"Jazz\x00Blues", "Jazz"},
		{"(255)", "(255)"},
		{"191", "Psybient"},
	}

	for _, tt := range tests {
		if got := ResolveGenre(tt.in); got != tt.want {
			t.Errorf("ResolveGenre(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenreIndex(t *testing.T) {
	if i, ok := GenreIndex("hip-hop"); !ok || i != 7 {
		t.Errorf("GenreIndex(hip-hop) = %d, %v", i, ok)
	}
	if _, ok := GenreIndex("Vaporwave"); ok {
		t.Error("unknown genre should not resolve")
	}
	if len(Genres) != 192 {
		t.Errorf("expected 192 genres, got %d", len(Genres))
	}
}
