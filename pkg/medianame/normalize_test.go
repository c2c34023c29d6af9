package medianame

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and punctuation", "The Matrix", "matrix"},
		{"accents", "Léon: The Professional", "leon professional"},
		{"ampersand", "Fast & Furious", "fast and furious"},
		{"roman numerals", "Rocky III", "rocky 3"},
		{"leading roman untouched", "V for Vendetta", "v for vendetta"},
		{"apostrophe", "Ocean's Eleven", "ocean s eleven"},
		{"whitespace collapse", "  spirited    away ", "spirited away"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.in); got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("The Lord of the Rings")
	want := []string{"lord", "rings"}
	if len(got) != len(want) {
		t.Fatalf("Keywords() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keywords()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
